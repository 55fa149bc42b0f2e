package card

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fizato/federation/pkg/middleware"
	"github.com/fizato/federation/pkg/request"
	"github.com/fizato/federation/pkg/response"
)

// Handler handles HTTP requests for card operations
type Handler struct {
	service *Service
}

// NewHandler creates a new card handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for card endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/members/{memberId}", h.GetOrCreate)
		r.Post("/members/{memberId}/print", h.Print)
		r.Post("/{id}/printed", h.MarkPrinted)
		r.Post("/print", h.PrintBatch)
	})

	return r
}

// List handles GET /cards
// @Summary      List cards
// @Tags         cards
// @Produce      json
// @Param        printed query bool false "Filter on the printed flag"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]CardResponse}
// @Router       /cards [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := request.Page(r)

	var printed *bool
	if v := r.URL.Query().Get("printed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid printed filter")
			return
		}
		printed = &b
	}

	cards, total, err := h.service.List(r.Context(), printed, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list cards")
		return
	}

	resp := make([]*CardResponse, len(cards))
	for i, c := range cards {
		resp[i] = c.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, response.NewMeta(page, perPage, total))
}

// GetByID handles GET /cards/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid card ID")
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get card")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// GetOrCreate handles POST /cards/members/{memberId}
// @Summary      Generate a member card
// @Description  Returns the member's card, generating it on first request
// @Tags         cards
// @Produce      json
// @Param        memberId path int true "Member ID"
// @Success      200 {object} response.APIResponse{data=GetOrCreateResponse}
// @Success      201 {object} response.APIResponse{data=GetOrCreateResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /cards/members/{memberId} [post]
func (h *Handler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	memberID, err := request.IDParam(r, "memberId")
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	c, created, err := h.service.GetOrCreate(r.Context(), memberID)
	if err != nil {
		response.FromError(w, err, "Failed to generate card")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(w, status, &GetOrCreateResponse{Card: c.ToResponse(), Created: created})
}

// MarkPrinted handles POST /cards/{id}/printed
func (h *Handler) MarkPrinted(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid card ID")
		return
	}

	c, err := h.service.MarkPrinted(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to mark card as printed")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// Print handles POST /cards/members/{memberId}/print
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	memberID, err := request.IDParam(r, "memberId")
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	c, err := h.service.Print(r.Context(), memberID)
	if err != nil {
		response.FromError(w, err, "Failed to print card")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// PrintBatch handles POST /cards/print
// @Summary      Print a sheet of cards
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        request body PrintBatchRequest true "Members on the sheet"
// @Success      200 {object} response.APIResponse{data=[]CardResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /cards/print [post]
func (h *Handler) PrintBatch(w http.ResponseWriter, r *http.Request) {
	var req PrintBatchRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	cards, err := h.service.PrintBatch(r.Context(), req.MemberIDs)
	if err != nil {
		response.FromError(w, err, "Failed to print cards")
		return
	}

	resp := make([]*CardResponse, len(cards))
	for i, c := range cards {
		resp[i] = c.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}
