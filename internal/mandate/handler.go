package mandate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fizato/federation/pkg/middleware"
	"github.com/fizato/federation/pkg/request"
	"github.com/fizato/federation/pkg/response"
)

// Handler handles HTTP requests for the mandate lifecycle
type Handler struct {
	service *Service
}

// NewHandler creates a new mandate handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for mandate endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/current", h.Current)
	r.Get("/history", h.History)
	r.Get("/transition", h.PreviewTransition)
	r.Get("/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Create)
		r.Post("/transition", h.Transition)
		r.Post("/{id}/end", h.End)
		r.Delete("/history", h.PurgeHistory)
		r.Delete("/{id}", h.DeleteArchived)
	})

	return r
}

// Create handles POST /mandates
// @Summary      Open a mandate
// @Tags         mandates
// @Accept       json
// @Produce      json
// @Param        request body CreateMandateRequest true "Mandate"
// @Success      201 {object} response.APIResponse{data=MandateResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /mandates [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMandateRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to open mandate")
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// Current handles GET /mandates/current
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Current(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get current mandate")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// GetByID handles GET /mandates/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid mandate ID")
		return
	}

	m, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get mandate")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// History handles GET /mandates/history
// @Summary      Mandate history
// @Description  Every mandate with its bureau and committee, the current one first
// @Tags         mandates
// @Produce      json
// @Success      200 {object} response.APIResponse{data=HistoryResponse}
// @Router       /mandates/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to load mandate history")
		return
	}

	response.JSON(w, http.StatusOK, history.ToResponse())
}

// PreviewTransition handles GET /mandates/transition
func (h *Handler) PreviewTransition(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.PreviewTransition(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to preview transition")
		return
	}

	history := &History{Entries: []*HistoryEntry{entry}}
	response.JSON(w, http.StatusOK, history.ToResponse().Mandates[0])
}

// Transition handles POST /mandates/transition
// @Summary      Roll over to the next mandate
// @Description  Archives the current mandate with its bureau and committee, then opens the successor
// @Tags         mandates
// @Accept       json
// @Produce      json
// @Param        request body TransitionRequest false "Optional motif"
// @Success      200 {object} response.APIResponse{data=TransitionResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /mandates/transition [post]
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := request.DecodeOptional(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var motif string
	if req.Motif != nil {
		motif = *req.Motif
	}

	result, err := h.service.Transition(r.Context(), motif)
	if err != nil {
		response.FromError(w, err, "Failed to transition mandate")
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// End handles POST /mandates/{id}/end
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid mandate ID")
		return
	}

	result, err := h.service.End(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to end mandate")
		return
	}

	response.JSON(w, http.StatusOK, &EndResponse{
		Mandate:        result.Mandate.ToResponse(),
		BureauArchived: result.BureauArchived,
	})
}

// PurgeHistory handles DELETE /mandates/history
func (h *Handler) PurgeHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PurgeHistory(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to purge mandate history")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// DeleteArchived handles DELETE /mandates/{id}
func (h *Handler) DeleteArchived(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid mandate ID")
		return
	}

	result, err := h.service.DeleteArchived(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to delete mandate")
		return
	}

	response.JSON(w, http.StatusOK, result)
}
