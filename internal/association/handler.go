package association

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fizato/federation/pkg/middleware"
	"github.com/fizato/federation/pkg/request"
	"github.com/fizato/federation/pkg/response"
)

// Handler handles HTTP requests for association operations
type Handler struct {
	service *Service
}

// NewHandler creates a new association handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for association endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/code", h.Code)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// Create handles POST /associations
// @Summary      Create a new association
// @Tags         associations
// @Accept       json
// @Produce      json
// @Param        request body CreateAssociationRequest true "Association creation request"
// @Success      201 {object} response.APIResponse{data=AssociationResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /associations [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssociationRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	a, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create association")
		return
	}

	response.JSON(w, http.StatusCreated, a.ToResponse())
}

// GetByID handles GET /associations/{id}
// @Summary      Get association by ID
// @Tags         associations
// @Produce      json
// @Param        id path int true "Association ID"
// @Success      200 {object} response.APIResponse{data=AssociationResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /associations/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid association ID")
		return
	}

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get association")
		return
	}

	response.JSON(w, http.StatusOK, a.ToResponse())
}

// List handles GET /associations
// @Summary      List associations
// @Tags         associations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]AssociationResponse}
// @Router       /associations [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := request.Page(r)

	associations, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list associations")
		return
	}

	resp := make([]*AssociationResponse, len(associations))
	for i, a := range associations {
		resp[i] = a.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, response.NewMeta(page, perPage, total))
}

// Update handles PUT /associations/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid association ID")
		return
	}

	var req UpdateAssociationRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	a, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update association")
		return
	}

	response.JSON(w, http.StatusOK, a.ToResponse())
}

// Delete handles DELETE /associations/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid association ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err, "Failed to delete association")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Association deleted successfully"})
}

// Code handles GET /associations/{id}/code
// @Summary      Derive the card-number code of an association
// @Tags         associations
// @Produce      json
// @Param        id path int true "Association ID"
// @Success      200 {object} response.APIResponse{data=CodeResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /associations/{id}/code [get]
func (h *Handler) Code(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid association ID")
		return
	}

	code, err := h.service.Code(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to derive association code")
		return
	}

	response.JSON(w, http.StatusOK, &CodeResponse{AssociationID: id, Code: code})
}
