package member

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fizato/federation/pkg/middleware"
	"github.com/fizato/federation/pkg/request"
	"github.com/fizato/federation/pkg/response"
)

// Handler handles HTTP requests for member operations
type Handler struct {
	service *Service
}

// NewHandler creates a new member handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for member endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/me", h.GetOwn)
	r.Put("/me", h.UpdateOwn)
	r.Get("/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// Create handles POST /members
// @Summary      Register a new member
// @Description  Register a member and generate its card number
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body CreateMemberRequest true "Member creation request"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /members [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create member")
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// GetByID handles GET /members/{id}
// @Summary      Get member by ID
// @Tags         members
// @Produce      json
// @Param        id path int true "Member ID"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /members/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	m, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get member")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// List handles GET /members
// @Summary      List members
// @Tags         members
// @Produce      json
// @Param        association_id query int false "Only members of this association"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Router       /members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := request.Page(r)

	var filter ListFilter
	if v := r.URL.Query().Get("association_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid association ID")
			return
		}
		filter.AssociationID = &id
	}

	members, total, err := h.service.List(r.Context(), filter, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list members")
		return
	}

	resp := make([]*MemberResponse, len(members))
	for i, m := range members {
		resp[i] = m.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, response.NewMeta(page, perPage, total))
}

// Update handles PUT /members/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	var req UpdateMemberRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update member")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Delete handles DELETE /members/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err, "Failed to delete member")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member deleted successfully"})
}

// GetOwn handles GET /members/me
func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	m, err := h.service.GetByAccountSubject(r.Context(), claims.Subject)
	if err != nil {
		response.FromError(w, err, "Failed to get member")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// UpdateOwn handles PUT /members/me
// @Summary      Update my contact details
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body ContactUpdate true "Contact fields"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /members/me [put]
func (h *Handler) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req ContactUpdate
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m, err := h.service.UpdateOwn(r.Context(), claims.Subject, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update member")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}
