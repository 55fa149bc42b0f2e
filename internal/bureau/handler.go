package bureau

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fizato/federation/pkg/middleware"
	"github.com/fizato/federation/pkg/request"
	"github.com/fizato/federation/pkg/response"
)

// Handler handles HTTP requests for office functions, the bureau and the
// honor committee
type Handler struct {
	service *Service
}

// NewHandler creates a new bureau handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// FunctionRoutes returns the router for /functions
func (h *Handler) FunctionRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListFunctions)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.CreateFunction)
		r.Put("/{id}", h.UpdateFunction)
		r.Delete("/{id}", h.DeleteFunction)
	})

	return r
}

// BureauRoutes returns the router for /bureau
func (h *Handler) BureauRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListCurrent)
	r.Get("/{id}", h.GetMembership)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Assign)
		r.Delete("/{id}", h.RemoveMembership)
	})

	return r
}

// CommitteeRoutes returns the router for /committee
func (h *Handler) CommitteeRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListCommittee)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Nominate)
		r.Delete("/{id}", h.RemoveCommittee)
	})

	return r
}

// CreateFunction handles POST /functions
// @Summary      Create an office function
// @Tags         functions
// @Accept       json
// @Produce      json
// @Param        request body CreateFunctionRequest true "Office function"
// @Success      201 {object} response.APIResponse{data=FunctionResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /functions [post]
func (h *Handler) CreateFunction(w http.ResponseWriter, r *http.Request) {
	var req CreateFunctionRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	f, err := h.service.CreateFunction(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create office function")
		return
	}

	response.JSON(w, http.StatusCreated, f.ToResponse())
}

// ListFunctions handles GET /functions
func (h *Handler) ListFunctions(w http.ResponseWriter, r *http.Request) {
	functions, err := h.service.ListFunctions(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list office functions")
		return
	}

	resp := make([]*FunctionResponse, len(functions))
	for i, f := range functions {
		resp[i] = f.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// UpdateFunction handles PUT /functions/{id}
func (h *Handler) UpdateFunction(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid function ID")
		return
	}

	var req UpdateFunctionRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	f, err := h.service.UpdateFunction(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update office function")
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

// DeleteFunction handles DELETE /functions/{id}
func (h *Handler) DeleteFunction(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid function ID")
		return
	}

	if err := h.service.DeleteFunction(r.Context(), id); err != nil {
		response.FromError(w, err, "Failed to delete office function")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Office function deleted successfully"})
}

// Assign handles POST /bureau
// @Summary      Assign a bureau seat
// @Description  Seats a member on a function. A singular function's sitting holder is archived first.
// @Tags         bureau
// @Accept       json
// @Produce      json
// @Param        request body AssignRequest true "Bureau seat"
// @Success      201 {object} response.APIResponse{data=MembershipResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /bureau [post]
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	seat, err := h.service.Assign(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to assign bureau seat")
		return
	}

	response.JSON(w, http.StatusCreated, seat.ToResponse())
}

// ListCurrent handles GET /bureau
// @Summary      List the sitting bureau
// @Tags         bureau
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]MembershipResponse}
// @Router       /bureau [get]
func (h *Handler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	seats, err := h.service.ListCurrent(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list bureau")
		return
	}

	resp := make([]*MembershipResponse, len(seats))
	for i, b := range seats {
		resp[i] = b.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetMembership handles GET /bureau/{id}
func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid membership ID")
		return
	}

	b, err := h.service.GetMembership(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get bureau seat")
		return
	}

	response.JSON(w, http.StatusOK, b.ToResponse())
}

// RemoveMembership handles DELETE /bureau/{id}
func (h *Handler) RemoveMembership(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid membership ID")
		return
	}

	if err := h.service.RemoveMembership(r.Context(), id); err != nil {
		response.FromError(w, err, "Failed to remove bureau seat")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Bureau seat removed successfully"})
}

// Nominate handles POST /committee
func (h *Handler) Nominate(w http.ResponseWriter, r *http.Request) {
	var req NominateRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	seat, err := h.service.Nominate(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to nominate committee member")
		return
	}

	response.JSON(w, http.StatusCreated, seat.ToResponse())
}

// ListCommittee handles GET /committee
func (h *Handler) ListCommittee(w http.ResponseWriter, r *http.Request) {
	seats, err := h.service.ListCommittee(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list committee")
		return
	}

	resp := make([]*CommitteeResponse, len(seats))
	for i, c := range seats {
		resp[i] = c.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// RemoveCommittee handles DELETE /committee/{id}
func (h *Handler) RemoveCommittee(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid committee ID")
		return
	}

	if err := h.service.RemoveCommittee(r.Context(), id); err != nil {
		response.FromError(w, err, "Failed to remove committee seat")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Committee seat removed successfully"})
}
