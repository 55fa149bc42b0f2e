package federation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fizato/federation/pkg/middleware"
	"github.com/fizato/federation/pkg/request"
	"github.com/fizato/federation/pkg/response"
)

// Handler handles HTTP requests for the federation profile
type Handler struct {
	service *Service
}

// NewHandler creates a new federation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for federation endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetProfile)
	r.Get("/summary", h.Summary)
	r.With(middleware.RequireAdmin).Put("/", h.UpdateProfile)

	return r
}

// GetProfile handles GET /federation
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Profile(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to get federation profile")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// UpdateProfile handles PUT /federation
// @Summary      Save the federation profile
// @Tags         federation
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Router       /federation [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to save federation profile")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Summary handles GET /federation/summary
// @Summary      Dashboard summary
// @Tags         federation
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Summary}
// @Router       /federation/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to build summary")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
