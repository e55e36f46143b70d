package roster

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mergington/activityhub/internal/domain"
	"github.com/mergington/activityhub/internal/pkg/httputil"
)

// Handler handles HTTP requests for the roster module. All routes
// require authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new roster handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers roster routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/activities", h.ListActivities)
	r.Post("/activities/{name}/signup", h.Signup)
	r.Delete("/activities/{name}/unregister", h.Unregister)
}

// ActivityResponse is the per-activity payload, keyed by name in the
// listing.
type ActivityResponse struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

func toResponse(a *domain.Activity) ActivityResponse {
	return ActivityResponse{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    a.Participants,
	}
}

// ListActivities handles GET /activities.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	out := make(map[string]ActivityResponse, len(activities))
	for _, a := range activities {
		out[a.Name] = toResponse(a)
	}

	httputil.Success(w, http.StatusOK, out)
}

// Signup handles POST /activities/{name}/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetUser(r.Context())
	if actor == nil {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := activityName(r)
	activity, err := h.service.Signup(r.Context(), name, actor)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Successfully signed up for %s", activity.Name),
	})
}

// Unregister handles DELETE /activities/{name}/unregister.
func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetUser(r.Context())
	if actor == nil {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := activityName(r)
	activity, err := h.service.Unregister(r.Context(), name, actor)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Successfully unregistered from %s", activity.Name),
	})
}

// activityName extracts the {name} URL parameter. Activity names contain
// spaces, so the raw segment may arrive percent-encoded.
func activityName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrActivityNotFound, Status: http.StatusNotFound},
	{Error: ErrAlreadyEnrolled, Status: http.StatusConflict},
	{Error: ErrActivityFull, Status: http.StatusConflict},
	{Error: ErrNotEnrolled, Status: http.StatusConflict},
	{Error: ErrStudentsOnly, Status: http.StatusForbidden},
}
