package identity

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mergington/activityhub/internal/domain"
	"github.com/mergington/activityhub/internal/pkg/httputil"
)

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public identity routes. loginLimiter guards
// only the login endpoint; registration is not rate limited.
func (h *Handler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	r.Post("/auth/register", h.Register)
	r.With(loginLimiter).Post("/auth/login", h.Login)
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.Me)
	r.Get("/auth/users", h.ListUsers)
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=student teacher admin"`
}

// Register handles POST /auth/register.
//
// Registration is open, but an admin may authenticate to create teacher
// or admin accounts; anonymous callers only get student accounts.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	var actor *domain.User
	if token := httputil.BearerToken(r); token != "" {
		u, err := h.service.Authenticate(r.Context(), token)
		if err != nil {
			httputil.HandleError(r.Context(), w, err, ErrorMappings)
			return
		}
		actor = u
	}

	user, err := h.service.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
	}, actor)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, ErrorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, user)
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	token, _, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, ErrorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// ListUsers handles GET /auth/users (admin only).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetUser(r.Context())
	if actor == nil {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := h.service.ListUsers(r.Context(), actor)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, ErrorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, users)
}

// ErrorMappings maps identity errors to HTTP statuses. Shared with the
// auth middleware so token failures map the same way everywhere.
var ErrorMappings = []httputil.ErrorMapping{
	{Error: ErrEmailExists, Status: http.StatusConflict},
	{Error: ErrInvalidDomain, Status: http.StatusBadRequest},
	{Error: ErrRoleEscalationDenied, Status: http.StatusForbidden},
	{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized},
	{Error: ErrAccountInactive, Status: http.StatusForbidden},
	{Error: ErrInvalidToken, Status: http.StatusUnauthorized},
	{Error: ErrUserNotFound, Status: http.StatusUnauthorized},
	{Error: ErrForbidden, Status: http.StatusForbidden},
}
