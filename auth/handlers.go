package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/user/almacen-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers for the
// authentication endpoints.
type Handlers struct {
	service  *AuthService
	validate *validator.Validate
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{
		service:  service,
		validate: validator.New(),
	}
}

// HandleRegister registers a new user.
// POST /auth/register -> 201 with the public user fields.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("validation failed: "+err.Error(), nil))
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, NewUserResponse(user))
	}
}

// HandleLogin authenticates a user and returns a bearer token.
// POST /auth/login -> 200 with {access_token, token_type}. Every credential
// failure produces the same 401 response shape.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("username and password are required", nil))
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			log.Printf("login failed for user %q", req.Username)
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleMe returns the public fields of the authenticated identity resolved
// by the middleware.
// GET /me -> 200 with {id, username, email, is_active}.
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("no authenticated user in request context", nil))
			return
		}

		writeJSON(w, http.StatusOK, NewUserResponse(user))
	}
}

// writeJSON serializes data to JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into a standardized apperror response.
// Errors that are not AppError values are wrapped as generic internal errors
// so no internal detail leaks to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("error processing request %s %s: %v", r.Method, r.URL.Path, appErr)
	}

	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
