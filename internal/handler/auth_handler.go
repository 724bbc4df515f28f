package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/middleware"
	"go-shop-api/internal/model"
	"go-shop-api/internal/service"
	"go-shop-api/pkg/apierror"
)

type AuthHandler struct {
	auth      *service.AuthService
	users     *service.UserService
	validator *Validator
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, validator *Validator) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, validator: validator}
}

// bind decodes and validates a JSON body.
func (h *AuthHandler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst, false); err != nil {
		writeError(w, err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if !h.bind(w, r, &payload) {
		return
	}

	result, err := h.auth.Login(r.Context(), actorFromRequest(r), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful!", result, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if !h.bind(w, r, &payload) {
		return
	}

	result, err := h.auth.Register(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully!", result, nil)
}

// RefreshToken runs behind the refresh-purpose authenticator, so the identity
// in the context was resolved from a refresh token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Unauthorized"))
		return
	}

	access, err := h.auth.Refresh(identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Access token refreshed.", map[string]string{"accessToken": access}, nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ForgotPasswordRequest
	if !h.bind(w, r, &payload) {
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), actorFromRequest(r), payload.Email); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "If the email is registered, a password reset token has been sent.", nil, nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ResetPasswordRequest
	if !h.bind(w, r, &payload) {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), actorFromRequest(r), payload.ResetToken, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password has been reset.", nil, nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ChangePasswordRequest
	if !h.bind(w, r, &payload) {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), actorFromRequest(r), payload.CurrentPassword, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password has been changed.", nil, nil)
}

func (h *AuthHandler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	var payload model.SuspendUserRequest
	if !h.bind(w, r, &payload) {
		return
	}

	message, err := h.users.SetSuspended(r.Context(), actorFromRequest(r), chi.URLParam(r, "userId"), *payload.Suspend)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, message, map[string]string{"message": message}, nil)
}

// Logout revokes the access token that authenticated the request and, if
// the body names one, the caller's refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload model.LogoutRequest
	if err := decodeJSON(w, r, &payload, true); err != nil {
		writeError(w, err)
		return
	}

	access, _ := middleware.TokenFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), actorFromRequest(r), access, payload.RefreshToken); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Logged out successfully.", nil, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Unauthorized"))
		return
	}

	profile, err := h.users.Get(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Retrieved current user.", profile, nil)
}
