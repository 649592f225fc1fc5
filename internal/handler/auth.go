package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/service"
)

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
	errs   errorWriter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
		errs:   errorWriter{logger: logger, conflictStatus: http.StatusBadRequest},
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	session, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	h.logger.Info("user_registered", "user_id", session.User.ID)

	writeJSON(w, http.StatusCreated, dto.ToSessionResponse(session.Token, session.ExpiresAt, session.User))
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSessionResponse(session.Token, session.ExpiresAt, session.User))
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing token")
		return
	}

	if err := h.svc.Logout(r.Context(), caller); err != nil {
		if errors.Is(err, service.ErrLogoutUnavailable) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
			return
		}
		h.errs.write(w, r, err)
		return
	}

	h.logger.Info("user_logged_out", "user_id", caller.UserID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
