package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/infra/logging"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type activationRequest struct {
	Code string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// handleRegister creates an inactive account, issues its first activation
// code and queues the email. POST /v1/registration
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.userUC.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "User with this email already exists")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusUnprocessableEntity, "Invalid email or password")
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Msg("registration failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	code, err := s.activationUC.Issue(r.Context(), user.ID)
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Str("user_id", user.ID).Msg("issuing activation code failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.deliverCode(r.Context(), user.Email, code)

	writeJSON(w, http.StatusCreated, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	})
}

// handleActivate redeems a submitted code for the authenticated account.
// POST /v1/activation (Basic auth)
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req activationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.activationUC.Redeem(r.Context(), user.ID, req.Code); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, domain.ErrAlreadyActive):
			writeError(w, http.StatusBadRequest, "User is already active")
		case errors.Is(err, domain.ErrInvalidOrExpiredCode):
			writeError(w, http.StatusBadRequest, "Invalid or expired activation code")
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Str("user_id", user.ID).Msg("redemption failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Account activated successfully",
		UserID:  user.ID,
	})
}

// handleResend issues a fresh code, superseding any outstanding one, and
// queues the email. POST /v1/activation/resend (Basic auth)
func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	if user.IsActive {
		writeError(w, http.StatusBadRequest, "User is already active")
		return
	}

	code, err := s.activationUC.Issue(r.Context(), user.ID)
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Str("user_id", user.ID).Msg("reissuing activation code failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.deliverCode(r.Context(), user.Email, code)

	writeJSON(w, http.StatusAccepted, messageResponse{
		Message: "Activation code sent",
		UserID:  user.ID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
