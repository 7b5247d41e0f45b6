package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/mailer"
	"server/internal/mpesa"
	"server/internal/service"
	"server/internal/session"
)

// App is the handler container: it holds the collaborators every endpoint
// needs, injected once at startup.
type App struct {
	Logger        zerolog.Logger
	Users         domain.UserRepository
	Fundraisers   *service.FundraiserService
	Contributions *service.ContributionService
	Sessions      session.Store
	Mail          mailer.Sender
	JWTSecret     string
	SessionTTL    time.Duration
	PublicBaseURL string
	ContactTo     string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// domainError maps service errors onto HTTP responses. Unauthorized and
// forbidden stay distinct from not-found.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "you do not own this fundraiser")
	case errors.Is(err, domain.ErrUserExists):
		a.error(w, http.StatusConflict, "conflict", "username already taken")
	case errors.Is(err, domain.ErrFundraiserExists):
		a.error(w, http.StatusConflict, "conflict", "user already has an active fundraiser")
	case service.IsParseError(err):
		a.json(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   "invalid_message",
			"field":   mpesa.FieldName(err),
			"message": err.Error(),
		})
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
