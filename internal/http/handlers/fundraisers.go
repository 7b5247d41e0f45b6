package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type createFundraiserRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	EndDate     string `json:"end_date"`
	TargetFunds string `json:"target_funds"`
}

type fundraiserDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EndDate     string `json:"end_date"`
	TargetFunds string `json:"target_funds"`
	FundsRaised string `json:"funds_raised"`
}

func fundraiserToDTO(f *domain.Fundraiser, raised decimal.Decimal) fundraiserDTO {
	return fundraiserDTO{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		EndDate:     f.EndDate.Format("2006-01-02"),
		TargetFunds: f.TargetFunds.StringFixed(2),
		FundsRaised: raised.StringFixed(2),
	}
}

func (a *App) FundraisersCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req createFundraiserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "end_date must be YYYY-MM-DD")
		return
	}
	target, err := decimal.NewFromString(req.TargetFunds)
	if err != nil || target.Sign() <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "target_funds must be a positive amount")
		return
	}

	f, err := a.Fundraisers.Create(r.Context(), userID, service.CreateFundraiserInput{
		Name:        req.Name,
		Description: req.Description,
		EndDate:     endDate,
		TargetFunds: target,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, fundraiserToDTO(f, decimal.Zero))
}

func (a *App) FundraisersGet(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	f, raised, err := a.Fundraisers.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, fundraiserToDTO(f, raised))
}

func (a *App) FundraisersDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if err := a.Fundraisers.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FundraisersQR serves a PNG QR code pointing at the fundraiser's public
// share page.
func (a *App) FundraisersQR(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if _, _, err := a.Fundraisers.Get(r.Context(), userID, id); err != nil {
		a.domainError(w, err)
		return
	}

	shareURL := a.PublicBaseURL + "/v1/f/" + id
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		a.Logger.Error().Err(err).Msg("encode qr failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to render qr code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
