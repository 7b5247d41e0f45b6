package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"server/internal/middleware"
)

// PublicFundraiser serves the unauthenticated share page payload, with
// amounts formatted for the request locale.
func (a *App) PublicFundraiser(w http.ResponseWriter, r *http.Request) {
	f, raised, err := a.Fundraisers.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	p := message.NewPrinter(middleware.LocaleTag(locale))
	a.json(w, http.StatusOK, map[string]any{
		"name":                 f.Name,
		"description":          f.Description,
		"end_date":             f.EndDate.Format("2006-01-02"),
		"target_funds":         f.TargetFunds.StringFixed(2),
		"funds_raised":         raised.StringFixed(2),
		"target_funds_display": p.Sprintf("Ksh %v", number.Decimal(f.TargetFunds.InexactFloat64(), number.MaxFractionDigits(2))),
		"funds_raised_display": p.Sprintf("Ksh %v", number.Decimal(raised.InexactFloat64(), number.MaxFractionDigits(2))),
		"locale":               locale,
	})
}
