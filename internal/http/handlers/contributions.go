package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/mpesa"
)

type recordContributionRequest struct {
	Message string `json:"message"`
}

type contributionDTO struct {
	ID               string `json:"id"`
	Reference        string `json:"reference"`
	ContributorName  string `json:"contributor_name"`
	PhoneNumber      string `json:"phone_number"`
	Amount           string `json:"amount"`
	ContributionDate string `json:"contribution_date"`
	ContributionTime string `json:"contribution_time"`
}

func contributionToDTO(c *domain.Contribution) contributionDTO {
	return contributionDTO{
		ID:               c.ID,
		Reference:        c.Reference,
		ContributorName:  c.ContributorName,
		PhoneNumber:      c.PhoneNumber,
		Amount:           c.Amount.StringFixed(2),
		ContributionDate: c.ContributionDate.Format("2006-01-02"),
		ContributionTime: c.ContributionTime,
	}
}

// ContributionsRecord is the contribution-submission endpoint: it parses a
// pasted notification message and persists the validated contribution.
func (a *App) ContributionsRecord(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req recordContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Message == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "message is required")
		return
	}

	result, err := a.Contributions.Record(r.Context(), userID, chi.URLParam(r, "id"), req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) && result != nil && result.Fields != nil {
			// Parse succeeded but the store rejected the write; return the
			// parsed fields for display alongside the failure.
			a.json(w, http.StatusInternalServerError, map[string]any{
				"error":   "persistence",
				"message": err.Error(),
				"parsed":  parsedFieldsDTO(result.Fields),
			})
			return
		}
		a.domainError(w, err)
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"contribution": contributionToDTO(result.Contribution),
		"funds_raised": result.FundsRaised.StringFixed(2),
	})
}

func parsedFieldsDTO(f *mpesa.Fields) map[string]string {
	return map[string]string{
		"reference":         f.Reference,
		"amount":            f.Amount.StringFixed(2),
		"contributor_name":  f.ContributorName,
		"phone_number":      f.PhoneNumber,
		"contribution_date": f.DateISO(),
		"contribution_time": f.Time,
	}
}

// ContributionsList serves the paginated report: fixed page size, 1-based
// page numbers, insertion order.
func (a *App) ContributionsList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			a.error(w, http.StatusBadRequest, "bad_request", "page must be a positive integer")
			return
		}
		page = parsed
	}

	report, err := a.Contributions.Page(r.Context(), userID, chi.URLParam(r, "id"), page)
	if err != nil {
		a.domainError(w, err)
		return
	}

	items := make([]contributionDTO, 0, len(report.Items))
	for i := range report.Items {
		items = append(items, contributionToDTO(&report.Items[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":       items,
		"page":        report.Page,
		"total_pages": report.TotalPages,
		"total":       report.Total,
	})
}

// ContributionsExport streams the full contribution list as CSV.
func (a *App) ContributionsExport(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	items, err := a.Contributions.All(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contributions.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"reference", "contributor_name", "phone_number", "amount", "date", "time"})
	for i := range items {
		c := &items[i]
		_ = cw.Write([]string{
			c.Reference,
			c.ContributorName,
			c.PhoneNumber,
			c.Amount.StringFixed(2),
			c.ContributionDate.Format("2006-01-02"),
			c.ContributionTime,
		})
	}
	cw.Flush()
}
