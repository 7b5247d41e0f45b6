package handlers

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact relays a contact-form submission to the configured recipient.
func (a *App) Contact(w http.ResponseWriter, r *http.Request) {
	if a.Mail == nil || a.ContactTo == "" {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "contact form is not configured")
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name, email and message are required")
		return
	}

	body := fmt.Sprintf("<p>From: %s (%s)</p><p>%s</p>",
		html.EscapeString(req.Name), html.EscapeString(req.Email), html.EscapeString(req.Message))
	if err := a.Mail.Send(r.Context(), a.ContactTo, "Contact form message", body); err != nil {
		a.Logger.Error().Err(err).Msg("send contact mail failed")
		a.error(w, http.StatusBadGateway, "mail_failed", "failed to deliver message")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
