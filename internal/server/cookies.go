package server

import (
	"net/http"
	"time"

	"recepcion/internal/drafts"
	"recepcion/pkg/types"
)

const defaultDraftCookieName = "receipt_draft"

func (s *Service) draftCookieName() string {
	if s.config.DraftCookieName == "" {
		return defaultDraftCookieName
	}
	return s.config.DraftCookieName
}

func (s *Service) setDraftCookie(w http.ResponseWriter, token string) error {
	encoded, err := s.cookie.Encode(s.draftCookieName(), token)
	if err != nil {
		return err
	}

	ttl := time.Duration(s.config.DraftTTLMin) * time.Minute
	http.SetCookie(w, &http.Cookie{
		Name:     s.draftCookieName(),
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
	return nil
}

func (s *Service) clearDraftCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.draftCookieName(),
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// loadDraft resolves the draft named by the request cookie. A missing,
// tampered or expired cookie is reported as types.ErrDraftNotFound.
func (s *Service) loadDraft(r *http.Request) (*drafts.Draft, error) {
	cookie, err := r.Cookie(s.draftCookieName())
	if err != nil {
		return nil, types.ErrDraftNotFound
	}

	var token string
	if err := s.cookie.Decode(s.draftCookieName(), cookie.Value, &token); err != nil {
		s.requestLogger(r).WithError(err).Debug("failed to decode draft cookie")
		return nil, types.ErrDraftNotFound
	}

	return s.drafts.Load(r.Context(), token)
}
