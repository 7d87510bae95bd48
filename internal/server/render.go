package server

import (
	"bytes"
	"net/http"

	"recepcion/pkg/types"
)

// renderTemplate executes templateName into a buffer first so a failing
// template never leaves a half written page behind.
func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	if setter, ok := data.(types.BaseDataSetter); ok {
		setter.SetBaseData(types.BaseData{
			Institution: s.config.Institution,
			Environment: s.config.Environment,
		})
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.requestLogger(r).WithError(err).WithField("template", templateName).Error("failed to render template")
		s.internalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
