package server

import (
	"net/http"
	"strconv"
	"strings"

	"recepcion/internal/export"
	"recepcion/pkg/types"
)

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	query := types.ListQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Page:   parsePage(r.URL.Query().Get("page")),
	}

	page, err := s.lister.List(ctx, query)
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to list receipts")
		s.internalServerError(w)
		return
	}

	data := &types.ListPageData{
		BasePageData: types.BasePageData{Title: "Formularios de Recepción"},
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
		Search:       query.Search,
		Page:         page,
	}

	s.renderTemplate(w, r, http.StatusOK, "page.list", data)
}

// parsePage reads the page query parameter. Anything unparsable is page 1;
// out of range values are clamped by the lister.
func parsePage(v string) int {
	page, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 1
	}
	return page
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	items, err := s.lister.All(ctx, strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to load receipts for export")
		s.internalServerError(w)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.FileName(s.now()))
	if err := export.WriteSummaries(w, items); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to write receipts export")
	}
}
