package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"recepcion/internal/drafts"
	"recepcion/internal/metrics"
	"recepcion/internal/receipt"
	"recepcion/internal/signature"
	"recepcion/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	msgDraftExpired   = "Su formulario expiró. Se abrió uno nuevo."
	msgSubmitLocked   = "Este formulario ya se está enviando. Espere un momento."
	msgPersistFailed  = "No se pudo guardar el formulario. Sus datos se mantienen, intente nuevamente."
	msgInvalidForm    = "Revise los campos marcados antes de guardar."
	msgSaved          = "Formulario guardado correctamente."
	msgRecordNotFound = "No se encontró el formulario"
	msgBadSignature   = "La firma no es válida. Límpiela y firme nuevamente."
	msgAlreadySaved   = "Este formulario ya había sido guardado."
)

func (s *Service) handleGetNew(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	draft, err := s.loadDraft(r)
	if errors.Is(err, types.ErrDraftNotFound) {
		draft, err = s.startDraft(ctx, w)
	}
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to open receipt draft")
		s.internalServerError(w)
		return
	}

	s.renderReceiptForm(w, r, http.StatusOK, draft, nil, r.URL.Query().Get("error"))
}

func (s *Service) handlePostNew(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	draft, err := s.loadDraft(r)
	if errors.Is(err, types.ErrDraftNotFound) {
		v := url.Values{}
		v.Set("error", msgDraftExpired)
		http.Redirect(w, r, "/new?"+v.Encode(), http.StatusSeeOther)
		return
	}
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to load receipt draft")
		s.internalServerError(w)
		return
	}

	logger := s.requestLogger(r).WithField("order_id", draft.Record.OrderID)

	unlock, err := s.drafts.Lock(ctx, draft.Token)
	if errors.Is(err, types.ErrDraftLocked) {
		metrics.RecordSubmission(metrics.OutcomeLocked)
		s.renderReceiptForm(w, r, http.StatusConflict, draft, nil, msgSubmitLocked)
		return
	}
	if err != nil {
		logger.WithError(err).Error("failed to lock receipt draft")
		s.internalServerError(w)
		return
	}
	defer unlock()

	// Another request may have submitted this draft while we waited for the lock.
	orderID := draft.Record.OrderID
	draft, err = s.drafts.Load(ctx, draft.Token)
	if errors.Is(err, types.ErrDraftNotFound) {
		s.alreadySubmitted(w, r, orderID)
		return
	}
	if err != nil {
		logger.WithError(err).Error("failed to reload receipt draft")
		s.internalServerError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		logger.WithError(err).Error("failed to parse form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var form = new(receiptForm)
	if err := decoder.Decode(form, r.Form); err != nil {
		logger.WithError(err).Error("failed to decode form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	ctrl := receipt.NewController(draft.Record, s.policy)
	inputErrs := types.NewValidationError()
	for _, u := range form.updates() {
		err := u.apply(ctrl)
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			mergeErrors(inputErrs, verr)
			continue
		}
		if err != nil {
			logger.WithError(err).WithField("field", u.field).Error("failed to apply form field")
			s.internalServerError(w)
			return
		}
	}

	draft.Record = ctrl.Draft()
	draft.Strokes = form.strokes()

	pad := signature.NewPad(signature.DefaultWidth, signature.DefaultHeight)
	for _, signer := range types.Signers {
		strokes, err := signature.ParseStrokes(draft.Strokes[signer])
		if err == nil {
			err = pad.Draw(signer, strokes)
		}
		if err != nil {
			logger.WithError(err).WithField("signer", signer).Warn("discarding unreadable signature")
			inputErrs.Add(signatureErrorKey(signer), msgBadSignature)
			draft.Strokes[signer] = ""
		}
	}

	if !inputErrs.Empty() {
		if verr := s.policy.Validate(draft.Record); verr != nil {
			mergeErrors(inputErrs, verr)
		}
		s.rejectDraft(w, r, draft, inputErrs)
		return
	}

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	record, err := ctrl.Submit(persistCtx, pad, s.archive)
	var verr *types.ValidationError
	var perr *types.PersistenceError
	switch {
	case errors.As(err, &verr):
		draft.Record = ctrl.Draft()
		s.rejectDraft(w, r, draft, verr)
		return
	case errors.Is(err, types.ErrOrderExists):
		if err := s.drafts.Delete(ctx, draft.Token); err != nil {
			logger.WithError(err).Warn("failed to delete submitted draft")
		}
		s.alreadySubmitted(w, r, orderID)
		return
	case errors.As(err, &perr):
		metrics.RecordSubmission(metrics.OutcomeFailed)
		logger.WithError(perr.Err).Error("failed to persist receipt")
		draft.Record = ctrl.Draft()
		s.saveDraft(r, draft)
		s.renderReceiptForm(w, r, http.StatusServiceUnavailable, draft, nil, msgPersistFailed)
		return
	case err != nil:
		logger.WithError(err).Error("failed to submit receipt")
		s.internalServerError(w)
		return
	}

	metrics.RecordSubmission(metrics.OutcomeCreated)
	logger.WithFields(logrus.Fields{
		"department": record.Department,
		"status":     record.Status(),
	}).Info("receipt submitted")

	if err := s.drafts.Delete(ctx, draft.Token); err != nil {
		logger.WithError(err).Warn("failed to delete submitted draft")
	}
	s.clearDraftCookie(w)

	v := url.Values{}
	v.Set("notice", msgSaved)
	http.Redirect(w, r, fmt.Sprintf("/view/%d?%s", record.OrderID, v.Encode()), http.StatusSeeOther)
}

// alreadySubmitted answers a submit whose draft is gone. The visitor lands on
// the stored receipt when there is one, otherwise on a fresh form.
func (s *Service) alreadySubmitted(w http.ResponseWriter, r *http.Request, orderID int) {
	metrics.RecordSubmission(metrics.OutcomeDuplicate)
	s.clearDraftCookie(w)

	_, err := s.details.GetByID(r.Context(), orderID)
	if err != nil {
		if !errors.Is(err, types.ErrRecordNotFound) {
			s.requestLogger(r).WithError(err).WithField("order_id", orderID).Warn("failed to look up submitted receipt")
		}
		v := url.Values{}
		v.Set("error", msgDraftExpired)
		http.Redirect(w, r, "/new?"+v.Encode(), http.StatusSeeOther)
		return
	}

	v := url.Values{}
	v.Set("notice", msgAlreadySaved)
	http.Redirect(w, r, fmt.Sprintf("/view/%d?%s", orderID, v.Encode()), http.StatusSeeOther)
}

// rejectDraft keeps every entered value and re-renders the form with the
// failing fields marked.
func (s *Service) rejectDraft(w http.ResponseWriter, r *http.Request, draft *drafts.Draft, verr *types.ValidationError) {
	metrics.RecordSubmission(metrics.OutcomeInvalid)
	s.saveDraft(r, draft)
	s.renderReceiptForm(w, r, http.StatusUnprocessableEntity, draft, verr.Fields, msgInvalidForm)
}

func (s *Service) handleResetNew(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	draft, err := s.loadDraft(r)
	if err == nil {
		if err := s.drafts.Delete(ctx, draft.Token); err != nil {
			s.requestLogger(r).WithError(err).Warn("failed to delete draft on reset")
		}
	}
	s.clearDraftCookie(w)

	http.Redirect(w, r, "/new", http.StatusSeeOther)
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		id = 0
	}

	record, err := s.details.GetByID(ctx, id)
	if errors.Is(err, types.ErrRecordNotFound) {
		s.renderTemplate(w, r, http.StatusNotFound, "page.not-found", &types.NotFoundPageData{
			BasePageData: types.BasePageData{Title: msgRecordNotFound},
			Message:      msgRecordNotFound,
		})
		return
	}
	if err != nil {
		s.requestLogger(r).WithError(err).WithField("order_id", id).Error("failed to load receipt")
		s.internalServerError(w)
		return
	}

	data := &types.ReceiptViewPageData{
		BasePageData: types.BasePageData{Title: fmt.Sprintf("Formulario N° %d", record.OrderID)},
		Notice:       r.URL.Query().Get("notice"),
		Record:       *record,
		Status:       record.Status(),
		Categories:   types.Categories,
		Withdrawal:   receipt.Withdrawal(*record),
	}

	s.renderTemplate(w, r, http.StatusOK, "page.view", data)
}

func (s *Service) renderReceiptForm(w http.ResponseWriter, r *http.Request, status int, draft *drafts.Draft, errs map[string]string, message string) {
	data := &types.ReceiptFormPageData{
		BasePageData: types.BasePageData{Title: "Nuevo Formulario de Recepción"},
		Record:       draft.Record,
		Categories:   types.Categories,
		Errors:       errs,
		ITStrokes:    draft.Strokes[types.SignerIT],
		UserStrokes:  draft.Strokes[types.SignerUser],
		Error:        message,
	}

	s.renderTemplate(w, r, status, "page.new", data)
}

func (s *Service) startDraft(ctx context.Context, w http.ResponseWriter) (*drafts.Draft, error) {
	orderID, err := s.archive.NextOrderID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	draft := drafts.New(receipt.NewDraft(orderID, s.config.Institution, now), now)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.setDraftCookie(w, draft.Token); err != nil {
		return nil, err
	}

	return draft, nil
}

func (s *Service) saveDraft(r *http.Request, draft *drafts.Draft) {
	if err := s.drafts.Save(r.Context(), draft); err != nil {
		s.requestLogger(r).WithError(err).WithField("order_id", draft.Record.OrderID).Error("failed to save receipt draft")
	}
}

func mergeErrors(dst, src *types.ValidationError) {
	for _, path := range src.Paths() {
		if !dst.Has(path) {
			dst.Add(path, src.Fields[path])
		}
	}
}

func signatureErrorKey(signer types.Signer) string {
	return "signatures." + string(signer)
}
