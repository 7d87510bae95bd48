package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recepcion/internal/metrics"
	"recepcion/internal/signature"
	"recepcion/internal/utils"
	"recepcion/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	signatureContentType = "image/png"
	revisionSize         = 12
)

var errNoOrderID = errors.New("record has no order id")

// RecordRepository persists receipt rows. Signature images are not stored in
// the row, only the bucket keys that hold them.
type RecordRepository interface {
	InsertRecord(ctx context.Context, stored types.StoredRecord) error
	UpsertRecord(ctx context.Context, stored types.StoredRecord) error
	Record(ctx context.Context, id int) (*types.StoredRecord, error)
	NextOrderID(ctx context.Context) (int, error)
}

type SignatureBucket interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Archive is the persistence boundary of submitted receipts. It writes
// signature images to the bucket and the record itself to the repository.
type Archive struct {
	repo     RecordRepository
	bucket   SignatureBucket
	logger   *logrus.Logger
	now      func() time.Time
	revision func() string
}

func NewArchive(repo RecordRepository, bucket SignatureBucket, logger *logrus.Logger) *Archive {
	return &Archive{
		repo:   repo,
		bucket: bucket,
		logger: logger,
		now:    time.Now,
		revision: func() string {
			return utils.NanoIDSize(revisionSize)
		},
	}
}

// SignatureKey names the object holding one signer's image. Submissions carry
// a revision so a rejected attempt can never replace the images of a stored
// record; imports use the bare key.
func SignatureKey(orderID int, signer types.Signer, revision string) string {
	if revision == "" {
		return fmt.Sprintf("receipts/%d/%s.png", orderID, signer)
	}
	return fmt.Sprintf("receipts/%d/%s-%s.png", orderID, signer, revision)
}

func (a *Archive) NextOrderID(ctx context.Context) (int, error) {
	id, err := a.repo.NextOrderID(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocate order id: %w", err)
	}
	return id, nil
}

// CreateRecord stores a new record. An order id that is already recorded
// fails with types.ErrOrderExists and leaves the stored record untouched.
func (a *Archive) CreateRecord(ctx context.Context, record types.FormRecord) (int, error) {
	if record.OrderID <= 0 {
		return 0, errNoOrderID
	}

	_, err := a.repo.Record(ctx, record.OrderID)
	switch {
	case err == nil:
		return 0, fmt.Errorf("insert record %d: %w", record.OrderID, types.ErrOrderExists)
	case !errors.Is(err, types.ErrRecordNotFound):
		return 0, fmt.Errorf("check record %d: %w", record.OrderID, err)
	}

	stored, uploaded, err := a.prepare(ctx, record, a.revision())
	if err != nil {
		a.discard(ctx, record.OrderID, uploaded)
		return 0, err
	}

	if err := a.repo.InsertRecord(ctx, stored); err != nil {
		a.discard(ctx, record.OrderID, uploaded)
		return 0, fmt.Errorf("insert record %d: %w", record.OrderID, err)
	}

	a.logger.WithFields(logrus.Fields{
		"order_id": record.OrderID,
		"status":   stored.Status,
	}).Info("receipt recorded")

	return record.OrderID, nil
}

// ImportRecord writes record whether or not its order id already exists.
func (a *Archive) ImportRecord(ctx context.Context, record types.FormRecord) error {
	stored, _, err := a.prepare(ctx, record, "")
	if err != nil {
		return err
	}

	if err := a.repo.UpsertRecord(ctx, stored); err != nil {
		return fmt.Errorf("upsert record %d: %w", record.OrderID, err)
	}
	return nil
}

func (a *Archive) GetRecord(ctx context.Context, id int) (*types.FormRecord, error) {
	stored, err := a.repo.Record(ctx, id)
	if err != nil {
		return nil, err
	}

	record := stored.Record
	for _, signer := range types.Signers {
		key := stored.SignatureKey(signer)
		if key == "" {
			continue
		}

		img, err := a.bucket.Get(ctx, key)
		if err != nil {
			a.logger.WithError(err).WithFields(logrus.Fields{
				"order_id": id,
				"key":      key,
			}).Error("failed to load signature image")
			continue
		}
		record = record.WithSignature(signer, signature.EncodeDataURL(img))
	}

	return &record, nil
}

// prepare uploads the signature images of record and returns the row to
// store. uploaded lists every key written, also when an error is returned.
func (a *Archive) prepare(ctx context.Context, record types.FormRecord, revision string) (stored types.StoredRecord, uploaded []string, err error) {
	if record.OrderID <= 0 {
		return types.StoredRecord{}, nil, errNoOrderID
	}

	stored = types.StoredRecord{
		Record:    record,
		Status:    record.Status(),
		CreatedAt: a.now(),
	}
	stored.Record.ITSignature = ""
	stored.Record.UserSignature = ""

	for _, signer := range types.Signers {
		dataURL := record.Signature(signer)
		if dataURL == "" {
			continue
		}

		img, err := signature.DecodeDataURL(dataURL)
		if err != nil {
			return types.StoredRecord{}, uploaded, fmt.Errorf("decode %s signature: %w", signer, err)
		}

		key := SignatureKey(record.OrderID, signer, revision)
		if err := a.bucket.Put(ctx, key, img, signatureContentType); err != nil {
			return types.StoredRecord{}, uploaded, fmt.Errorf("upload %s signature: %w", signer, err)
		}
		uploaded = append(uploaded, key)
		metrics.RecordSignature(string(signer))

		if signer == types.SignerIT {
			stored.ITSignatureKey = key
		} else {
			stored.UserSignatureKey = key
		}
	}

	return stored, uploaded, nil
}

// discard removes images written for a record that was not stored. It runs
// even when ctx is already done so a timed out submit leaves nothing behind.
func (a *Archive) discard(ctx context.Context, orderID int, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := a.bucket.Delete(ctx, key); err != nil {
			a.logger.WithError(err).WithFields(logrus.Fields{
				"order_id": orderID,
				"key":      key,
			}).Warn("failed to remove unused signature image")
		}
	}
}
