package receipt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"recepcion/internal/signature"
	"recepcion/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedRecord(t *testing.T, id int) types.FormRecord {
	t.Helper()
	return signedRecordTo(t, id, 80)
}

// signedRecordTo signs both roles; the IT stroke ends at x so callers can
// tell two submissions apart by their images.
func signedRecordTo(t *testing.T, id int, x float64) types.FormRecord {
	t.Helper()

	pad := signature.NewPad(0, 0)
	require.NoError(t, pad.Draw(types.SignerIT, []signature.Stroke{{{X: 10, Y: 10}, {X: x, Y: 40}}}))
	require.NoError(t, pad.Draw(types.SignerUser, []signature.Stroke{{{X: 20, Y: 20}}}))

	record := NewDraft(id, testInstitution, testNow)
	for _, signer := range types.Signers {
		img, err := pad.ExportImage(signer)
		require.NoError(t, err)
		record = record.WithSignature(signer, img)
	}
	return record
}

func TestArchive_CreateRecordStoresSignaturesInBucket(t *testing.T) {
	repo := newFakeRepo()
	bucket := newFakeBucket()
	archive := NewArchive(repo, bucket, quietLogger())
	archive.revision = func() string { return "r1" }
	ctx := context.Background()

	record := signedRecord(t, 1200)
	id, err := archive.CreateRecord(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, 1200, id)

	assert.Equal(t, []string{"receipts/1200/it-r1.png", "receipts/1200/user-r1.png"}, bucket.keys())

	stored := repo.rows[1200]
	assert.Empty(t, stored.Record.ITSignature)
	assert.Empty(t, stored.Record.UserSignature)
	assert.Equal(t, "receipts/1200/it-r1.png", stored.ITSignatureKey)
	assert.Equal(t, types.RecordStatusCompleted, stored.Status)

	loaded, err := archive.GetRecord(ctx, 1200)
	require.NoError(t, err)
	assert.Equal(t, record.ITSignature, loaded.ITSignature)
	assert.Equal(t, record.UserSignature, loaded.UserSignature)
	assert.Equal(t, types.RecordStatusCompleted, loaded.Status())
}

func TestArchive_CreateRecordDuplicate(t *testing.T) {
	bucket := newFakeBucket()
	archive := NewArchive(newFakeRepo(), bucket, quietLogger())
	ctx := context.Background()

	first := signedRecordTo(t, 1300, 80)
	_, err := archive.CreateRecord(ctx, first)
	require.NoError(t, err)
	keys := bucket.keys()

	second := signedRecordTo(t, 1300, 30)
	require.NotEqual(t, first.ITSignature, second.ITSignature)
	_, err = archive.CreateRecord(ctx, second)
	assert.ErrorIs(t, err, types.ErrOrderExists)

	assert.Equal(t, keys, bucket.keys())
	loaded, err := archive.GetRecord(ctx, 1300)
	require.NoError(t, err)
	assert.Equal(t, first.ITSignature, loaded.ITSignature)
	assert.Equal(t, first.UserSignature, loaded.UserSignature)

	require.NoError(t, archive.ImportRecord(ctx, NewDraft(1300, testInstitution, testNow)))
}

func TestArchive_CreateRecordInsertRace(t *testing.T) {
	// The existence check passes but the insert loses to a concurrent submit.
	repo := newFakeRepo()
	repo.insertErr = fmt.Errorf("%w: %d", types.ErrOrderExists, 1310)
	bucket := newFakeBucket()
	archive := NewArchive(repo, bucket, quietLogger())

	_, err := archive.CreateRecord(context.Background(), signedRecord(t, 1310))
	assert.ErrorIs(t, err, types.ErrOrderExists)
	assert.Empty(t, bucket.keys())
	assert.Empty(t, repo.rows)
}

func TestArchive_CreateRecordInsertFailureRemovesImages(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = errors.New("connection reset")
	bucket := newFakeBucket()
	archive := NewArchive(repo, bucket, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := archive.CreateRecord(ctx, signedRecord(t, 1320))
	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, bucket.keys())
}

func TestArchive_ImportRecordUsesStableKeys(t *testing.T) {
	repo := newFakeRepo()
	bucket := newFakeBucket()
	archive := NewArchive(repo, bucket, quietLogger())
	ctx := context.Background()

	require.NoError(t, archive.ImportRecord(ctx, signedRecord(t, 1001)))
	require.NoError(t, archive.ImportRecord(ctx, signedRecord(t, 1001)))

	assert.Equal(t, []string{"receipts/1001/it.png", "receipts/1001/user.png"}, bucket.keys())
	assert.Equal(t, "receipts/1001/user.png", repo.rows[1001].UserSignatureKey)
}

func TestArchive_RejectsBadInput(t *testing.T) {
	archive := NewArchive(newFakeRepo(), newFakeBucket(), quietLogger())
	ctx := context.Background()

	_, err := archive.CreateRecord(ctx, types.FormRecord{})
	assert.Error(t, err)

	record := NewDraft(1400, testInstitution, testNow)
	record.ITSignature = "data:image/jpeg;base64,AAAA"
	_, err = archive.CreateRecord(ctx, record)
	assert.ErrorIs(t, err, signature.ErrInvalidDataURL)
}

func TestArchive_MissingSignatureImageIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	bucket := newFakeBucket()
	archive := NewArchive(newFakeRepo(), bucket, logger)
	ctx := context.Background()

	_, err := archive.CreateRecord(ctx, signedRecord(t, 1500))
	require.NoError(t, err)

	bucket.getErr = errors.New("bucket offline")
	loaded, err := archive.GetRecord(ctx, 1500)
	require.NoError(t, err)
	assert.Empty(t, loaded.ITSignature)
	assert.Equal(t, types.RecordStatusPending, loaded.Status())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, 1500, hook.LastEntry().Data["order_id"])
}

func TestArchive_NextOrderID(t *testing.T) {
	archive := NewArchive(newFakeRepo(), newFakeBucket(), quietLogger())

	first, err := archive.NextOrderID(context.Background())
	require.NoError(t, err)
	second, err := archive.NextOrderID(context.Background())
	require.NoError(t, err)
	assert.Greater(t, second, first)
}
