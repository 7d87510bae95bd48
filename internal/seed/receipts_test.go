package seed

import (
	"context"
	"errors"
	"testing"

	"recepcion/internal/signature"
	"recepcion/pkg/types"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingImporter struct {
	records []types.FormRecord
	err     error
}

func (r *recordingImporter) ImportRecord(ctx context.Context, record types.FormRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func TestReceipts(t *testing.T) {
	records, err := Receipts()
	require.NoError(t, err)
	require.Len(t, records, 5)

	status := map[int]types.RecordStatus{}
	for _, r := range records {
		status[r.OrderID] = r.Status()
		assert.Equal(t, institution, r.Institution)
	}

	assert.Equal(t, map[int]types.RecordStatus{
		1001: types.RecordStatusCompleted,
		1002: types.RecordStatusCompleted,
		1003: types.RecordStatusPending,
		1004: types.RecordStatusCompleted,
		1005: types.RecordStatusCompleted,
	}, status)

	first := records[0]
	assert.Equal(t, "María González", first.ResponsibleUser)
	assert.True(t, signature.IsDataURL(first.ITSignature))
	assert.NotEqual(t, first.ITSignature, first.UserSignature)
}

func TestSeedReceipts(t *testing.T) {
	logger, hook := test.NewNullLogger()
	importer := new(recordingImporter)

	require.NoError(t, SeedReceipts(context.Background(), importer, logger))
	assert.Len(t, importer.records, 5)
	assert.NotEmpty(t, hook.AllEntries())

	failing := &recordingImporter{err: errors.New("db down")}
	err := SeedReceipts(context.Background(), failing, logger)
	assert.ErrorContains(t, err, "import receipt 1001")
}
