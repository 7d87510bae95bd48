package receipt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"recepcion/pkg/types"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 15, 9, 30, 0, 0, time.UTC)

const testInstitution = "Municipalidad de Lo Prado"

// fillDraft applies every required field through the controller.
func fillDraft(t *testing.T, c *Controller) {
	t.Helper()

	general := map[string]string{
		FieldAddress:         "San Pablo 7777",
		FieldDepartment:      "Recursos Humanos",
		FieldResponsibleUser: "María González",
	}
	for field, value := range general {
		require.NoError(t, c.UpdateField(types.SectionInstitution, field, value))
	}

	for _, cat := range types.Categories {
		require.NoError(t, c.UpdateField(types.SectionEquipment, FieldSerialNumber, "SN-"+string(cat), cat))
		require.NoError(t, c.UpdateField(types.SectionEquipment, FieldInventoryNumber, "INV-"+string(cat), cat))
		require.NoError(t, c.UpdateField(types.SectionEquipment, FieldModel, "Model "+string(cat), cat))
		require.NoError(t, c.UpdateField(types.SectionEquipment, FieldBrand, "Dell", cat))
	}

	details := map[string]string{
		FieldProcessor:       "Intel Core i5-10500",
		FieldRAM:             "16GB DDR4",
		FieldStorage:         "SSD 512GB",
		FieldOperatingSystem: "Windows 11 Pro",
		FieldOffice:          "Microsoft Office 2021",
	}
	for field, value := range details {
		require.NoError(t, c.UpdateField(types.SectionPCDetails, field, value))
	}
}

type fakeSignatures map[types.Signer]string

func (f fakeSignatures) ExportImage(signer types.Signer) (string, error) {
	return f[signer], nil
}

type fakePersister struct {
	mu      sync.Mutex
	err     error
	records []types.FormRecord
	block   chan struct{}
}

func (p *fakePersister) CreateRecord(ctx context.Context, record types.FormRecord) (int, error) {
	if p.block != nil {
		<-p.block
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	p.records = append(p.records, record)
	return record.OrderID, nil
}

type fakeSummaries struct {
	items []types.RecordSummary
	err   error
}

func (f *fakeSummaries) CountSummaries(ctx context.Context, search string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(Search(f.items, search)), nil
}

func (f *fakeSummaries) Summaries(ctx context.Context, search string, limit, offset int) ([]types.RecordSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	matched := Search(f.items, search)
	if offset >= len(matched) {
		return []types.RecordSummary{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

type fakeRepo struct {
	rows      map[int]types.StoredRecord
	next      int
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int]types.StoredRecord{}, next: 1100}
}

func (r *fakeRepo) InsertRecord(ctx context.Context, stored types.StoredRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, ok := r.rows[stored.Record.OrderID]; ok {
		return fmt.Errorf("%w: %d", types.ErrOrderExists, stored.Record.OrderID)
	}
	r.rows[stored.Record.OrderID] = stored
	return nil
}

func (r *fakeRepo) UpsertRecord(ctx context.Context, stored types.StoredRecord) error {
	r.rows[stored.Record.OrderID] = stored
	return nil
}

func (r *fakeRepo) Record(ctx context.Context, id int) (*types.StoredRecord, error) {
	stored, ok := r.rows[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &stored, nil
}

func (r *fakeRepo) NextOrderID(ctx context.Context) (int, error) {
	r.next++
	return r.next, nil
}

type fakeBucket struct {
	objects map[string][]byte
	getErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) Put(ctx context.Context, key string, body []byte, contentType string) error {
	b.objects[key] = append([]byte(nil), body...)
	return nil
}

func (b *fakeBucket) Get(ctx context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	body, ok := b.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return body, nil
}

func (b *fakeBucket) Delete(ctx context.Context, key string) error {
	delete(b.objects, key)
	return nil
}

func (b *fakeBucket) keys() []string {
	out := make([]string, 0, len(b.objects))
	for k := range b.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
