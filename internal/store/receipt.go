package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"recepcion/internal/utils"
	"recepcion/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	receiptTableName  = "recepcion.receipts"
	orderSequenceName = "recepcion.order_id_seq"

	uniqueViolation = "23505"
)

// receiptRow is the column layout of recepcion.receipts. The nested parts of
// the record are JSONB documents.
type receiptRow struct {
	OrderID            int             `db:"order_id"`
	Institution        string          `db:"institution"`
	ReceiptDate        time.Time       `db:"receipt_date"`
	Address            string          `db:"address"`
	Department         string          `db:"department"`
	ResponsibleUser    string          `db:"responsible_user"`
	Equipment          json.RawMessage `db:"equipment"`
	PCDetails          json.RawMessage `db:"pc_details"`
	WithdrawnEquipment json.RawMessage `db:"withdrawn_equipment"`
	ITSignatureKey     string          `db:"it_signature_key"`
	UserSignatureKey   string          `db:"user_signature_key"`
	Status             string          `db:"status"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

type summaryRow struct {
	OrderID         int       `db:"order_id"`
	ReceiptDate     time.Time `db:"receipt_date"`
	Department      string    `db:"department"`
	ResponsibleUser string    `db:"responsible_user"`
	Status          string    `db:"status"`
}

var (
	receiptColumns = utils.StructTagValues(receiptRow{})
	summaryColumns = utils.StructTagValues(summaryRow{})
)

type ReceiptRepository struct {
	pool *pgxpool.Pool
}

func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{pool: pool}
}

func (r *ReceiptRepository) NextOrderID(ctx context.Context) (int, error) {
	var id int64
	err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT nextval('%s')", orderSequenceName)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate order id: %w", err)
	}
	return int(id), nil
}

func (r *ReceiptRepository) InsertRecord(ctx context.Context, stored types.StoredRecord) error {

	row, err := toReceiptRow(stored)
	if err != nil {
		return err
	}

	query, args, err := psql().Insert(receiptTableName).SetMap(utils.StructToMap(row)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert receipt query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("failed to insert receipt: %w: %d", types.ErrOrderExists, stored.Record.OrderID)
	}
	return utils.ErrorWrapOrNil(err, "failed to insert receipt")

}

// UpsertRecord replaces every column of an existing order except its creation
// time.
func (r *ReceiptRepository) UpsertRecord(ctx context.Context, stored types.StoredRecord) error {

	row, err := toReceiptRow(stored)
	if err != nil {
		return err
	}

	query, args, err := psql().Insert(receiptTableName).
		SetMap(utils.StructToMap(row)).
		Suffix(upsertSuffix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert receipt query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert receipt")

}

func upsertSuffix() string {
	updates := make([]string, 0, len(receiptColumns))
	for _, col := range utils.FilterSliceString(receiptColumns, "order_id", "created_at") {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return "ON CONFLICT (order_id) DO UPDATE SET " + strings.Join(updates, ", ")
}

func (r *ReceiptRepository) Record(ctx context.Context, id int) (*types.StoredRecord, error) {

	query, args, err := psql().Select(receiptColumns...).From(receiptTableName).
		Where(sq.Eq{"order_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt query: %w", err)
	}

	var row = new(receiptRow)
	err = pgxscan.Get(ctx, r.pool, row, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrRecordNotFound
	}

	return fromReceiptRow(row)

}

func (r *ReceiptRepository) CountSummaries(ctx context.Context, search string) (int, error) {

	builder := psql().Select("COUNT(*)").From(receiptTableName)
	if filter := searchFilter(search); filter != nil {
		builder = builder.Where(filter)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate count receipts query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}

	return int(total), nil

}

func (r *ReceiptRepository) Summaries(ctx context.Context, search string, limit, offset int) ([]types.RecordSummary, error) {

	builder := psql().Select(summaryColumns...).From(receiptTableName).
		OrderBy("receipt_date desc", "order_id desc").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if filter := searchFilter(search); filter != nil {
		builder = builder.Where(filter)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt summaries query: %w", err)
	}

	var rows = make([]*summaryRow, 0)
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt summaries: %w", err)
	}

	out := make([]types.RecordSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.RecordSummary{
			ID:              row.OrderID,
			Date:            row.ReceiptDate.Format(types.DateLayout),
			Department:      row.Department,
			ResponsibleUser: row.ResponsibleUser,
			Status:          types.RecordStatus(row.Status),
		})
	}

	return out, nil

}

func searchFilter(search string) sq.Sqlizer {
	if strings.TrimSpace(search) == "" {
		return nil
	}

	pattern := containsPattern(search)
	return sq.Or{
		sq.ILike{"responsible_user": pattern},
		sq.ILike{"department": pattern},
		sq.Expr("CAST(order_id AS TEXT) LIKE ?", pattern),
	}
}

func toReceiptRow(stored types.StoredRecord) (*receiptRow, error) {

	record := stored.Record

	date, err := time.Parse(types.DateLayout, record.Date)
	if err != nil {
		return nil, fmt.Errorf("receipt %d has invalid date %q: %w", record.OrderID, record.Date, err)
	}

	equipment, err := json.Marshal(record.Equipment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode equipment: %w", err)
	}
	details, err := json.Marshal(record.PCDetails)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pc details: %w", err)
	}
	withdrawn, err := json.Marshal(record.WithdrawnEquipment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode withdrawn equipment: %w", err)
	}

	createdAt := stored.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &receiptRow{
		OrderID:            record.OrderID,
		Institution:        record.Institution,
		ReceiptDate:        date,
		Address:            record.Address,
		Department:         record.Department,
		ResponsibleUser:    record.ResponsibleUser,
		Equipment:          equipment,
		PCDetails:          details,
		WithdrawnEquipment: withdrawn,
		ITSignatureKey:     stored.ITSignatureKey,
		UserSignatureKey:   stored.UserSignatureKey,
		Status:             string(stored.Status),
		CreatedAt:          createdAt,
		UpdatedAt:          time.Now(),
	}, nil

}

func fromReceiptRow(row *receiptRow) (*types.StoredRecord, error) {

	record := types.FormRecord{
		OrderID:         row.OrderID,
		Institution:     row.Institution,
		Date:            row.ReceiptDate.Format(types.DateLayout),
		Address:         row.Address,
		Department:      row.Department,
		ResponsibleUser: row.ResponsibleUser,
	}

	if err := decodeJSONB(row.Equipment, &record.Equipment); err != nil {
		return nil, fmt.Errorf("failed to decode equipment of receipt %d: %w", row.OrderID, err)
	}
	if err := decodeJSONB(row.PCDetails, &record.PCDetails); err != nil {
		return nil, fmt.Errorf("failed to decode pc details of receipt %d: %w", row.OrderID, err)
	}
	if err := decodeJSONB(row.WithdrawnEquipment, &record.WithdrawnEquipment); err != nil {
		return nil, fmt.Errorf("failed to decode withdrawn equipment of receipt %d: %w", row.OrderID, err)
	}

	return &types.StoredRecord{
		Record:           record,
		ITSignatureKey:   row.ITSignatureKey,
		UserSignatureKey: row.UserSignatureKey,
		Status:           types.RecordStatus(row.Status),
		CreatedAt:        row.CreatedAt,
	}, nil

}

func decodeJSONB(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
