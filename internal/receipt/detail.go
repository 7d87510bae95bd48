package receipt

import (
	"context"

	"recepcion/pkg/types"
)

type RecordReader interface {
	GetRecord(ctx context.Context, id int) (*types.FormRecord, error)
}

// Details resolves single records for read-only display. A missing record is
// reported as types.ErrRecordNotFound.
type Details struct {
	reader RecordReader
}

func NewDetails(reader RecordReader) *Details {
	return &Details{reader: reader}
}

func (d *Details) GetByID(ctx context.Context, id int) (*types.FormRecord, error) {
	if id <= 0 {
		return nil, types.ErrRecordNotFound
	}
	return d.reader.GetRecord(ctx, id)
}

// Withdrawal lists the withdrawn categories that carry a serial number.
func Withdrawal(record types.FormRecord) types.WithdrawalView {
	view := types.WithdrawalView{Rows: make([]types.WithdrawalRow, 0, len(types.Categories))}
	for _, cat := range types.Categories {
		item := record.WithdrawnEquipment.Item(cat)
		if !item.Recorded() {
			continue
		}
		view.Rows = append(view.Rows, types.WithdrawalRow{Category: cat, Item: item})
	}
	view.Recorded = len(view.Rows) > 0
	return view
}
