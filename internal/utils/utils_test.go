package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID       int    `db:"id"`
	Name     string `db:"name"`
	Skipped  string `db:"-"`
	Untagged string
	hidden   string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, StructTagValues(row{}))
	assert.Equal(t, []string{"id", "name"}, StructTagValues(&row{}))
	assert.Panics(t, func() { StructTagValues(42) })
}

func TestStructToMap(t *testing.T) {
	m := StructToMap(&row{ID: 7, Name: "monitor", hidden: "x"})
	assert.Equal(t, map[string]any{"id": 7, "name": "monitor"}, m)
}

func TestErrorWrapOrNil(t *testing.T) {
	assert.NoError(t, ErrorWrapOrNil(nil, "ignored"))

	base := errors.New("boom")
	assert.Same(t, base, ErrorWrapOrNil(base, ""))

	err := ErrorWrapOrNil(base, "failed to insert receipt")
	require.ErrorIs(t, err, base)
	assert.EqualError(t, err, "failed to insert receipt: boom")
}

func TestFilterSliceString(t *testing.T) {
	cols := []string{"order_id", "institution", "created_at", "status"}
	assert.Equal(t, []string{"institution", "status"}, FilterSliceString(cols, "order_id", "created_at"))
	assert.Equal(t, cols, FilterSliceString(cols))
}

func TestNanoID(t *testing.T) {
	assert.Len(t, NanoID(), TokenSize)
	assert.Len(t, NanoIDSize(8), 8)
	assert.Len(t, NanoIDSize(0), TokenSize)
	assert.NotEqual(t, NanoID(), NanoID())
}
