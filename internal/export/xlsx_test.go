package export

import (
	"bytes"
	"testing"
	"time"

	"recepcion/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSummaries(t *testing.T) {
	items := []types.RecordSummary{
		{ID: 1001, Date: "2025-05-15", Department: "Recursos Humanos", ResponsibleUser: "María González", Status: types.RecordStatusCompleted},
		{ID: 1003, Date: "2025-05-13", Department: "Atención Ciudadana", ResponsibleUser: "Ana Silva", Status: types.RecordStatusPending},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaries(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Usuario Responsable", rows[0][3])
	assert.Equal(t, []string{"1001", "15/05/2025", "Recursos Humanos", "María González", "Completado"}, rows[1])
	assert.Equal(t, "Pendiente", rows[2][4])
}

func TestWriteSummaries_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaries(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "formularios_2025-05-15.xlsx", FileName(time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC)))
}
