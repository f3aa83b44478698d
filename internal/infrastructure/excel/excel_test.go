package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuild_RoundTrip(t *testing.T) {
	data, err := Build(Sheet{
		Name:    "Facturas",
		Title:   "Reporte de Facturas",
		Headers: []string{"Número", "Cliente", "Total"},
		Rows: [][]interface{}{
			{"FAC-2026-001", "Constructora Norte", 57500.00},
			{"FAC-2026-002", "Obras del Sur", 10000.00},
		},
		Totals: []interface{}{"TOTAL", "", 67500.00},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Facturas", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Reporte de Facturas", title)

	header, err := f.GetCellValue("Facturas", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Número", header)

	total, err := f.GetCellValue("Facturas", "C6")
	require.NoError(t, err)
	assert.Equal(t, "67500", total)
}

func TestBuild_EmptySheetName(t *testing.T) {
	data, err := Build(Sheet{Headers: []string{"A"}})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
