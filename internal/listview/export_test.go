package listview

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pharmastock/internal/models"
)

type memorySaver struct {
	filename string
	data     []byte
	err      error
}

func (s *memorySaver) Save(filename string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.filename = filename
	s.data = data
	return nil
}

func TestBuildReportDropsValuelessRows(t *testing.T) {
	report := BuildReport([]string{"A", "B"}, []ReportRow{
		{"A": "1", "B": "2"},
		{},
		{"A": "", "B": ""},
		{"A": "3"},
	})

	assert.Len(t, report.Rows, 2)
	assert.Equal(t, []string{"A", "B"}, report.Columns)
}

func TestBuildReportAppendsUnknownColumnsAlphabetically(t *testing.T) {
	report := BuildReport([]string{"Name"}, []ReportRow{
		{"Name": "x", "Zeta": "1", "Alpha": "2"},
	})

	assert.Equal(t, []string{"Name", "Alpha", "Zeta"}, report.Columns)
}

func TestWriteCSVEscapesCommasAndQuotes(t *testing.T) {
	report := BuildReport([]string{"A", "B"}, []ReportRow{
		{"A": "x,y", "B": `He said "hi"`},
	})

	var buf bytes.Buffer
	err := report.WriteCSV(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "A,B\n\"x,y\",\"He said \"\"hi\"\"\"\n", buf.String())
}

func TestPreviewCapsRowsButSerializationDoesNot(t *testing.T) {
	rows := make([]ReportRow, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, ReportRow{"N": fmt.Sprintf("%d", i)})
	}
	report := BuildReport([]string{"N"}, rows)

	assert.Len(t, report.Preview(), PreviewRowLimit)

	var buf bytes.Buffer
	assert.NoError(t, report.WriteCSV(&buf))
	assert.Equal(t, 61, bytes.Count(buf.Bytes(), []byte("\n"))) // header + 60 rows
}

func TestExportFilenameIsDateStamped(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "inventory-report-2026-08-30.csv", ExportFilename(now))
}

func TestExporterWritesDatedFile(t *testing.T) {
	saver := &memorySaver{}
	notifier := &fakeNotifier{}
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	exporter := NewExporter(saver, notifier, func() time.Time { return now })

	report := BuildReport([]string{"A"}, []ReportRow{{"A": "1"}})
	err := exporter.Export(report)

	assert.NoError(t, err)
	assert.Equal(t, "inventory-report-2026-08-30.csv", saver.filename)
	assert.Equal(t, "A\n1\n", string(saver.data))
	assert.Empty(t, notifier.warnings)
}

func TestExporterWarnsOnEmptyReport(t *testing.T) {
	saver := &memorySaver{}
	notifier := &fakeNotifier{}
	exporter := NewExporter(saver, notifier, nil)

	err := exporter.Export(BuildReport([]string{"A"}, nil))

	assert.NoError(t, err)
	assert.Empty(t, saver.filename, "no file should be written")
	assert.Equal(t, []string{"Nothing to export"}, notifier.warnings)
}

func TestItemReportRowsFlattenItems(t *testing.T) {
	brand := "Cipla"
	purchase := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	item := models.ProductItem{
		ProductName:      "Paracetamol 500mg",
		Stock:            40,
		ExpiryDate:       time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		UnitPrice:        2.5,
		Brand:            &brand,
		LastPurchaseDate: &purchase,
	}

	rows := ItemReportRows([]models.ProductItem{item})
	assert.Len(t, rows, 1)
	assert.Equal(t, "Paracetamol 500mg", rows[0]["Product"])
	assert.Equal(t, "40", rows[0]["Stock"])
	assert.Equal(t, "2027-01-15", rows[0]["Expiry Date"])
	assert.Equal(t, "2.50", rows[0]["Unit Price"])
	assert.Equal(t, "Cipla", rows[0]["Brand"])
	assert.Equal(t, "2026-07-01", rows[0]["Last Purchase"])
	_, hasCategory := rows[0]["Category"]
	assert.False(t, hasCategory)
}
