package listview

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"pharmastock/internal/models"
)

// PreviewRowLimit caps the number of rows shown in the export preview. The
// serialized file always contains the full row set.
const PreviewRowLimit = 50

const exportBufferSize = 32 * 1024

// ReportRow is one flat row of the export, keyed by column name.
type ReportRow map[string]string

// Report is a tabular snapshot of the loaded rows with a fixed column order.
type Report struct {
	Columns []string
	Rows    []ReportRow
}

// FileSaver is the platform boundary that persists a generated file.
type FileSaver interface {
	Save(filename string, data []byte) error
}

// BuildReport assembles a report from the given rows. Rows that are empty or
// carry no values are dropped before the header union is computed. Columns
// follow the given order; keys not listed are appended alphabetically.
func BuildReport(columns []string, rows []ReportRow) Report {
	var kept []ReportRow
	for _, row := range rows {
		if hasValues(row) {
			kept = append(kept, row)
		}
	}

	seen := make(map[string]bool, len(columns))
	ordered := make([]string, 0, len(columns))
	for _, col := range columns {
		if !seen[col] {
			seen[col] = true
			ordered = append(ordered, col)
		}
	}
	var extras []string
	for _, row := range kept {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				extras = append(extras, key)
			}
		}
	}
	sort.Strings(extras)

	return Report{Columns: append(ordered, extras...), Rows: kept}
}

func hasValues(row ReportRow) bool {
	for _, v := range row {
		if v != "" {
			return true
		}
	}
	return false
}

// Empty reports whether no rows survived.
func (r Report) Empty() bool {
	return len(r.Rows) == 0
}

// Preview returns at most PreviewRowLimit rows for on-screen display.
func (r Report) Preview() []ReportRow {
	if len(r.Rows) <= PreviewRowLimit {
		return r.Rows
	}
	return r.Rows[:PreviewRowLimit]
}

// WriteCSV serializes the full report, header first. Fields containing
// commas, quotes or newlines are quoted with doubled embedded quotes.
func (r Report) WriteCSV(w io.Writer) error {
	buf := bufio.NewWriterSize(w, exportBufferSize)
	writer := csv.NewWriter(buf)

	if err := writer.Write(r.Columns); err != nil {
		return err
	}
	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, col := range r.Columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// ExportFilename is the date-stamped name of the downloaded report.
func ExportFilename(now time.Time) string {
	return "inventory-report-" + now.Format("2006-01-02") + ".csv"
}

// Exporter serializes reports and hands them to the download boundary.
type Exporter struct {
	saver    FileSaver
	notifier Notifier
	now      func() time.Time
}

// NewExporter creates an exporter. now may be nil and defaults to time.Now.
func NewExporter(saver FileSaver, notifier Notifier, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{saver: saver, notifier: notifier, now: now}
}

// Export writes the full report to a dated CSV file. An empty report aborts
// with a warning and produces no file.
func (e *Exporter) Export(report Report) error {
	if report.Empty() {
		e.notifier.Warning("Nothing to export")
		return nil
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		e.notifier.Error("Failed to generate report: " + err.Error())
		return err
	}

	filename := ExportFilename(e.now())
	if err := e.saver.Save(filename, buf.Bytes()); err != nil {
		e.notifier.Error("Failed to save report: " + err.Error())
		return err
	}
	return nil
}

// ItemReportColumns is the fixed column order of the inventory export.
func ItemReportColumns() []string {
	return []string{"Product", "Brand", "Category", "Stock", "Expiry Date", "Unit Price", "Last Purchase"}
}

// ItemReportRows maps loaded product items onto flat report rows.
func ItemReportRows(items []models.ProductItem) []ReportRow {
	rows := make([]ReportRow, 0, len(items))
	for _, item := range items {
		row := ReportRow{
			"Product":     item.ProductName,
			"Stock":       strconv.Itoa(item.Stock),
			"Expiry Date": item.ExpiryDate.Format("2006-01-02"),
			"Unit Price":  strconv.FormatFloat(item.UnitPrice, 'f', 2, 64),
		}
		if item.Brand != nil {
			row["Brand"] = *item.Brand
		}
		if item.Category != nil {
			row["Category"] = *item.Category
		}
		if item.LastPurchaseDate != nil {
			row["Last Purchase"] = item.LastPurchaseDate.Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return rows
}
