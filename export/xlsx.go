package export

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theoremus-urban-solutions/entur-deviations/deviation"
)

// WriteXLSX renders a workbook with a summary sheet and a records sheet.
func WriteXLSX(w io.Writer, records []deviation.Record) error {
	f := excelize.NewFile()
	summarySheet := "summary"
	recordsSheet := "deviations"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return err
	}

	var sumDelay, maxDelay int64
	for _, rec := range records {
		sumDelay += rec.ExpectedDelaySeconds
		if rec.ExpectedDelaySeconds > maxDelay {
			maxDelay = rec.ExpectedDelaySeconds
		}
	}

	_ = f.SetCellValue(summarySheet, "A1", "Deviation report")
	_ = f.SetCellValue(summarySheet, "A3", "Records")
	_ = f.SetCellValue(summarySheet, "B3", len(records))
	_ = f.SetCellValue(summarySheet, "A4", "Max expected delay (s)")
	_ = f.SetCellValue(summarySheet, "B4", maxDelay)
	if len(records) > 0 {
		_ = f.SetCellValue(summarySheet, "A5", "Mean expected delay (s)")
		_ = f.SetCellValue(summarySheet, "B5", float64(sumDelay)/float64(len(records)))
		_ = f.SetCellValue(summarySheet, "A6", "First aimed arrival")
		_ = f.SetCellValue(summarySheet, "B6", records[0].AimedArrival.UTC().Format(time.RFC3339))
		_ = f.SetCellValue(summarySheet, "A7", "Last aimed arrival")
		_ = f.SetCellValue(summarySheet, "B7", records[len(records)-1].AimedArrival.UTC().Format(time.RFC3339))
	}

	for i, name := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellValue(recordsSheet, cell, name)
	}
	for row, rec := range records {
		values := []interface{}{
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.Realtime,
			rec.AimedArrival.UTC().Format(time.RFC3339),
			rec.AimedDeparture.UTC().Format(time.RFC3339),
			rec.ExpectedArrival.UTC().Format(time.RFC3339),
			rec.ExpectedDeparture.UTC().Format(time.RFC3339),
			rec.QuayID,
			rec.LineID,
			rec.LineName,
			rec.TransportMode,
			rec.ExpectedDelaySeconds,
			rec.TimestampDelaySeconds,
			rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			_ = f.SetCellValue(recordsSheet, cell, value)
		}
	}

	return f.Write(w)
}
