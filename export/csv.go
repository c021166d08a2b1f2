package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/theoremus-urban-solutions/entur-deviations/deviation"
)

var csvHeader = []string{
	"timestamp", "realtime",
	"aimed_arrival", "aimed_departure", "expected_arrival", "expected_departure",
	"quay_id", "line_id", "line_name", "transport_mode",
	"expected_delay_seconds", "timestamp_delay_seconds", "created_at",
}

// WriteCSV writes records with a header row in the deviations column order.
func WriteCSV(w io.Writer, records []deviation.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatBool(rec.Realtime),
			rec.AimedArrival.UTC().Format(time.RFC3339),
			rec.AimedDeparture.UTC().Format(time.RFC3339),
			rec.ExpectedArrival.UTC().Format(time.RFC3339),
			rec.ExpectedDeparture.UTC().Format(time.RFC3339),
			rec.QuayID,
			rec.LineID,
			rec.LineName,
			rec.TransportMode,
			strconv.FormatInt(rec.ExpectedDelaySeconds, 10),
			strconv.FormatInt(rec.TimestampDelaySeconds, 10),
			rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
