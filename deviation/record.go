package deviation

import (
	"time"

	"github.com/theoremus-urban-solutions/entur-deviations/entur"
)

// ValidationError reports an estimated call missing a required field.
// The affected call is skipped; the batch continues.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "deviation: missing required field: " + e.Field
}

// Key is the business key of a stored deviation. At most one row exists
// per key; repeated observations of the same scheduled departure update
// the existing row.
type Key struct {
	AimedArrival time.Time
	LineID       string
}

// Record is one flattened observation of a scheduled departure.
type Record struct {
	Timestamp             time.Time
	Realtime              bool
	AimedArrival          time.Time
	AimedDeparture        time.Time
	ExpectedArrival       time.Time
	ExpectedDeparture     time.Time
	QuayID                string
	LineID                string
	LineName              string
	TransportMode         string
	ExpectedDelaySeconds  int64
	TimestampDelaySeconds int64

	// CreatedAt is set once at first insertion and never updated.
	CreatedAt time.Time
}

// Key returns the record's business key.
func (r Record) Key() Key {
	return Key{AimedArrival: r.AimedArrival, LineID: r.LineID}
}

// FromEstimatedCall derives a Record from an estimated call observed at
// observedAt. Delay fields are exact integer seconds:
// expected delay = expected arrival - aimed arrival,
// timestamp delay = observation time - aimed arrival.
// A call missing any required field returns a *ValidationError.
func FromEstimatedCall(call entur.EstimatedCall, observedAt time.Time) (Record, error) {
	line := call.ServiceJourney.JourneyPattern.Line
	switch {
	case call.Quay.ID == "":
		return Record{}, &ValidationError{Field: "quay.id"}
	case line.ID == "":
		return Record{}, &ValidationError{Field: "line.id"}
	case line.Name == "":
		return Record{}, &ValidationError{Field: "line.name"}
	case line.TransportMode == "":
		return Record{}, &ValidationError{Field: "line.transportMode"}
	case call.AimedArrivalTime.IsZero():
		return Record{}, &ValidationError{Field: "aimedArrivalTime"}
	case call.AimedDepartureTime.IsZero():
		return Record{}, &ValidationError{Field: "aimedDepartureTime"}
	case call.ExpectedArrivalTime.IsZero():
		return Record{}, &ValidationError{Field: "expectedArrivalTime"}
	case call.ExpectedDepartureTime.IsZero():
		return Record{}, &ValidationError{Field: "expectedDepartureTime"}
	}

	return Record{
		Timestamp:             observedAt,
		Realtime:              call.Realtime,
		AimedArrival:          call.AimedArrivalTime,
		AimedDeparture:        call.AimedDepartureTime,
		ExpectedArrival:       call.ExpectedArrivalTime,
		ExpectedDeparture:     call.ExpectedDepartureTime,
		QuayID:                call.Quay.ID,
		LineID:                line.ID,
		LineName:              line.Name,
		TransportMode:         line.TransportMode,
		ExpectedDelaySeconds:  int64(call.ExpectedArrivalTime.Sub(call.AimedArrivalTime) / time.Second),
		TimestampDelaySeconds: int64(observedAt.Sub(call.AimedArrivalTime) / time.Second),
	}, nil
}
