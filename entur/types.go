package entur

import "time"

// Line identifies a transit line reached through the service journey
// association of an estimated call.
type Line struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TransportMode string `json:"transportMode"`
}

// JourneyPattern links an estimated call to its line.
type JourneyPattern struct {
	Line Line `json:"line"`
}

// ServiceJourney is the scheduled journey an estimated call belongs to.
type ServiceJourney struct {
	JourneyPattern JourneyPattern `json:"journeyPattern"`
}

// Quay is a physical boarding point at a stop place.
type Quay struct {
	ID string `json:"id"`
}

// DestinationDisplay carries the front text shown on the vehicle.
type DestinationDisplay struct {
	FrontText string `json:"frontText"`
}

// EstimatedCall is a single scheduled vehicle visit to a stop, with aimed
// and expected times. Actual times are only present once the vehicle has
// arrived or departed.
type EstimatedCall struct {
	Realtime              bool               `json:"realtime"`
	AimedArrivalTime      time.Time          `json:"aimedArrivalTime"`
	AimedDepartureTime    time.Time          `json:"aimedDepartureTime"`
	ExpectedArrivalTime   time.Time          `json:"expectedArrivalTime"`
	ExpectedDepartureTime time.Time          `json:"expectedDepartureTime"`
	ActualArrivalTime     *time.Time         `json:"actualArrivalTime"`
	ActualDepartureTime   *time.Time         `json:"actualDepartureTime"`
	Date                  string             `json:"date"`
	ForBoarding           bool               `json:"forBoarding"`
	ForAlighting          bool               `json:"forAlighting"`
	DestinationDisplay    DestinationDisplay `json:"destinationDisplay"`
	Quay                  Quay               `json:"quay"`
	ServiceJourney        ServiceJourney     `json:"serviceJourney"`
}

// StopPlace is the queried stop with its ordered estimated calls.
type StopPlace struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	EstimatedCalls []EstimatedCall `json:"estimatedCalls"`
}

type graphQLData struct {
	StopPlace *StopPlace `json:"stopPlace"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   graphQLData    `json:"data"`
	Errors []graphQLError `json:"errors"`
}
