package entur

// departuresQuery is the fixed GraphQL document executed against the
// journey-planner API. It is parameterized by stop place id, time range
// horizon in seconds and maximum departure count.
const departuresQuery = `
query StopPlaceDepartures($id: String!, $timeRange: Int!, $numberOfDepartures: Int!) {
  stopPlace(id: $id) {
    id
    name
    estimatedCalls(timeRange: $timeRange, numberOfDepartures: $numberOfDepartures) {
      realtime
      aimedArrivalTime
      aimedDepartureTime
      expectedArrivalTime
      expectedDepartureTime
      actualArrivalTime
      actualDepartureTime
      date
      forBoarding
      forAlighting
      destinationDisplay {
        frontText
      }
      quay {
        id
      }
      serviceJourney {
        journeyPattern {
          line {
            id
            name
            transportMode
          }
        }
      }
    }
  }
}`

type queryVariables struct {
	ID                 string `json:"id"`
	TimeRange          int    `json:"timeRange"`
	NumberOfDepartures int    `json:"numberOfDepartures"`
}

type queryPayload struct {
	Query     string         `json:"query"`
	Variables queryVariables `json:"variables"`
}
