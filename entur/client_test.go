package entur

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/entur-deviations/config"
)

const departuresFixture = `{
  "data": {
    "stopPlace": {
      "id": "NSR:StopPlace:58366",
      "name": "Jernbanetorget",
      "estimatedCalls": [
        {
          "realtime": true,
          "aimedArrivalTime": "2024-01-01T10:00:00+01:00",
          "aimedDepartureTime": "2024-01-01T10:00:30+01:00",
          "expectedArrivalTime": "2024-01-01T10:03:00+01:00",
          "expectedDepartureTime": "2024-01-01T10:03:30+01:00",
          "actualArrivalTime": null,
          "actualDepartureTime": null,
          "date": "2024-01-01",
          "forBoarding": true,
          "forAlighting": true,
          "destinationDisplay": {"frontText": "Majorstuen"},
          "quay": {"id": "NSR:Quay:7160"},
          "serviceJourney": {
            "journeyPattern": {
              "line": {"id": "RUT:Line:5260", "name": "26", "transportMode": "bus"}
            }
          }
        },
        {
          "realtime": false,
          "aimedArrivalTime": "2024-01-01T10:10:00+01:00",
          "aimedDepartureTime": "2024-01-01T10:10:30+01:00",
          "expectedArrivalTime": "2024-01-01T10:10:00+01:00",
          "expectedDepartureTime": "2024-01-01T10:10:30+01:00",
          "date": "2024-01-01",
          "forBoarding": true,
          "forAlighting": true,
          "destinationDisplay": {"frontText": "Tonsenhagen"},
          "quay": {"id": "NSR:Quay:7161"},
          "serviceJourney": {
            "journeyPattern": {
              "line": {"id": "RUT:Line:31", "name": "31", "transportMode": "bus"}
            }
          }
        }
      ]
    }
  }
}`

func testConfig(url string) config.EnturConfig {
	return config.EnturConfig{
		APIURL:             url,
		ClientName:         "entur-deviations-test",
		StopPlaceID:        "NSR:StopPlace:58366",
		TimeRangeSeconds:   3600,
		NumberOfDepartures: 20,
		TimeoutMS:          2000,
	}
}

// TestClient_Departures verifies the happy path: payload shape, headers
// and parsed calls
func TestClient_Departures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("ET-Client-Name"); got != "entur-deviations-test" {
			t.Errorf("ET-Client-Name = %q", got)
		}
		var payload struct {
			Query     string `json:"query"`
			Variables struct {
				ID                 string `json:"id"`
				TimeRange          int    `json:"timeRange"`
				NumberOfDepartures int    `json:"numberOfDepartures"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Query == "" {
			t.Error("query document missing from payload")
		}
		if payload.Variables.ID != "NSR:StopPlace:58366" ||
			payload.Variables.TimeRange != 3600 ||
			payload.Variables.NumberOfDepartures != 20 {
			t.Errorf("variables = %+v", payload.Variables)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(departuresFixture))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	calls, raw, err := client.Departures(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if len(raw) == 0 {
		t.Error("raw body should be returned for archiving")
	}

	first := calls[0]
	if !first.Realtime {
		t.Error("first call should be realtime")
	}
	wantAimed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.FixedZone("", 3600))
	if !first.AimedArrivalTime.Equal(wantAimed) {
		t.Errorf("aimedArrivalTime = %v, want %v", first.AimedArrivalTime, wantAimed)
	}
	if first.ServiceJourney.JourneyPattern.Line.ID != "RUT:Line:5260" {
		t.Errorf("line id = %q", first.ServiceJourney.JourneyPattern.Line.ID)
	}
	if first.ActualArrivalTime != nil {
		t.Error("actualArrivalTime should be nil before arrival")
	}
	if calls[1].Realtime {
		t.Error("second call should not be realtime")
	}
}

// TestClient_HTTPError verifies non-200 responses surface as TransportError
func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Departures(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("want TransportError, got %v", err)
	}
}

// TestClient_GraphQLError verifies a GraphQL errors array surfaces as
// TransportError
func TestClient_GraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Validation error of type FieldUndefined"}]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Departures(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("want TransportError, got %v", err)
	}
}

// TestClient_MalformedResponse verifies undecodable bodies surface as
// TransportError
func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Departures(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("want TransportError, got %v", err)
	}
}

// TestClient_MissingStopPlace verifies a null stopPlace is treated as a
// malformed response
func TestClient_MissingStopPlace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"stopPlace":null}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Departures(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("want TransportError, got %v", err)
	}
}

// TestClient_RetrySucceeds verifies the bounded retry recovers from a
// transient failure
func TestClient_RetrySucceeds(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(departuresFixture))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 2
	client := NewClient(cfg)

	calls, _, err := client.Departures(context.Background())
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if len(calls) != 2 {
		t.Errorf("calls = %d, want 2", len(calls))
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

// TestClient_NoRetryOnGraphQLError verifies a GraphQL validation error is
// not retried even with retries configured
func TestClient_NoRetryOnGraphQLError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Validation error of type FieldUndefined"}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	client := NewClient(cfg)

	_, _, err := client.Departures(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("want TransportError, got %v", err)
	}
	if !terr.Permanent {
		t.Error("graphql errors should be permanent")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on permanent failure)", got)
	}
}

// TestClient_NoRetryOnUnknownStop verifies a null stopPlace is not retried
func TestClient_NoRetryOnUnknownStop(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = w.Write([]byte(`{"data":{"stopPlace":null}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	client := NewClient(cfg)

	_, _, err := client.Departures(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("want TransportError, got %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on unknown stop)", got)
	}
}

// TestClient_RetriesExhausted verifies the final attempt's error is
// returned once retries run out
func TestClient_RetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1
	client := NewClient(cfg)

	_, _, err := client.Departures(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("want TransportError, got %v", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2 (initial + one retry)", got)
	}
}
