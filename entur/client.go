package entur

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/entur-deviations/config"
)

// TransportError reports that the upstream provider was unreachable or
// returned a malformed response. A batch that hits one is aborted.
// Permanent marks failures a retry cannot improve, such as a GraphQL
// validation error or an unknown stop place id.
type TransportError struct {
	Msg       string
	Err       error
	Permanent bool
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entur: %s: %v", e.Msg, e.Err)
	}
	return "entur: " + e.Msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client is an HTTP client for the journey-planner GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	cfg        config.EnturConfig
}

// NewClient creates a client from the entur section of the configuration.
func NewClient(cfg config.EnturConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
	}
}

// Departures executes the fixed departures query for the configured stop
// place and returns its ordered estimated calls together with the raw
// response body. Transient failures are retried up to MaxRetries times
// with a short linear backoff before a *TransportError is returned;
// permanent failures return immediately.
func (c *Client) Departures(ctx context.Context) ([]EstimatedCall, []byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, nil, &TransportError{Msg: "request cancelled", Err: ctx.Err()}
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		calls, raw, err := c.departuresOnce(ctx)
		if err == nil {
			return calls, raw, nil
		}
		var terr *TransportError
		if errors.As(err, &terr) && terr.Permanent {
			return nil, nil, err
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

func (c *Client) departuresOnce(ctx context.Context) ([]EstimatedCall, []byte, error) {
	payload := queryPayload{
		Query: departuresQuery,
		Variables: queryVariables{
			ID:                 c.cfg.StopPlaceID,
			TimeRange:          c.cfg.TimeRangeSeconds,
			NumberOfDepartures: c.cfg.NumberOfDepartures,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, &TransportError{Msg: "marshal query", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, nil, &TransportError{Msg: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ET-Client-Name", c.cfg.ClientName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Msg: "fetch " + c.cfg.APIURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &TransportError{
			Msg:       fmt.Sprintf("HTTP %d from %s", resp.StatusCode, c.cfg.APIURL),
			Permanent: resp.StatusCode >= 400 && resp.StatusCode < 500,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{Msg: "read response", Err: err}
	}

	var parsed graphQLResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, nil, &TransportError{Msg: "malformed response", Err: err}
	}
	if len(parsed.Errors) > 0 {
		return nil, nil, &TransportError{Msg: "graphql error: " + parsed.Errors[0].Message, Permanent: true}
	}
	if parsed.Data.StopPlace == nil {
		return nil, nil, &TransportError{Msg: "no stopPlace in response for " + c.cfg.StopPlaceID, Permanent: true}
	}

	return parsed.Data.StopPlace.EstimatedCalls, raw, nil
}
