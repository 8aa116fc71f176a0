package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
)

const (
	defaultBaseURL              = "https://www.googleapis.com/calendar/v3"
	responseBodyReadLimit int64 = 1024
)

var (
	errTokenRequired      = errors.New("calendar api token is required")
	errCalendarIDRequired = errors.New("calendar id is required")
)

// BusyInterval is one occupied window on the guide calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the interval intersects [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// Client queries the guide calendar free/busy API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	calendarID string
	apiToken   string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured calendar base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the calendar client from configuration.
func NewClient(cfg config.CalendarConfig, opts ...Option) (*Client, error) {
	token := strings.TrimSpace(cfg.APIToken)
	if token == "" {
		return nil, errTokenRequired
	}
	calendarID := strings.TrimSpace(cfg.CalendarID)
	if calendarID == "" {
		return nil, errCalendarIDRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		apiToken:   token,
		calendarID: calendarID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

type freeBusyRequest struct {
	TimeMin string             `json:"timeMin"`
	TimeMax string             `json:"timeMax"`
	Items   []freeBusyCalendar `json:"items"`
}

type freeBusyCalendar struct {
	ID string `json:"id"`
}

// FreeBusy fetches the busy intervals on the guide calendar within the window.
func (c *Client) FreeBusy(ctx context.Context, windowStart, windowEnd time.Time) ([]BusyInterval, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "calendar client not configured")
	}
	if !windowEnd.After(windowStart) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "availability window end must be after start")
	}

	payload, err := json.Marshal(freeBusyRequest{
		TimeMin: windowStart.UTC().Format(time.RFC3339),
		TimeMax: windowEnd.UTC().Format(time.RFC3339),
		Items:   []freeBusyCalendar{{ID: c.calendarID}},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal freebusy request")
	}

	url := c.buildURL("freeBusy")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build freebusy request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute freebusy request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "freebusy request failed")
	}

	var apiResp struct {
		Calendars map[string]struct {
			Busy []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"busy"`
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode freebusy response")
	}

	entry, ok := apiResp.Calendars[c.calendarID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "freebusy response missing calendar entry")
	}
	if len(entry.Errors) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("freebusy lookup failed: %s", entry.Errors[0].Reason))
	}

	intervals := make([]BusyInterval, 0, len(entry.Busy))
	for _, b := range entry.Busy {
		intervals = append(intervals, BusyInterval{Start: b.Start, End: b.End})
	}
	return intervals, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
