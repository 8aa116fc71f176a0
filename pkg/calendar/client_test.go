package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
)

func testConfig(baseURL string) config.CalendarConfig {
	return config.CalendarConfig{
		BaseURL:    baseURL,
		CalendarID: "guide@example.com",
		APIToken:   "token-123",
		Timeout:    2 * time.Second,
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.CalendarConfig{CalendarID: "guide@example.com"})
	assert.Error(t, err)

	_, err = NewClient(config.CalendarConfig{APIToken: "token"})
	assert.Error(t, err)
}

func TestFreeBusyParsesBusyIntervals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/freeBusy", r.URL.Path)
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		var body struct {
			TimeMin string `json:"timeMin"`
			TimeMax string `json:"timeMax"`
			Items   []struct {
				ID string `json:"id"`
			} `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Items, 1)
		require.Equal(t, "guide@example.com", body.Items[0].ID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"calendars": {
				"guide@example.com": {
					"busy": [
						{"start": "2026-05-01T10:00:00Z", "end": "2026-05-01T12:00:00Z"}
					]
				}
			}
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	busy, err := client.FreeBusy(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.True(t, busy[0].Overlaps(
		time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC),
	))
	assert.False(t, busy[0].Overlaps(
		time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC),
	))
}

func TestFreeBusyDependencyFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream broken", http.StatusBadGateway)
		}))
		defer srv.Close()

		client, err := NewClient(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = client.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
	})

	t.Run("calendar entry errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"calendars": {
					"guide@example.com": {
						"busy": [],
						"errors": [{"reason": "notFound"}]
					}
				}
			}`))
		}))
		defer srv.Close()

		client, err := NewClient(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = client.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
	})

	t.Run("missing calendar entry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"calendars": {}}`))
		}))
		defer srv.Close()

		client, err := NewClient(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = client.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
		assert.Error(t, err)
	})
}

func TestFreeBusyRejectsInvertedWindow(t *testing.T) {
	client, err := NewClient(testConfig("http://localhost:1"))
	require.NoError(t, err)

	now := time.Now()
	_, err = client.FreeBusy(context.Background(), now, now)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
