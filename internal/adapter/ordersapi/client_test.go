package ordersapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewClientValidatesURL(t *testing.T) {
	if _, err := NewClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestFetchStatus(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"order_id":"o1","status":"processing"}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	status, err := client.FetchStatus(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != model.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", status)
	}
	if gotPath != "/api/orders/o1/status" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
}

func TestFetchStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		header    http.Header
		check     func(error) bool
		transient bool
	}{
		{name: "not found", status: http.StatusNotFound, check: func(err error) bool { return errors.Is(err, domainErrors.ErrNotFound) }},
		{name: "unknown status", status: http.StatusOK, body: `{"status":"shipped"}`, check: func(err error) bool { return err != nil }},
		{name: "bad json", status: http.StatusOK, body: `{`, check: func(err error) bool { return err != nil }},
		{name: "too many requests", status: http.StatusTooManyRequests, header: http.Header{"Retry-After": []string{"5"}}, check: func(err error) bool {
			var tm TooManyRequestsError
			return errors.As(err, &tm) && tm.RetryAfter == 5*time.Second
		}},
		{name: "server error", status: http.StatusBadGateway, body: "boom", transient: true, check: func(err error) bool { return err != nil }},
		{name: "client error", status: http.StatusBadRequest, check: func(err error) bool { return err != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.FetchStatus(context.Background(), "o1")
			if !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if domainErrors.IsTransient(err) != tt.transient {
				t.Fatalf("expected transient=%v, got %v", tt.transient, err)
			}
		})
	}
}

func TestFetchStatusUnreachableIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.FetchStatus(context.Background(), "o1"); !domainErrors.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	httpTime := time.Now().Add(3 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= time.Second || got > 4*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
