package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock_go/internal/domain"
)

func TestForwarder_MissingFields(t *testing.T) {
	f := New("https://example.com/hook", "@here")

	err := f.Forward(context.Background(), domain.Report{ClientName: "alice"})
	if !errors.Is(err, domain.ErrMissingReportFields) {
		t.Errorf("Expected ErrMissingReportFields, got %v", err)
	}
}

func TestForwarder_NotConfigured(t *testing.T) {
	f := New("", "@here")

	err := f.Forward(context.Background(), domain.Report{ClientName: "a", ReportedPlayerName: "b"})
	if !errors.Is(err, domain.ErrWebhookNotConfigured) {
		t.Errorf("Expected ErrWebhookNotConfigured, got %v", err)
	}
}

func TestForwarder_DeliversMessage(t *testing.T) {
	var received domain.WebhookMessage
	var contentType string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	f := New(ts.URL, "@here")
	err := f.Forward(context.Background(), domain.Report{
		ClientName:         "alice",
		ReportedPlayerName: "bob",
		AM:                 true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if contentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", contentType)
	}
	if received.Content != "@here" {
		t.Errorf("Expected mention content, got %q", received.Content)
	}
	if len(received.Embeds) != 1 || received.Embeds[0].Title != "Report: bob" {
		t.Errorf("Unexpected embed: %+v", received.Embeds)
	}
	if len(received.Embeds[0].Fields) != 4 {
		t.Errorf("am=true must produce 4 fields, got %d", len(received.Embeds[0].Fields))
	}
}

func TestForwarder_UpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	f := New(ts.URL, "")
	err := f.Forward(context.Background(), domain.Report{ClientName: "a", ReportedPlayerName: "b"})

	var whErr *domain.WebhookError
	if !errors.As(err, &whErr) {
		t.Fatalf("Expected WebhookError, got %v", err)
	}
	if whErr.Status != http.StatusBadGateway {
		t.Errorf("Expected upstream status 502, got %d", whErr.Status)
	}
}
