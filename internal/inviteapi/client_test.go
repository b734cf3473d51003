package inviteapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"calvite/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPayload() models.InvitePayload {
	return models.InvitePayload{
		Email:       "sam@example.org",
		Title:       "[GPEDC] Garden Workshop",
		Date:        "2025-03-05T14:30:00-05:00",
		Location:    "Ag Lab",
		Description: "Curated by GPEDC\n\nSoil health basics.",
		URL:         "https://example.org/e/1",
	}
}

func TestSendPostsExpectedBody(t *testing.T) {
	var got wireRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/invite" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testLogger(), srv.URL)
	if err := c.Send(context.Background(), testPayload()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if got.Email != "sam@example.org" {
		t.Errorf("email = %q", got.Email)
	}
	if got.Event.Title != "[GPEDC] Garden Workshop" || got.Event.Date != "2025-03-05T14:30:00-05:00" {
		t.Errorf("unexpected event body: %+v", got.Event)
	}
	if got.Event.URL != "https://example.org/e/1" {
		t.Errorf("url = %q", got.Event.URL)
	}
}

func TestSendNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testLogger(), srv.URL)
	if err := c.Send(context.Background(), testPayload()); err == nil {
		t.Error("expected an error for a non-2xx response")
	}
}

func TestSendUnreachableServiceIsFailure(t *testing.T) {
	c := NewClient(testLogger(), "http://127.0.0.1:1")
	if err := c.Send(context.Background(), testPayload()); err == nil {
		t.Error("expected an error when the service is unreachable")
	}
}
