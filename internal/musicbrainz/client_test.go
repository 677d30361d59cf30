package musicbrainz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"platter/internal/services"
	"platter/internal/testsupport"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := testsupport.TempConfig(t)
	cfg.MusicBrainz.BaseURL = baseURL
	cfg.MusicBrainz.MaxRetries = 3
	return NewClient(cfg, nil)
}

func TestSearchByCatalogNumber(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"count":1,"offset":0,"releases":[{"id":"abc","title":"Nevermind","track-count":13}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	releases, err := client.SearchByCatalogNumber(context.Background(), "GEFD24425")
	if err != nil {
		t.Fatalf("SearchByCatalogNumber: %v", err)
	}
	if gotQuery != `catno:"GEFD24425"` {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if len(releases) != 1 || releases[0].ID != "abc" {
		t.Fatalf("unexpected releases %+v", releases)
	}
}

func TestSearchRejectsMalformedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":1,"offset":0,"releases":[{"title":"No ID"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.SearchReleases(context.Background(), "artist:nirvana")
	if !errors.Is(err, services.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestGetReleaseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetRelease(context.Background(), "missing-id")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReleaseRequiresMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"abc","title":"Nevermind"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetRelease(context.Background(), "abc")
	if !errors.Is(err, services.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord for missing media, got %v", err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"count":0,"offset":0,"releases":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	releases, err := client.SearchReleases(context.Background(), "catno:none")
	if err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if len(releases) != 0 {
		t.Fatalf("expected no releases, got %d", len(releases))
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRetriesAreBounded(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.SearchReleases(context.Background(), "catno:none")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected exactly max retries attempts, got %d", got)
	}
}

func TestNoteQuotaRecordsResetBelowFloor(t *testing.T) {
	client := newTestClient(t, "http://example.invalid")
	reset := time.Now().Add(30 * time.Second).Unix()

	header := http.Header{}
	header.Set("X-RateLimit-Remaining", "1")
	header.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
	client.noteQuota(header)
	if client.waitUntil.Unix() != reset {
		t.Fatalf("expected waitUntil %d, got %d", reset, client.waitUntil.Unix())
	}

	// Plenty of remaining quota leaves the pause untouched.
	header.Set("X-RateLimit-Remaining", "50")
	header.Set("X-RateLimit-Reset", strconv.FormatInt(reset+60, 10))
	client.noteQuota(header)
	if client.waitUntil.Unix() != reset {
		t.Fatalf("high remaining quota should not extend waitUntil")
	}
}

func TestWaitForQuotaHonorsContext(t *testing.T) {
	client := newTestClient(t, "http://example.invalid")
	client.waitUntil = time.Now().Add(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := client.waitForQuota(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestCreditedName(t *testing.T) {
	credits := []ArtistCredit{
		{Name: "Queen", JoinPhrase: " & "},
		{Name: "David Bowie"},
	}
	if got := CreditedName(credits); got != "Queen & David Bowie" {
		t.Fatalf("unexpected credited name %q", got)
	}
}
