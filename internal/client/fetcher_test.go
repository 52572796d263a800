package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcher_ParsesReading(t *testing.T) {
	ts := "2026-08-30T12:00:00Z"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"temperature": 23.5, "time": "` + ts + `"}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, 5*time.Second)
	reading, err := fetcher.FetchCurrent(context.Background())
	if err != nil {
		t.Fatalf("FetchCurrent failed: %v", err)
	}
	if reading == nil {
		t.Fatal("FetchCurrent returned nil reading")
	}
	if reading.Temperature != 23.5 {
		t.Errorf("temperature = %v, want 23.5", reading.Temperature)
	}
	want, _ := time.Parse(time.RFC3339, ts)
	if !reading.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", reading.Timestamp, want)
	}
}

// An empty object is the "nothing ingested yet" shape, not an error
func TestHTTPFetcher_EmptyObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, 5*time.Second)
	reading, err := fetcher.FetchCurrent(context.Background())
	if err != nil {
		t.Fatalf("FetchCurrent failed: %v", err)
	}
	if reading != nil {
		t.Errorf("reading = %v, want nil", reading)
	}
}

func TestHTTPFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, 5*time.Second)
	if _, err := fetcher.FetchCurrent(context.Background()); err == nil {
		t.Error("expected error for non-200 status, got nil")
	}
}

func TestHTTPFetcher_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, 5*time.Second)
	if _, err := fetcher.FetchCurrent(context.Background()); err == nil {
		t.Error("expected error for malformed body, got nil")
	}
}

func TestHTTPFetcher_Cancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	fetcher := NewHTTPFetcher(srv.URL, 30*time.Second)
	go func() {
		_, err := fetcher.FetchCurrent(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected error after cancellation, got nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("FetchCurrent did not return after cancellation")
	}
}
