package postal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleResponse = `{
	"post code": "64000",
	"country": "Mexico",
	"places": [
		{"place name": "Monterrey Centro", "state": "Nuevo León"},
		{"place name": "Obispado", "state": "Nuevo León"}
	]
}`

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mx/64000" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)
	result, err := client.Lookup(context.Background(), "64000")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if result.PostalCode != "64000" || result.Country != "Mexico" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Places) != 2 || result.Places[0].Name != "Monterrey Centro" {
		t.Fatalf("unexpected places %+v", result.Places)
	}
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)
	if _, err := client.Lookup(context.Background(), "00000"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)
	if _, err := client.Lookup(context.Background(), "64000"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestLookupTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, nil, nil)
	if _, err := client.Lookup(context.Background(), "64000"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
