package video

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientCreateRoom(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/rooms" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"room-1","url":"https://provider.example/room-1"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "key-1"}, nil)
	url, err := client.CreateRoom(context.Background(), "room-1", "doc-1")
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if url != "https://provider.example/room-1" {
		t.Fatalf("unexpected join url %q", url)
	}
	if gotAuth != "Bearer key-1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
}

func TestClientCreateRoomUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "key-1"}, nil)
	_, err := client.CreateRoom(context.Background(), "room-1", "doc-1")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestNewClientWithoutBaseURL(t *testing.T) {
	if client := NewClient(Config{}, nil); client != nil {
		t.Fatal("expected nil client when base URL is missing")
	}
}
