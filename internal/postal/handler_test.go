package postal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func lookupVia(t *testing.T, upstream http.HandlerFunc, timeout time.Duration, code string) *httptest.ResponseRecorder {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, Timeout: timeout}, nil, nil)
	h := NewHandler(client, nil).Routes()

	req := httptest.NewRequest(http.MethodGet, "/"+code, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLookupEndpoint(t *testing.T) {
	rec := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}, 0, "64000")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestLookupEndpointUpstreamErrorIs502(t *testing.T) {
	rec := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}, 0, "64000")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestLookupEndpointTimeoutIs504(t *testing.T) {
	rec := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}, 20*time.Millisecond, "64000")

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
}

func TestLookupEndpointUnknownCodeIs404(t *testing.T) {
	rec := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, 0, "00000")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
