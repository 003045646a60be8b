package appointments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestHandler(store *stubStore) *Handler {
	svc := NewService(store, nil, nil, nil, nil)
	return NewHandler(svc, nil)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return out
}

func TestConfirmPendingAppointment(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusConfirmed)}
	h := newTestHandler(store).Routes()

	rec := postJSON(t, h, "/confirm", map[string]string{
		"appointment_id": "apt-1",
		"meeting_link":   "https://x",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "Cita confirmada exitosamente" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if store.lastCall != "confirm" {
		t.Fatalf("expected confirm call, got %s", store.lastCall)
	}
}

func TestConfirmMissingFields(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusConfirmed)}
	h := newTestHandler(store).Routes()

	rec := postJSON(t, h, "/confirm", map[string]string{"appointment_id": "apt-1"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "appointment_id y meeting_link son requeridos" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
	if store.lastCall != "" {
		t.Fatalf("store must not be touched, called %s", store.lastCall)
	}
}

func TestRejectEmptyReasonLeavesStateUnchanged(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusPending)}
	h := newTestHandler(store).Routes()

	rec := postJSON(t, h, "/reject", map[string]string{
		"appointment_id":   "apt-2",
		"rejection_reason": "",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "appointment_id y rejection_reason son requeridos" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
	if store.lastCall != "" {
		t.Fatalf("store must not be touched, called %s", store.lastCall)
	}
}

func TestConfirmNonPendingIsConflict(t *testing.T) {
	store := &stubStore{err: ErrInvalidTransition}
	h := newTestHandler(store).Routes()

	rec := postJSON(t, h, "/confirm", map[string]string{
		"appointment_id": "apt-1",
		"meeting_link":   "https://x",
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestConfirmMissingAppointmentIs404(t *testing.T) {
	store := &stubStore{err: ErrNotFound}
	h := newTestHandler(store).Routes()

	rec := postJSON(t, h, "/confirm", map[string]string{
		"appointment_id": "apt-x",
		"meeting_link":   "https://x",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Cita no encontrada" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestNoShowBeforeEndTimeIs400(t *testing.T) {
	store := &stubStore{err: ErrNotElapsed}
	h := newTestHandler(store).Routes()

	rec := postJSON(t, h, "/no-show", map[string]string{"appointment_id": "apt-1"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListRequiresDoctorID(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusPending)}
	h := newTestHandler(store).Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListReturnsDoctorAppointments(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusPending)}
	h := newTestHandler(store).Routes()

	req := httptest.NewRequest(http.MethodGet, "/?doctor_id=doc-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	appts, ok := body["appointments"].([]any)
	if !ok || len(appts) != 1 {
		t.Fatalf("expected one appointment, got %v", body["appointments"])
	}
}

func TestCompleteStoresNotes(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusCompleted)}
	h := newTestHandler(store).Routes()

	rec := postJSON(t, h, "/complete", map[string]string{
		"appointment_id": "apt-1",
		"doctor_notes":   "control en dos semanas",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Cita completada exitosamente" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}
