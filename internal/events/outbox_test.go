package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestOutboxStoreFlow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newOutboxStoreWithExec(mock)

	mock.ExpectExec("INSERT INTO outbox").
		WithArgs(pgxmock.AnyArg(), "apt-1", TypeAppointmentConfirmed, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if _, err := store.Insert(context.Background(), "apt-1", TypeAppointmentConfirmed, AppointmentConfirmedV1{AppointmentID: "apt-1"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	now := time.Now().UTC()
	id := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "appointment_id", "type", "payload", "attempts", "created_at"}).
		AddRow(id, "apt-1", TypeAppointmentConfirmed, []byte(`{"appointment_id":"apt-1"}`), int32(0), now)
	mock.ExpectQuery("SELECT id").WithArgs(int32(10)).WillReturnRows(rows)

	entries, err := store.FetchPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("fetch pending failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("unexpected entries: %#v", entries)
	}

	mock.ExpectExec("UPDATE outbox").WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	ok, err := store.MarkDelivered(context.Background(), id)
	if err != nil {
		t.Fatalf("mark delivered failed: %v", err)
	}
	if !ok {
		t.Fatal("expected mark delivered to report success")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

type countingHandler struct {
	calls int
	fail  bool
}

func (h *countingHandler) Handle(ctx context.Context, entry OutboxEntry) error {
	h.calls++
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

func TestDelivererLeavesFailedEntriesPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newOutboxStoreWithExec(mock)
	handler := &countingHandler{fail: true}
	d := NewDeliverer(store, handler, nil).WithBatchSize(5)

	id := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "appointment_id", "type", "payload", "attempts", "created_at"}).
		AddRow(id, "apt-1", TypeAppointmentRejected, []byte(`{}`), int32(0), time.Now().UTC())
	mock.ExpectQuery("SELECT id").WithArgs(int32(5)).WillReturnRows(rows)
	mock.ExpectExec("UPDATE outbox").WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	d.drain(context.Background())

	if handler.calls != 1 {
		t.Fatalf("expected one delivery attempt, got %d", handler.calls)
	}
	// No MarkDelivered expectation: a failed send must leave the entry pending.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
