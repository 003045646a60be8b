package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func TestPatientContact(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT email, full_name FROM patients`).
		WithArgs("pat-1").
		WillReturnRows(pgxmock.NewRows([]string{"email", "full_name"}).
			AddRow("ana@example.com", "Ana Pérez"))

	store := newContactStoreWithQuerier(mock)
	contact, err := store.PatientContact(context.Background(), "pat-1")
	if err != nil {
		t.Fatalf("PatientContact returned error: %v", err)
	}
	if contact.Email != "ana@example.com" || contact.FullName != "Ana Pérez" {
		t.Fatalf("unexpected contact %+v", contact)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPatientContactNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT email, full_name FROM patients`).
		WithArgs("pat-x").
		WillReturnRows(pgxmock.NewRows([]string{"email", "full_name"}))

	store := newContactStoreWithQuerier(mock)
	if _, err := store.PatientContact(context.Background(), "pat-x"); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}
