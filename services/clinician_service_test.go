package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jkong61/health-backend-app/models"
)

func newClinicianFixture(t *testing.T) (*ClinicianService, *RealtimeHub, models.User, models.User) {
	t.Helper()
	db := newTestDB(t)

	clinician := models.User{Email: "doc@example.com", Password: "x", AccountType: models.AccountTypeClinician}
	patient := models.User{Email: "pat@example.com", Password: "x", AccountType: models.AccountTypeUser}
	if err := db.Create(&clinician).Error; err != nil {
		t.Fatalf("seed clinician: %v", err)
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewRealtimeHub()
	svc := NewClinicianService(db, NewUserService(db), LogPushSender{Log: logger}, hub, logger)
	return svc, hub, clinician, patient
}

func TestCreateAssignmentValidations(t *testing.T) {
	svc, _, clinician, patient := newClinicianFixture(t)

	if _, err := svc.CreateAssignment(patient.ID, clinician.ID); !errors.Is(err, ErrNotAClinician) {
		t.Fatalf("assignment to non-clinician error = %v, want ErrNotAClinician", err)
	}

	if _, err := svc.CreateAssignment(clinician.ID, patient.ID); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if _, err := svc.CreateAssignment(clinician.ID, patient.ID); !errors.Is(err, ErrAssignmentExists) {
		t.Fatalf("duplicate assignment error = %v, want ErrAssignmentExists", err)
	}
}

func TestAssignmentGate(t *testing.T) {
	svc, _, clinician, patient := newClinicianFixture(t)

	assignment, err := svc.CreateAssignment(clinician.ID, patient.ID)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	// Pending assignments do not grant access.
	ok, err := svc.CheckAssignment(clinician.ID, patient.ID)
	if err != nil {
		t.Fatalf("check pending assignment: %v", err)
	}
	if ok {
		t.Fatal("pending assignment granted access")
	}

	if _, err := svc.RespondToAssignment(assignment.ID, true); err != nil {
		t.Fatalf("accept assignment: %v", err)
	}
	ok, err = svc.CheckAssignment(clinician.ID, patient.ID)
	if err != nil {
		t.Fatalf("check accepted assignment: %v", err)
	}
	if !ok {
		t.Fatal("accepted assignment denied access")
	}

	if _, err := svc.RespondToAssignment(assignment.ID, false); err != nil {
		t.Fatalf("decline assignment: %v", err)
	}
	ok, _ = svc.CheckAssignment(clinician.ID, patient.ID)
	if ok {
		t.Fatal("declined assignment granted access")
	}
}

func TestRespondToMissingAssignment(t *testing.T) {
	svc, _, _, _ := newClinicianFixture(t)
	if _, err := svc.RespondToAssignment(999, true); !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("missing assignment error = %v, want ErrAssignmentNotFound", err)
	}
}

func TestRespondToAssignmentPublishesEvent(t *testing.T) {
	svc, hub, clinician, patient := newClinicianFixture(t)

	conn := &recordingConn{}
	hub.Subscribe(&RealtimeSession{UserID: patient.ID, Conn: conn})

	assignment, err := svc.CreateAssignment(clinician.ID, patient.ID)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if _, err := svc.RespondToAssignment(assignment.ID, true); err != nil {
		t.Fatalf("accept assignment: %v", err)
	}

	// Notification runs in the background.
	deadline := time.Now().Add(2 * time.Second)
	for len(conn.received(t)) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	events := conn.received(t)
	if len(events) != 1 {
		t.Fatalf("patient got %d events, want 1", len(events))
	}
	if events[0].AssignmentID != assignment.ID || events[0].ClinicianID != clinician.ID || !events[0].Accepted {
		t.Fatalf("event = %+v, want accepted assignment %d from clinician %d",
			events[0], assignment.ID, clinician.ID)
	}
}
