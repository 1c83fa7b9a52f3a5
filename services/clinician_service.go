package services

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/jkong61/health-backend-app/models"
)

var (
	ErrNotAClinician      = errors.New("target account is not a clinician")
	ErrAssignmentExists   = errors.New("clinician assignment already exists")
	ErrAssignmentNotFound = errors.New("clinician assignment not found")
)

// ClinicianService manages the clinician-patient assignment workflow and the
// assignment gate for clinician read access.
type ClinicianService struct {
	db       *gorm.DB
	users    *UserService
	pusher   PushSender
	realtime *RealtimeHub
	log      *slog.Logger
}

func NewClinicianService(db *gorm.DB, users *UserService, pusher PushSender, realtime *RealtimeHub, logger *slog.Logger) *ClinicianService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClinicianService{db: db, users: users, pusher: pusher, realtime: realtime, log: logger}
}

func (s *ClinicianService) ListClinicians() ([]models.User, error) {
	var clinicians []models.User
	err := s.db.
		Where("account_type = ? AND disabled = ?", models.AccountTypeClinician, false).
		Find(&clinicians).Error
	if err != nil {
		return nil, fmt.Errorf("list clinicians: %w", err)
	}
	return clinicians, nil
}

// CreateAssignment lets a user request follow-up from a clinician. Rejects
// duplicates and non-clinician targets.
func (s *ClinicianService) CreateAssignment(clinicianID, userID uint) (*models.ClinicianAssignment, error) {
	var clinician models.User
	err := s.db.First(&clinician, clinicianID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !clinician.IsClinician()) {
		return nil, ErrNotAClinician
	}
	if err != nil {
		return nil, fmt.Errorf("find clinician %d: %w", clinicianID, err)
	}

	var count int64
	err = s.db.Model(&models.ClinicianAssignment{}).
		Where("clinician_id = ? AND user_id = ?", clinicianID, userID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check existing assignment: %w", err)
	}
	if count > 0 {
		return nil, ErrAssignmentExists
	}

	assignment := models.ClinicianAssignment{ClinicianID: clinicianID, UserID: userID}
	if err := s.db.Create(&assignment).Error; err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return &assignment, nil
}

func (s *ClinicianService) GetAssignment(assignmentID uint) (*models.ClinicianAssignment, error) {
	var assignment models.ClinicianAssignment
	err := s.db.First(&assignment, assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment %d: %w", assignmentID, err)
	}
	return &assignment, nil
}

func (s *ClinicianService) UserAssignments(userID uint) ([]models.ClinicianAssignment, error) {
	var assignments []models.ClinicianAssignment
	err := s.db.Where("user_id = ?", userID).Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("list user assignments: %w", err)
	}
	return assignments, nil
}

func (s *ClinicianService) ClinicianAssignments(clinicianID uint) ([]models.ClinicianAssignment, error) {
	var assignments []models.ClinicianAssignment
	err := s.db.Where("clinician_id = ?", clinicianID).Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("list clinician assignments: %w", err)
	}
	return assignments, nil
}

// RespondToAssignment records the clinician's accept/decline and notifies the
// patient in the background.
func (s *ClinicianService) RespondToAssignment(assignmentID uint, accepted bool) (*models.ClinicianAssignment, error) {
	assignment, err := s.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	assignment.AssignmentAccepted = &accepted
	if err := s.db.Save(assignment).Error; err != nil {
		return nil, fmt.Errorf("update assignment %d: %w", assignmentID, err)
	}

	go s.notifyAssignmentResponse(assignment, accepted)
	return assignment, nil
}

// notifyAssignmentResponse tells the patient on every channel they have:
// open realtime sessions first, then a push notification.
func (s *ClinicianService) notifyAssignmentResponse(assignment *models.ClinicianAssignment, accepted bool) {
	userID := assignment.UserID
	if s.realtime != nil {
		s.realtime.Publish(userID, AssignmentEvent{
			AssignmentID: assignment.ID,
			ClinicianID:  assignment.ClinicianID,
			Accepted:     accepted,
		})
	}

	user, err := s.users.GetUser(userID)
	if err != nil || user == nil || user.PushToken == nil {
		return
	}
	message := "Your clinician declined the assignment."
	if accepted {
		message = "Your clinician accepted the assignment."
	}
	if err := s.pusher.SendPush(*user.PushToken, "Clinician Assignment", message); err != nil {
		s.log.Error("push delivery failed", "user", userID, "error", err)
		if err := s.users.DisablePushToken(*user.PushToken); err != nil {
			s.log.Error("disable push token failed", "user", userID, "error", err)
		}
	}
}

// CheckAssignment reports whether the clinician has an accepted assignment
// for the user; the gate for every clinician read of patient data.
func (s *ClinicianService) CheckAssignment(clinicianID, userID uint) (bool, error) {
	var assignment models.ClinicianAssignment
	err := s.db.
		Where("clinician_id = ? AND user_id = ?", clinicianID, userID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return assignment.AssignmentAccepted != nil && *assignment.AssignmentAccepted, nil
}
