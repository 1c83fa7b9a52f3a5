package models

import "gorm.io/gorm"

// ClinicianAssignment links a clinician account to the patient they follow.
// AssignmentAccepted stays nil while the patient has not responded.
type ClinicianAssignment struct {
	gorm.Model
	ClinicianID uint `gorm:"index;not null"`
	UserID      uint `gorm:"index;not null"`

	AssignmentAccepted *bool

	Clinician User `gorm:"foreignKey:ClinicianID" json:"-"`
	User      User `gorm:"foreignKey:UserID" json:"-"`
}
