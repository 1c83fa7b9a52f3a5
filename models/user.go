package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AccountTypeUser      = 0
	AccountTypeClinician = 1
)

type User struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex;not null"`
	Password           string `gorm:"not null" json:"-"`
	PasswordUpdatedAt  *time.Time
	Name               string
	ContactInformation string
	AccountType        int  `gorm:"default:0"`
	Disabled           bool `gorm:"default:false"`
	PushToken          *string `json:"-"`

	Meals         []Meal         `json:"-"`
	HealthRecords []HealthRecord `json:"-"`
	Profile       *Profile       `json:"-"`
}

func (u *User) IsClinician() bool {
	return u.AccountType == AccountTypeClinician
}
