package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jkong61/health-backend-app/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &user, nil
}

func (s *UserService) UpdateInfo(userID uint, name, contactInformation string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	user.Name = name
	user.ContactInformation = contactInformation
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	return &user, nil
}

// UpdatePushToken stores the device token, clearing it when empty. Returns
// whether anything changed.
func (s *UserService) UpdatePushToken(userID uint, token string) (bool, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return false, fmt.Errorf("get user %d: %w", userID, err)
	}

	current := ""
	if user.PushToken != nil {
		current = *user.PushToken
	}
	if current == token {
		return false, nil
	}

	var value *string
	if token != "" {
		value = &token
	}
	if err := s.db.Model(&user).Update("push_token", value).Error; err != nil {
		return false, fmt.Errorf("update push token: %w", err)
	}
	return true, nil
}

// DisablePushToken clears the token wherever it is stored, used when a push
// provider reports the device as no longer registered.
func (s *UserService) DisablePushToken(token string) error {
	if token == "" {
		return nil
	}
	return s.db.Model(&models.User{}).
		Where("push_token = ?", token).
		Update("push_token", nil).Error
}
