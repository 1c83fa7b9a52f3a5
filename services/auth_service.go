package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jkong61/health-backend-app/models"
	"github.com/jkong61/health-backend-app/utils"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrPasswordLength     = errors.New("password must be between 8 and 128 characters")
)

type AuthService struct {
	db              *gorm.DB
	jwtSecret       string
	tokenExpireDays int
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenExpireDays int) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret, tokenExpireDays: tokenExpireDays}
}

func (s *AuthService) Register(email, password string, accountType int) (*models.User, error) {
	if !utils.ValidPasswordLength(password) {
		return nil, ErrPasswordLength
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Password:    hashed,
		AccountType: accountType,
	}
	err = s.db.Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks the credentials and returns a signed access token.
func (s *AuthService) Authenticate(email, password string) (string, error) {
	var user models.User
	err := s.db.
		Where("email = ? AND disabled = ?", strings.ToLower(strings.TrimSpace(email)), false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateJWT(user.ID, s.tokenExpireDays, s.jwtSecret)
}

// ChangePassword verifies the current password before storing the new one
// and stamping PasswordUpdatedAt.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("find user %d: %w", userID, err)
	}
	if !utils.CheckPasswordHash(currentPassword, user.Password) {
		return ErrInvalidCredentials
	}
	if !utils.ValidPasswordLength(newPassword) {
		return ErrPasswordLength
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	return s.db.Model(&user).Updates(map[string]any{
		"password":            hashed,
		"password_updated_at": &now,
	}).Error
}
