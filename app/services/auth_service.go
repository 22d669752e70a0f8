package services

import (
	"errors"
	"fmt"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/auth"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown email and wrong password so
// login responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when registering an existing email.
var ErrEmailTaken = errors.New("email is already registered")

// TokenPair is the login/register response payload.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a USER account and signs it in.
func (s *AuthService) Register(name, email, password string) (models.User, TokenPair, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: models.RoleUser}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: create user: %w", err)
	}

	pair, err := s.tokens(user)
	return user, pair, err
}

// Login checks the password and issues a token pair.
func (s *AuthService) Login(email, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, fmt.Errorf("auth: lookup email: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens(user)
	return user, pair, err
}

// Profile returns the account for an authenticated user id.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	return s.users.FindByID(userID)
}

func (s *AuthService) tokens(user models.User) (TokenPair, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign refresh token: %w", err)
	}
	return TokenPair{Token: token, RefreshToken: refresh}, nil
}
