package services

import (
	"errors"
	"fmt"

	"github.com/surveyhq/survey-management-api/internal/constants"
	"github.com/surveyhq/survey-management-api/internal/models"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// AuthService handles credential checks for both employees and admin
// console accounts. Passwords are stored as bcrypt hashes.
type AuthService struct {
	employeeRepo repository.EmployeeRepository
	adminRepo    repository.AdminUserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(employeeRepo repository.EmployeeRepository, adminRepo repository.AdminUserRepository) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		adminRepo:    adminRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// EmployeeLogin verifies employee credentials and returns the employee.
func (s *AuthService) EmployeeLogin(input LoginInput) (*models.Employee, error) {
	emp, err := s.employeeRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return emp, nil
}

// AdminLogin verifies admin console credentials and returns the account.
func (s *AuthService) AdminLogin(input LoginInput) (*models.AdminUser, error) {
	admin, err := s.adminRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

// ChangePassword replaces an employee's password after verifying the
// current one, letting accounts created with a temporary password set
// their own.
func (s *AuthService) ChangePassword(emp *models.Employee, current, next string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := HashPassword(next)
	if err != nil {
		return err
	}

	emp.PasswordHash = hashed
	if err := s.employeeRepo.Update(emp); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
