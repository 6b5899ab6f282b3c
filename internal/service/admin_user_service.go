package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/repository"
)

// AdminUserService manages administrator accounts. Only superadmins reach
// these operations; the route layer enforces that.
type AdminUserService struct {
	profileRepo *repository.AdminProfileRepository
}

// NewAdminUserService constructs an AdminUserService.
func NewAdminUserService(profileRepo *repository.AdminProfileRepository) *AdminUserService {
	return &AdminUserService{profileRepo: profileRepo}
}

func (s *AdminUserService) ListAdmins() ([]models.AdminProfile, error) {
	return s.profileRepo.List()
}

// CreateAdmin creates the credential record and profile for a new admin.
func (s *AdminUserService) CreateAdmin(email, password, name, role string) (*models.AdminProfile, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.AuthUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	profile := &models.AdminProfile{
		Name:   name,
		Email:  email,
		Role:   role,
		Active: true,
	}

	if err := s.profileRepo.CreateWithAuthUser(user, profile); err != nil {
		return nil, err
	}

	log.Info().Str("email", email).Str("role", role).Msg("Admin created")
	return profile, nil
}

// SetActive activates or deactivates an admin. Live sessions of a
// deactivated admin are dropped by the session sweep worker and rejected
// by the session middleware in the meantime.
func (s *AdminUserService) SetActive(id int, active bool) error {
	return s.profileRepo.SetActive(id, active)
}

// Block blocks an admin, optionally until a given time.
func (s *AdminUserService) Block(id int, until *time.Time) error {
	return s.profileRepo.SetBlocked(id, true, until)
}

// Unblock lifts an admin block.
func (s *AdminUserService) Unblock(id int) error {
	return s.profileRepo.SetBlocked(id, false, nil)
}
