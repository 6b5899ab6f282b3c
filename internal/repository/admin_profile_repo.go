package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mercadolink/mercado_api/internal/models"
)

type AdminProfileRepository struct {
	db *sqlx.DB
}

func NewAdminProfileRepository(db *sqlx.DB) *AdminProfileRepository {
	return &AdminProfileRepository{db: db}
}

func (r *AdminProfileRepository) GetByAuthUserID(authUserID uuid.UUID) (*models.AdminProfile, error) {
	var profile models.AdminProfile
	err := r.db.Get(&profile, `
		SELECT id, auth_user_id, name, email, role, activo, bloqueado, bloqueado_hasta, created_at, updated_at
		FROM admin_profiles
		WHERE auth_user_id = $1
	`, authUserID)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AdminProfileRepository) GetByID(id int) (*models.AdminProfile, error) {
	var profile models.AdminProfile
	err := r.db.Get(&profile, `
		SELECT id, auth_user_id, name, email, role, activo, bloqueado, bloqueado_hasta, created_at, updated_at
		FROM admin_profiles
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AdminProfileRepository) List() ([]models.AdminProfile, error) {
	var profiles []models.AdminProfile
	err := r.db.Select(&profiles, `
		SELECT id, auth_user_id, name, email, role, activo, bloqueado, bloqueado_hasta, created_at, updated_at
		FROM admin_profiles
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// ValidateLogin runs the server-side login gate. The decision is computed
// in the database so it cannot diverge from the stored state.
func (r *AdminProfileRepository) ValidateLogin(authUserID uuid.UUID) (*models.LoginValidationResult, error) {
	var result models.LoginValidationResult
	err := r.db.Get(&result, `SELECT * FROM validate_admin_login($1)`, authUserID)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateWithAuthUser inserts the credential record and its profile in one
// transaction so a half-created admin can never exist.
func (r *AdminProfileRepository) CreateWithAuthUser(user *models.AuthUser, profile *models.AdminProfile) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRow(`
		INSERT INTO auth_users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, user.ID, user.Email, user.PasswordHash).Scan(&user.CreatedAt); err != nil {
		return err
	}

	if err := tx.QueryRow(`
		INSERT INTO admin_profiles (auth_user_id, name, email, role, activo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, user.ID, profile.Name, profile.Email, profile.Role, profile.Active).
		Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return err
	}
	profile.AuthUserID = user.ID

	return tx.Commit()
}

func (r *AdminProfileRepository) SetActive(id int, active bool) error {
	_, err := r.db.Exec(`
		UPDATE admin_profiles SET activo = $2, updated_at = now() WHERE id = $1
	`, id, active)
	return err
}

func (r *AdminProfileRepository) SetBlocked(id int, blocked bool, until *time.Time) error {
	_, err := r.db.Exec(`
		UPDATE admin_profiles SET bloqueado = $2, bloqueado_hasta = $3, updated_at = now() WHERE id = $1
	`, id, blocked, until)
	return err
}

// ClearExpiredBlocks lifts blocks whose bloqueado_hasta has passed and
// returns how many profiles were unblocked.
func (r *AdminProfileRepository) ClearExpiredBlocks() (int64, error) {
	res, err := r.db.Exec(`
		UPDATE admin_profiles
		SET bloqueado = false, bloqueado_hasta = NULL, updated_at = now()
		WHERE bloqueado = true AND bloqueado_hasta IS NOT NULL AND bloqueado_hasta <= now()
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
