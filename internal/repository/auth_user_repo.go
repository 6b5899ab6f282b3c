package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mercadolink/mercado_api/internal/models"
)

type AuthUserRepository struct {
	db *sqlx.DB
}

func NewAuthUserRepository(db *sqlx.DB) *AuthUserRepository {
	return &AuthUserRepository{db: db}
}

func (r *AuthUserRepository) GetByEmail(email string) (*models.AuthUser, error) {
	var user models.AuthUser
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, created_at
		FROM auth_users
		WHERE lower(email) = lower($1)
	`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthUserRepository) GetByID(id uuid.UUID) (*models.AuthUser, error) {
	var user models.AuthUser
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, created_at
		FROM auth_users
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
