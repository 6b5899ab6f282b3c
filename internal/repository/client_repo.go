package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/mercadolink/mercado_api/internal/models"
)

// ClientRepository handles data access for cartera clients.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ListPaged returns clients with an optional name/email search.
func (r *ClientRepository) ListPaged(search string, page, limit int) ([]models.Client, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')`

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM clients `+baseWhere, search); err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	err := r.db.Select(&clients, `SELECT * FROM clients `+baseWhere+`
		ORDER BY name LIMIT $2 OFFSET $3`, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// GetByID returns a single client by id.
func (r *ClientRepository) GetByID(id int) (*models.Client, error) {
	var c models.Client
	err := r.db.Get(&c, `SELECT * FROM clients WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a client.
func (r *ClientRepository) Create(c *models.Client) error {
	return r.db.QueryRow(`
		INSERT INTO clients (name, email, phone, balance, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Phone, c.Balance, c.Notes, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies a client. Balance is not touched here; it only moves
// through payments.
func (r *ClientRepository) Update(c *models.Client) error {
	res, err := r.db.Exec(`
		UPDATE clients
		SET name = $2, email = $3, phone = $4, notes = $5, is_active = $6, updated_at = now()
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone, c.Notes, c.IsActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
