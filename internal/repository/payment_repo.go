package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/mercadolink/mercado_api/internal/models"
)

// PaymentRepository handles data access for payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListPaged returns payments, optionally filtered by client. clientID = 0
// means all clients.
func (r *PaymentRepository) ListPaged(clientID, page, limit int) ([]models.Payment, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = 0 OR client_id = $1)`

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM payments `+baseWhere, clientID); err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := r.db.Select(&payments, `SELECT * FROM payments `+baseWhere+`
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// CreateWithBalance inserts the payment and reduces the client's owed
// balance in one transaction. Returns sql.ErrNoRows when the client does
// not exist.
func (r *PaymentRepository) CreateWithBalance(p *models.Payment) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE clients SET balance = balance - $2, updated_at = now() WHERE id = $1
	`, p.ClientID, p.Amount)
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

	if err := tx.QueryRow(`
		INSERT INTO payments (client_id, amount, method, reference, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.ClientID, p.Amount, p.Method, p.Reference, p.Notes, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}
