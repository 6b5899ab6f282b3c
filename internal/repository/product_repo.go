package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/mercadolink/mercado_api/internal/models"
)

// ProductRepository handles data access for catalog products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetPublishedPaged returns published products with filters and pagination
// plus the total count. Empty filters are ignored. Page begins at 1.
func (r *ProductRepository) GetPublishedPaged(category, search string, page, limit int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR category = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		AND is_published = true`

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM products `+baseWhere, category, search); err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := r.db.Select(&products, `SELECT * FROM products `+baseWhere+`
		ORDER BY category, name LIMIT $3 OFFSET $4`, category, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetPublishedByID returns a single published product.
func (r *ProductRepository) GetPublishedByID(id int) (*models.Product, error) {
	var p models.Product
	err := r.db.Get(&p, `SELECT * FROM products WHERE id = $1 AND is_published = true`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPaged returns all products (published or not) for the back office.
func (r *ProductRepository) ListPaged(category, search string, page, limit int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR category = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%')`

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM products `+baseWhere, category, search); err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := r.db.Select(&products, `SELECT * FROM products `+baseWhere+`
		ORDER BY category, name LIMIT $3 OFFSET $4`, category, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	var p models.Product
	err := r.db.Get(&p, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product.
func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.QueryRow(`
		INSERT INTO products (name, description, category, price, image_url, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.Published).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update modifies a product. Returns sql.ErrNoRows when it does not exist.
func (r *ProductRepository) Update(p *models.Product) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5, image_url = $6, is_published = $7, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.Published)
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

// Delete removes a product.
func (r *ProductRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
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
