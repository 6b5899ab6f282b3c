package models

import "time"

// Product is a catalog entry. Price is stored in cents to avoid floating
// point arithmetic on money. Only published products are visible on the
// public storefront.
type Product struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Price       int64     `db:"price" json:"price"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	Published   bool      `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
