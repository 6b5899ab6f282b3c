package models

import "time"

// Client is a cartera (ledger) account of the back office. Balance is the
// outstanding amount in cents; payments reduce it.
type Client struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Balance   int64     `db:"balance" json:"balance"`
	Notes     string    `db:"notes" json:"notes"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
