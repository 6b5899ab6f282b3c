package models

import "time"

// Payment is a registered payment against a cartera client. CreatedBy is
// the admin profile id that recorded it.
type Payment struct {
	ID        int       `db:"id" json:"id"`
	ClientID  int       `db:"client_id" json:"clientId"`
	Amount    int64     `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"`
	Reference string    `db:"reference" json:"reference"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedBy int       `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
