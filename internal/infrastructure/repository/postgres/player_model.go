package postgres

import "time"

type playerTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	Sport        string     `db:"sport"`
	Name         string     `db:"name"`
	Role         string     `db:"role"`
	JerseyNumber int        `db:"jersey_number"`
	ImageURL     string     `db:"image_url"`
	CreatedBy    string     `db:"created_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID     string    `db:"public_id"`
	Sport        string    `db:"sport"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	JerseyNumber int       `db:"jersey_number"`
	ImageURL     string    `db:"image_url"`
	CreatedBy    string    `db:"created_by"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
