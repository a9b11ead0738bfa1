package postgres

import "time"

type tournamentTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Sport     string     `db:"sport"`
	Name      string     `db:"name"`
	Location  string     `db:"location"`
	StartDate time.Time  `db:"start_date"`
	EndDate   time.Time  `db:"end_date"`
	Status    string     `db:"status"`
	CreatedBy string     `db:"created_by"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type tournamentInsertModel struct {
	PublicID  string    `db:"public_id"`
	Sport     string    `db:"sport"`
	Name      string    `db:"name"`
	Location  string    `db:"location"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
