package postgres

import "time"

type resourceTableModel struct {
	Kind       string    `db:"kind"`
	NaturalKey string    `db:"natural_key"`
	Payload    []byte    `db:"payload"`
	FetchedAt  time.Time `db:"fetched_at"`
}

type resourceUpsertModel struct {
	Kind       string    `db:"kind"`
	NaturalKey string    `db:"natural_key"`
	Payload    string    `db:"payload"`
	FetchedAt  time.Time `db:"fetched_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type dismissalTypeTableModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Kind     string `db:"kind"`
}
