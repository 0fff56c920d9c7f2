package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// MesaRepository reads the tables of the restaurant database, which is owned
// by the table management service.
type MesaRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type mesaRepository struct {
	db *sqlx.DB
}

func NewMesaRepository(db *sqlx.DB) MesaRepository {
	return &mesaRepository{db: db}
}

func (r *mesaRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM mesas WHERE id = $1)`
	err := r.db.GetContext(ctx, &exists, query, id)
	return exists, err
}
