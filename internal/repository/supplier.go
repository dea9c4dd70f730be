package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/nmezrioui/facturex/internal/entity"
)

// SupplierRepository deduplicates counterparties by (name, ice).
// FindOrCreate takes the caller's transaction so a supplier created for an
// invoice that fails to persist is rolled back with it.
type SupplierRepository interface {
	FindOrCreate(ctx context.Context, tx *sqlx.Tx, s *entity.Supplier) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
}

type supplierRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSupplierRepository(db *sqlx.DB, logger *slog.Logger) SupplierRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &supplierRepository{db: db, logger: logger}
}

func (r *supplierRepository) FindOrCreate(ctx context.Context, tx *sqlx.Tx, s *entity.Supplier) (int64, error) {
	lookup := tx.Rebind(`SELECT id FROM suppliers WHERE name = ? AND ice = ?`)

	var id int64
	err := tx.GetContext(ctx, &id, lookup, s.Name, s.ICE)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// DO NOTHING (rather than catching the constraint error) keeps the
	// transaction usable when a concurrent run inserts the same supplier
	// between our lookup and insert.
	insert := tx.Rebind(`
		INSERT INTO suppliers (name, address, ice, cnss, tax_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name, ice) DO NOTHING
		RETURNING id`)
	err = tx.GetContext(ctx, &id, insert, s.Name, s.Address, s.ICE, s.CNSS, s.TaxID)
	if err == nil {
		r.logger.Info("supplier created", "supplier_id", id, "name", s.Name, "ice", s.ICE)
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// Lost the race: the row exists now, fetch its id.
	if err := tx.GetContext(ctx, &id, lookup, s.Name, s.ICE); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	var s entity.Supplier
	query := r.db.Rebind(`
		SELECT id, name, address, ice, cnss, tax_id
		FROM suppliers WHERE id = ?`)
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, err
	}
	return &s, nil
}
