package repository

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// RepositorySet bundles the repositories sharing one store for wiring.
type RepositorySet struct {
	Suppliers SupplierRepository
	Invoices  InvoiceRepository
	Profiles  ProfileRepository

	db *sqlx.DB
}

func NewRepositorySet(db *sqlx.DB, logger *slog.Logger) *RepositorySet {
	if logger == nil {
		logger = slog.Default()
	}
	suppliers := NewSupplierRepository(db, logger)
	return &RepositorySet{
		Suppliers: suppliers,
		Invoices:  NewInvoiceRepository(db, suppliers, logger),
		Profiles:  NewProfileRepository(db, logger),
		db:        db,
	}
}

// DB exposes the underlying handle for health checks and tests.
func (s *RepositorySet) DB() *sqlx.DB { return s.db }
