package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/nmezrioui/facturex/internal/entity"
)

// InvoiceRepository owns the all-or-nothing invoice write: supplier
// resolution, header insert and line-item inserts commit together or not at
// all. Readers never observe a half-written invoice.
type InvoiceRepository interface {
	CreateWithItems(ctx context.Context, inv *entity.Invoice) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
}

type invoiceRepository struct {
	db        *sqlx.DB
	suppliers SupplierRepository
	logger    *slog.Logger
}

func NewInvoiceRepository(db *sqlx.DB, suppliers SupplierRepository, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, suppliers: suppliers, logger: logger}
}

func (r *invoiceRepository) CreateWithItems(ctx context.Context, inv *entity.Invoice) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	supplierID, err := r.suppliers.FindOrCreate(ctx, tx, &inv.Supplier)
	if err != nil {
		return 0, fmt.Errorf("resolve supplier: %w", err)
	}

	insertHeader := tx.Rebind(`
		INSERT INTO invoices (supplier_id, invoice_number, invoice_date, total_ht, vat_amount, total_ttc, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	var invoiceID int64
	err = tx.GetContext(ctx, &invoiceID, insertHeader,
		supplierID, inv.Number, inv.Date, inv.TotalHT, inv.VATAmount, inv.TotalTTC, inv.Currency)
	if err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}

	insertItem := tx.Rebind(`
		INSERT INTO invoice_items (invoice_id, position, designation, quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?, ?)`)
	for i, it := range inv.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			invoiceID, i, it.Designation, it.Quantity, it.UnitPrice, it.TotalPrice); err != nil {
			return 0, fmt.Errorf("insert line item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.logger.Info("invoice persisted",
		"invoice_id", invoiceID,
		"supplier_id", supplierID,
		"number", inv.Number,
		"items", len(inv.Items),
	)
	return invoiceID, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	var inv entity.Invoice
	query := r.db.Rebind(`
		SELECT i.id, i.supplier_id, s.name AS supplier_name, i.invoice_number,
		       i.invoice_date, i.total_ht, i.vat_amount, i.total_ttc, i.currency
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.id = ?`)
	if err := r.db.GetContext(ctx, &inv, query, id); err != nil {
		return nil, err
	}

	items := r.db.Rebind(`
		SELECT id, invoice_id, position, designation, quantity, unit_price, total_price
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY position`)
	if err := r.db.SelectContext(ctx, &inv.Items, items, id); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*entity.Invoice, error) {
	var invs []*entity.Invoice
	query := `
		SELECT i.id, i.supplier_id, s.name AS supplier_name, i.invoice_number,
		       i.invoice_date, i.total_ht, i.vat_amount, i.total_ttc, i.currency
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		ORDER BY i.invoice_date DESC, i.id DESC`
	if err := r.db.SelectContext(ctx, &invs, query); err != nil {
		return nil, err
	}
	return invs, nil
}
