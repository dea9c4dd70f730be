package repository

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/nmezrioui/facturex/internal/entity"
)

// ProfileRepository stores the caller's own company identities. The
// pipeline reads one to steer the AI extractor away from the issuer.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.CompanyProfile) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.CompanyProfile, error)
	List(ctx context.Context) ([]*entity.CompanyProfile, error)
}

type profileRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewProfileRepository(db *sqlx.DB, logger *slog.Logger) ProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileRepository{db: db, logger: logger}
}

func (r *profileRepository) Create(ctx context.Context, p *entity.CompanyProfile) (int64, error) {
	query := r.db.Rebind(`
		INSERT INTO company_profiles (name, address, ice, cnss, tax_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	var id int64
	if err := r.db.GetContext(ctx, &id, query, p.Name, p.Address, p.ICE, p.CNSS, p.TaxID); err != nil {
		r.logger.Error("failed to create profile", "name", p.Name, "error", err)
		return 0, err
	}
	return id, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id int64) (*entity.CompanyProfile, error) {
	var p entity.CompanyProfile
	query := r.db.Rebind(`
		SELECT id, name, address, ice, cnss, tax_id
		FROM company_profiles WHERE id = ?`)
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*entity.CompanyProfile, error) {
	var ps []*entity.CompanyProfile
	query := `
		SELECT id, name, address, ice, cnss, tax_id
		FROM company_profiles ORDER BY id`
	if err := r.db.SelectContext(ctx, &ps, query); err != nil {
		return nil, err
	}
	return ps, nil
}
