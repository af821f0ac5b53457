package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// nullable maps empty optional strings to SQL NULL.
func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, email, organization, role, phone, country_code,
			interested_in, other_service, message, budget, timeframe, file_path, consent, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Organization,
		nullable(req.Role),
		req.Phone,
		nullable(req.CountryCode),
		req.InterestedIn,
		nullable(req.OtherService),
		req.Message,
		nullable(req.Budget),
		req.Timeframe,
		nullable(req.FilePath),
		req.Consent,
		nullable(req.Source),
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:           id.String(),
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Role:         req.Role,
		Phone:        req.Phone,
		CountryCode:  req.CountryCode,
		InterestedIn: req.InterestedIn,
		OtherService: req.OtherService,
		Message:      req.Message,
		Budget:       req.Budget,
		Timeframe:    req.Timeframe,
		FilePath:     req.FilePath,
		Consent:      req.Consent,
		Source:       req.Source,
		CreatedAt:    createdAt,
	}, nil
}

const leadColumns = `id, name, email, organization, COALESCE(role, ''), phone,
	COALESCE(country_code, ''), interested_in, COALESCE(other_service, ''), message,
	COALESCE(budget, ''), timeframe, COALESCE(file_path, ''), consent,
	COALESCE(source, ''), created_at`

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Organization,
		&lead.Role,
		&lead.Phone,
		&lead.CountryCode,
		&lead.InterestedIn,
		&lead.OtherService,
		&lead.Message,
		&lead.Budget,
		&lead.Timeframe,
		&lead.FilePath,
		&lead.Consent,
		&lead.Source,
		&lead.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List fetches leads newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	args := []any{}
	if filter.Source != "" {
		query += ` WHERE source = $1`
		args = append(args, filter.Source)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	leads := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list rows: %w", err)
	}
	return leads, nil
}
