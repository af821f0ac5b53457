package resources

import (
	"context"
	"errors"
	"fmt"
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

// PostgresRepository stores resources in the relational database.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("resources: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const resourceColumns = `id, slug, title, COALESCE(summary, ''), COALESCE(author, ''),
	COALESCE(thumbnail_url, ''), COALESCE(categories, '{}'), COALESCE(tags, '{}'),
	type, published_at, COALESCE(year, 0), featured, published`

func scanResource(row pgx.Row) (*Resource, error) {
	var res Resource
	err := row.Scan(
		&res.ID,
		&res.Slug,
		&res.Title,
		&res.Summary,
		&res.Author,
		&res.ThumbnailURL,
		&res.Categories,
		&res.Tags,
		&res.Type,
		&res.PublishedAt,
		&res.Year,
		&res.Featured,
		&res.Published,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PostgresRepository) queryList(ctx context.Context, query string) ([]Resource, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resources: list failed: %w", err)
	}
	defer rows.Close()

	out := []Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("resources: scan failed: %w", err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resources: list rows: %w", err)
	}
	return out, nil
}

// ListPublished fetches published resources newest first.
func (r *PostgresRepository) ListPublished(ctx context.Context) ([]Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE published ORDER BY published_at DESC`
	return r.queryList(ctx, query)
}

// ListAll fetches every resource, drafts included, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY published_at DESC`
	return r.queryList(ctx, query)
}

// GetBySlug fetches a single resource by slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE slug = $1`
	res, err := scanResource(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("resources: select failed: %w", err)
	}
	return res, nil
}

func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}

// Create inserts a new row, assigning id, slug and timestamps as needed.
func (r *PostgresRepository) Create(ctx context.Context, res *Resource) (*Resource, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}

	cp := *res
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.Slug == "" {
		cp.Slug = Slugify(cp.Title)
	}
	if cp.PublishedAt.IsZero() {
		cp.PublishedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO resources (id, slug, title, summary, author, thumbnail_url,
			categories, tags, type, published_at, year, featured, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		cp.ID,
		cp.Slug,
		cp.Title,
		cp.Summary,
		cp.Author,
		cp.ThumbnailURL,
		cp.Categories,
		cp.Tags,
		cp.Type,
		cp.PublishedAt,
		nullableYear(cp.Year),
		cp.Featured,
		cp.Published,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("resources: insert failed: %w", err)
	}
	return &cp, nil
}

// Update replaces an existing row.
func (r *PostgresRepository) Update(ctx context.Context, res *Resource) (*Resource, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE resources
		SET slug = $2, title = $3, summary = $4, author = $5, thumbnail_url = $6,
			categories = $7, tags = $8, type = $9, published_at = $10, year = $11,
			featured = $12, published = $13
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		res.ID,
		res.Slug,
		res.Title,
		res.Summary,
		res.Author,
		res.ThumbnailURL,
		res.Categories,
		res.Tags,
		res.Type,
		res.PublishedAt,
		nullableYear(res.Year),
		res.Featured,
		res.Published,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("resources: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrResourceNotFound
	}

	cp := *res
	return &cp, nil
}

// Delete removes a row by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("resources: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrResourceNotFound
	}
	return nil
}
