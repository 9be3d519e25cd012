package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/domain"
	"github.com/MagnusUndhjem/healthTalk-clean/internal/ports"
)

// PostgresRepository mirrors accepted articles into Postgres. The JSON files
// stay the system of record; the mirror exists for downstream querying.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// OpenPostgres connects via the pgx stdlib driver.
func OpenPostgres(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgresRepository(db), nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveAccepted upserts the article snapshot keyed by canonical URL.
func (r *PostgresRepository) SaveAccepted(ctx context.Context, article domain.Article) error {
	if r.db == nil {
		return nil
	}

	query, args, err := sq.Insert("accepted_articles").
		Columns("url", "title", "published", "found_date").
		Values(article.URL, article.Title, article.Published, article.FoundDate).
		Suffix(`ON CONFLICT (url) DO UPDATE
                SET title = EXCLUDED.title,
                    published = EXCLUDED.published`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert accepted article: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (r *PostgresRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
