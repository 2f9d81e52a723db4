package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/brevly/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type linkDB struct {
	ID          string    `db:"id"`
	OriginalURL string    `db:"original_url"`
	ShortURL    string    `db:"short_url"`
	AccessCount int64     `db:"access_count"`
	CreatedAt   time.Time `db:"created_at"`
}

func (l *linkDB) toEntity() *entity.Link {
	return &entity.Link{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		ShortURL:    l.ShortURL,
		AccessCount: l.AccessCount,
		CreatedAt:   l.CreatedAt,
	}
}

func toEntities(rows []linkDB) []entity.Link {
	links := make([]entity.Link, 0, len(rows))
	for i := range rows {
		links = append(links, *rows[i].toEntity())
	}
	return links
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Save inserts a new link with a freshly generated UUIDv7 id. A unique violation on
// short_url is reported as entity.ErrAliasConflict and leaves the existing row untouched.
func (r *LinkRepository) Save(ctx context.Context, originalURL, shortURL string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Save"
	const query = `INSERT INTO links(id, original_url, short_url) VALUES ($1, $2, $3)
		RETURNING id, original_url, short_url, access_count, created_at`

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate link id: %w", op, err)
	}

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, id.String(), originalURL, shortURL); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasConflict)
		}

		return nil, fmt.Errorf("%s: failed to insert into links table: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *LinkRepository) RetrieveAll(ctx context.Context) ([]entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveAll"
	const query = `SELECT id, original_url, short_url, access_count, created_at
		FROM links ORDER BY created_at DESC`

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to select from links table: %w", op, err)
	}

	return toEntities(rows), nil
}

func (r *LinkRepository) RetrieveByAlias(ctx context.Context, shortURL string) ([]entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveByAlias"
	const query = `SELECT id, original_url, short_url, access_count, created_at
		FROM links WHERE short_url = $1 ORDER BY created_at DESC`

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query, shortURL); err != nil {
		return nil, fmt.Errorf("%s: failed to select from links table: %w", op, err)
	}

	return toEntities(rows), nil
}

// RetrieveAndUpdateStats increments the access counter in a single statement and
// returns the updated row.
func (r *LinkRepository) RetrieveAndUpdateStats(ctx context.Context, shortURL string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveAndUpdateStats"
	const query = `UPDATE links SET access_count = access_count + 1 WHERE short_url = $1
		RETURNING id, original_url, short_url, access_count, created_at`

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, shortURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get and update links table row: %w", op, err)
	}

	return link.toEntity(), nil
}

// Remove deletes the link with the given id. Deleting a missing id is not an error.
func (r *LinkRepository) Remove(ctx context.Context, id string) error {
	const op = "adapter.repository.postgres.LinkRepository.Remove"
	const query = `DELETE FROM links WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to delete from links table: %w", op, err)
	}

	return nil
}
