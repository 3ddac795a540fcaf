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
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

type linkDB struct {
	ID               uuid.UUID      `db:"id"`
	OriginalURL      string         `db:"original_url"`
	Alias            string         `db:"alias"`
	OwnerUserID      sql.NullString `db:"owner_user_id"`
	OwnerFingerprint sql.NullString `db:"owner_fingerprint"`
	Visits           int64          `db:"visits"`
	PreviewImage     sql.NullString `db:"preview_image"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (l *linkDB) toEntity() *entity.Link {
	link := &entity.Link{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		Alias:       l.Alias,
		Visits:      l.Visits,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}

	switch {
	case l.OwnerUserID.Valid:
		link.Owner = entity.UserOwner(l.OwnerUserID.String)
	case l.OwnerFingerprint.Valid:
		link.Owner = entity.FingerprintOwner(l.OwnerFingerprint.String)
	default:
		link.Owner = entity.NoOwner()
	}

	if l.PreviewImage.Valid {
		img := l.PreviewImage.String
		link.PreviewImage = &img
	}

	return link
}

func ownerColumns(owner entity.Owner) (userID, fingerprint sql.NullString) {
	if id, ok := owner.UserID(); ok {
		userID = sql.NullString{String: id, Valid: true}
	}
	if fp, ok := owner.Fingerprint(); ok {
		fingerprint = sql.NullString{String: fp, Valid: true}
	}
	return userID, fingerprint
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Create"
	const query = `
		INSERT INTO links(original_url, alias, owner_user_id, owner_fingerprint, preview_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	userID, fingerprint := ownerColumns(link.Owner)

	var row linkDB

	err := r.db.GetContext(ctx, &row, query,
		link.OriginalURL, link.Alias, userID, fingerprint, nullString(link.PreviewImage))
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into links table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *LinkRepository) ExistsByAlias(ctx context.Context, alias string) (bool, error) {
	const op = "adapter.repository.postgres.LinkRepository.ExistsByAlias"
	const query = `SELECT EXISTS(SELECT 1 FROM links WHERE alias = $1)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, alias); err != nil {
		return false, fmt.Errorf("%s: failed to query links table: %w", op, err)
	}

	return exists, nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.GetByID"
	const query = `SELECT * FROM links WHERE id = $1`

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from links table: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *LinkRepository) GetByAlias(ctx context.Context, alias string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.GetByAlias"
	const query = `SELECT * FROM links WHERE alias = $1`

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, alias); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from links table: %w", op, err)
	}

	return row.toEntity(), nil
}

// ListByOwner returns the owner's links, newest first. Links without an owner
// are never listed.
func (r *LinkRepository) ListByOwner(ctx context.Context, owner entity.Owner) ([]*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.ListByOwner"

	var (
		query string
		arg   string
	)

	if id, ok := owner.UserID(); ok {
		query = `SELECT * FROM links WHERE owner_user_id = $1 ORDER BY created_at DESC`
		arg = id
	} else if fp, ok := owner.Fingerprint(); ok {
		query = `SELECT * FROM links WHERE owner_fingerprint = $1 ORDER BY created_at DESC`
		arg = fp
	} else {
		return []*entity.Link{}, nil
	}

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("%s: failed to select from links table: %w", op, err)
	}

	links := make([]*entity.Link, 0, len(rows))
	for i := range rows {
		links = append(links, rows[i].toEntity())
	}

	return links, nil
}

func (r *LinkRepository) Update(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Update"
	const query = `
		UPDATE links SET original_url = $1, alias = $2, updated_at = now()
		WHERE id = $3
		RETURNING *`

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, link.OriginalURL, link.Alias, link.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasExists)
		}

		return nil, fmt.Errorf("%s: failed to update links table row: %w", op, err)
	}

	return row.toEntity(), nil
}

// IncrementVisits counts one visit and returns the updated link in a single
// statement, so concurrent redirects never lose an increment.
func (r *LinkRepository) IncrementVisits(ctx context.Context, alias string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.IncrementVisits"
	const query = `
		UPDATE links SET visits = visits + 1, updated_at = now()
		WHERE alias = $1
		RETURNING *`

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, alias); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get and update links table row: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *LinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "adapter.repository.postgres.LinkRepository.Delete"
	const query = `DELETE FROM links WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from links table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return nil
}
