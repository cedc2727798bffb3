package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shortenerproject/shortener/internal/model"
)

// Common errors for link repository operations.
var (
	ErrLinkNotFound = errors.New("link not found")
	ErrAliasExists  = errors.New("alias already exists")
	// ErrLinkChanged means the row no longer matches the version an update
	// was based on.
	ErrLinkChanged = errors.New("link changed concurrently")
)

const linkColumns = `id, alias, origin_url, owner_id, visit_count, expires_at, created_at, updated_at`

// CreateLink inserts a new link. The unique constraint on alias is the
// final arbiter between concurrent writers.
func (r *Repository) CreateLink(ctx context.Context, link *model.Link) error {
	query := `
		INSERT INTO links (id, alias, origin_url, owner_id, visit_count, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		link.ID,
		link.Alias,
		link.OriginURL,
		link.OwnerID,
		link.VisitCount,
		link.ExpiresAt,
		link.CreatedAt,
		link.UpdatedAt,
	)

	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrAliasExists
		case isForeignKeyViolation(err):
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// AliasExists checks if an alias is already taken.
func (r *Repository) AliasExists(ctx context.Context, alias string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE alias = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, alias).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check alias existence: %w", err)
	}

	return exists, nil
}

// GetLinkByAlias retrieves a link by its alias.
func (r *Repository) GetLinkByAlias(ctx context.Context, alias string) (*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE alias = $1`

	link, err := scanLink(r.pool.QueryRow(ctx, query, alias))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by alias: %w", err)
	}

	return link, nil
}

// GetLinkByIDAndOwner retrieves a link only when both id and owner match.
func (r *Repository) GetLinkByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1 AND owner_id = $2`

	link, err := scanLink(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by ID: %w", err)
	}

	return link, nil
}

// ListLinksByOwner returns every link of an owner in creation order.
func (r *Repository) ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE owner_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]*model.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// UpdateLink writes alias, origin and expiry of an owned link, provided
// the row still has alias and origin prev. A row that moved on yields
// ErrLinkChanged. visit_count and created_at are read back, never written.
func (r *Repository) UpdateLink(ctx context.Context, link *model.Link, prev model.LinkVersion) error {
	query := `
		UPDATE links
		SET alias = $3, origin_url = $4, expires_at = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2 AND alias = $7 AND origin_url = $8
		RETURNING visit_count, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		link.ID,
		link.OwnerID,
		link.Alias,
		link.OriginURL,
		link.ExpiresAt,
		link.UpdatedAt,
		prev.Alias,
		prev.OriginURL,
	).Scan(&link.VisitCount, &link.CreatedAt)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return r.missOrChanged(ctx, link.ID, link.OwnerID)
		case isUniqueViolation(err):
			return ErrAliasExists
		}
		return fmt.Errorf("failed to update link: %w", err)
	}

	return nil
}

// missOrChanged explains an update that matched no row.
func (r *Repository) missOrChanged(ctx context.Context, id, ownerID string) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE id = $1 AND owner_id = $2)`
	if err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check link: %w", err)
	}
	if exists {
		return ErrLinkChanged
	}
	return ErrLinkNotFound
}

// DeleteLinkByIDAndOwner permanently removes an owned link.
func (r *Repository) DeleteLinkByIDAndOwner(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM links WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// IncrementVisitCount adds one visit to the link under alias and returns
// the updated row. The increment is a single statement, so concurrent
// redirects never lose a count.
func (r *Repository) IncrementVisitCount(ctx context.Context, alias string) (*model.Link, error) {
	query := `
		UPDATE links
		SET visit_count = visit_count + 1
		WHERE alias = $1
		RETURNING ` + linkColumns

	link, err := scanLink(r.pool.QueryRow(ctx, query, alias))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to increment visit count: %w", err)
	}

	return link, nil
}

// scanLink scans a row (or the current row of pgx.Rows) into a Link.
func scanLink(row pgx.Row) (*model.Link, error) {
	var link model.Link
	err := row.Scan(
		&link.ID,
		&link.Alias,
		&link.OriginURL,
		&link.OwnerID,
		&link.VisitCount,
		&link.ExpiresAt,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
