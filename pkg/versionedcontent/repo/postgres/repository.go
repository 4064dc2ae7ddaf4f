package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	vc "github.com/draftkit/versioned-content/pkg/versionedcontent"
)

// Repository implements versionedcontent.Repository using PostgreSQL.
// Updates that carry a snapshot run in a transaction so the snapshot
// insert and the content update commit together or not at all.
type Repository struct {
	pool *pgxpool.Pool
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) vc.Repository {
	return &Repository{pool: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *vc.Content) error {
	metadata, err := json.Marshal(content.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO content (
			id, owner_id, title, body, kind, metadata,
			word_count, version, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		content.ID, content.OwnerID, content.Title, content.Body,
		content.Kind, metadata, content.WordCount, content.Version,
		content.Status, content.CreatedAt, content.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id, ownerID uuid.UUID) (*vc.Content, error) {
	query := `
        SELECT id, owner_id, title, body, kind, metadata,
               word_count, version, status, created_at, updated_at
        FROM content WHERE id = $1 AND owner_id = $2`

	return r.scanContent(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *Repository) scanContent(row pgx.Row) (*vc.Content, error) {
	var content vc.Content
	var metadata []byte
	err := row.Scan(
		&content.ID, &content.OwnerID, &content.Title, &content.Body,
		&content.Kind, &metadata, &content.WordCount, &content.Version,
		&content.Status, &content.CreatedAt, &content.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vc.ErrContentNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(metadata, &content.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}

	return &content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, params vc.UpdateContentParams) error {
	content := params.Content
	metadata, err := json.Marshal(content.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE content SET
			title = $3, body = $4, metadata = $5, word_count = $6,
			version = $7, status = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2`
	args := []interface{}{
		content.ID, content.OwnerID, content.Title, content.Body,
		metadata, content.WordCount, content.Version, content.Status,
		content.UpdatedAt,
	}
	if params.ExpectedVersion != nil {
		query += ` AND version = $10`
		args = append(args, *params.ExpectedVersion)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		// Disambiguate a missing record from a version mismatch
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM content WHERE id = $1 AND owner_id = $2)`,
			content.ID, content.OwnerID).Scan(&exists)
		if err != nil {
			return r.handlePostgresError("update content", err)
		}
		if exists {
			return vc.ErrVersionConflict
		}
		return vc.ErrContentNotFound
	}

	if params.Snapshot != nil {
		if err := insertVersion(ctx, tx, params.Snapshot); err != nil {
			return r.handlePostgresError("insert version", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return r.handlePostgresError("update content", err)
	}

	return nil
}

func insertVersion(ctx context.Context, tx pgx.Tx, snapshot *vc.ContentVersion) error {
	metadata, err := json.Marshal(snapshot.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO content_version (
			id, content_id, owner_id, title, body, kind, metadata,
			word_count, version, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, query,
		snapshot.ID, snapshot.ContentID, snapshot.OwnerID, snapshot.Title,
		snapshot.Body, snapshot.Kind, metadata, snapshot.WordCount,
		snapshot.Version, snapshot.Status, snapshot.CreatedAt)

	return err
}

func (r *Repository) DeleteContent(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM content WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, r.handlePostgresError("delete content", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListContent(ctx context.Context, params vc.ListContentParams) ([]*vc.Content, int64, error) {
	conditions := []string{"owner_id = $1"}
	args := []interface{}{params.OwnerID}

	if params.Kind != nil {
		args = append(args, *params.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", len(args), len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM content WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count content", err)
	}

	// seq is a serial assigned at insert; it breaks created_at ties in
	// insertion order.
	query := fmt.Sprintf(`
        SELECT id, owner_id, title, body, kind, metadata,
               word_count, version, status, created_at, updated_at
        FROM content WHERE %s
        ORDER BY created_at DESC, seq ASC
        LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list content", err)
	}
	defer rows.Close()

	var contents []*vc.Content
	for rows.Next() {
		content, err := r.scanContent(rows)
		if err != nil {
			return nil, 0, err
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.handlePostgresError("list content", err)
	}

	return contents, total, nil
}

// Version snapshot operations

func (r *Repository) GetVersion(ctx context.Context, contentID uuid.UUID, version int) (*vc.ContentVersion, error) {
	query := `
		SELECT id, content_id, owner_id, title, body, kind, metadata,
			   word_count, version, status, created_at
		FROM content_version WHERE content_id = $1 AND version = $2`

	return scanVersion(r.pool.QueryRow(ctx, query, contentID, version))
}

func scanVersion(row pgx.Row) (*vc.ContentVersion, error) {
	var snapshot vc.ContentVersion
	var metadata []byte
	err := row.Scan(
		&snapshot.ID, &snapshot.ContentID, &snapshot.OwnerID, &snapshot.Title,
		&snapshot.Body, &snapshot.Kind, &metadata, &snapshot.WordCount,
		&snapshot.Version, &snapshot.Status, &snapshot.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vc.ErrVersionNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(metadata, &snapshot.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}

	return &snapshot, nil
}

func (r *Repository) ListVersions(ctx context.Context, contentID uuid.UUID) ([]*vc.ContentVersion, error) {
	query := `
		SELECT id, content_id, owner_id, title, body, kind, metadata,
			   word_count, version, status, created_at
		FROM content_version WHERE content_id = $1
		ORDER BY version DESC`

	rows, err := r.pool.Query(ctx, query, contentID)
	if err != nil {
		return nil, r.handlePostgresError("list versions", err)
	}
	defer rows.Close()

	versions := []*vc.ContentVersion{}
	for rows.Next() {
		snapshot, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list versions", err)
	}

	return versions, nil
}

func (r *Repository) DeleteVersions(ctx context.Context, contentID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM content_version WHERE content_id = $1`, contentID)
	if err != nil {
		return 0, r.handlePostgresError("delete versions", err)
	}

	return tag.RowsAffected(), nil
}
