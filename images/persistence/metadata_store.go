package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"picshare/images/domain"
	"picshare/shared/db"
)

var _ domain.MetadataStore = (*SQLiteMetadataStore)(nil)

// defaultPageSize is the number of records fetched per page when draining a
// query. Pages are re-fetched on demand; the adapter never materializes the
// full result set.
const defaultPageSize = 100

// SQLiteMetadataStore implements domain.MetadataStore on a SQLite document
// table. Records are stored as JSON documents keyed by (owner_id, id), with
// owner_id acting as the partition key. The store wraps one long-lived
// connection handle shared across all calls.
type SQLiteMetadataStore struct {
	db       *sql.DB
	pageSize int
}

// NewMetadataStore creates a SQLiteMetadataStore from a standard sql.DB.
func NewMetadataStore(sqlDB *sql.DB) *SQLiteMetadataStore {
	return &SQLiteMetadataStore{
		db:       sqlDB,
		pageSize: defaultPageSize,
	}
}

const createItemQuery = `
	INSERT INTO images (owner_id, id, valid, approved, doc)
	VALUES (?, ?, ?, ?, ?)
`

// CreateItem inserts a new document under the owner's partition. Inserting
// an id that already exists in the partition is an error.
func (s *SQLiteMetadataStore) CreateItem(ctx context.Context, ownerID string, img *domain.Image) error {
	doc, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("create item %s/%s: failed to encode document: %w", ownerID, img.ID, err)
	}

	executor := db.GetExecutor(ctx, s.db)
	_, err = executor.ExecContext(ctx, createItemQuery,
		ownerID,
		img.ID,
		boolToInt(img.Valid),
		boolToInt(img.Approved),
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("create item %s/%s: %w", ownerID, img.ID, err)
	}

	return nil
}

const readItemQuery = `
	SELECT doc FROM images WHERE owner_id = ? AND id = ?
`

// ReadItem is a point read by partition key and id.
func (s *SQLiteMetadataStore) ReadItem(ctx context.Context, ownerID, imageID string) (*domain.Image, error) {
	executor := db.GetExecutor(ctx, s.db)

	var doc string
	err := executor.QueryRowContext(ctx, readItemQuery, ownerID, imageID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("read item %s/%s: %w", ownerID, imageID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read item %s/%s: %w", ownerID, imageID, err)
	}

	return decodeImage(ownerID, imageID, doc)
}

const replaceItemQuery = `
	UPDATE images SET valid = ?, approved = ?, doc = ?
	WHERE owner_id = ? AND id = ?
`

// ReplaceItem fully replaces the document at (ownerID, imageID). The last
// write wins; no concurrency token is checked.
func (s *SQLiteMetadataStore) ReplaceItem(ctx context.Context, ownerID, imageID string, img *domain.Image) error {
	doc, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("replace item %s/%s: failed to encode document: %w", ownerID, imageID, err)
	}

	executor := db.GetExecutor(ctx, s.db)
	res, err := executor.ExecContext(ctx, replaceItemQuery,
		boolToInt(img.Valid),
		boolToInt(img.Approved),
		string(doc),
		ownerID,
		imageID,
	)
	if err != nil {
		return fmt.Errorf("replace item %s/%s: %w", ownerID, imageID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace item %s/%s: %w", ownerID, imageID, err)
	}
	if affected == 0 {
		return fmt.Errorf("replace item %s/%s: %w", ownerID, imageID, domain.ErrNotFound)
	}

	return nil
}

const deleteItemQuery = `
	DELETE FROM images WHERE owner_id = ? AND id = ?
`

// DeleteItem removes the document at (ownerID, imageID).
func (s *SQLiteMetadataStore) DeleteItem(ctx context.Context, ownerID, imageID string) error {
	executor := db.GetExecutor(ctx, s.db)
	res, err := executor.ExecContext(ctx, deleteItemQuery, ownerID, imageID)
	if err != nil {
		return fmt.Errorf("delete item %s/%s: %w", ownerID, imageID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %s/%s: %w", ownerID, imageID, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete item %s/%s: %w", ownerID, imageID, domain.ErrNotFound)
	}

	return nil
}

// Query starts a paged scan. With filter.OwnerID set the scan stays inside
// one partition; without it the scan crosses every partition, which is
// strictly more expensive and is reserved for the global listing.
func (s *SQLiteMetadataStore) Query(ctx context.Context, filter domain.ImageFilter) (domain.ImagePager, error) {
	return &imagePager{
		store:  s,
		filter: filter,
	}, nil
}

// imagePager walks a query result page by page, keeping a keyset cursor on
// (owner_id, id). It is forward-only and non-restartable.
type imagePager struct {
	store  *SQLiteMetadataStore
	filter domain.ImageFilter

	lastOwnerID string
	lastImageID string
	done        bool
}

func (p *imagePager) HasMore() bool {
	return !p.done
}

func (p *imagePager) NextPage(ctx context.Context) ([]domain.Image, error) {
	if p.done {
		return nil, nil
	}

	query, args := p.buildPageQuery()

	executor := db.GetExecutor(ctx, p.store.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	page := make([]domain.Image, 0, p.store.pageSize)
	for rows.Next() {
		var ownerID, imageID, doc string
		if err := rows.Scan(&ownerID, &imageID, &doc); err != nil {
			return nil, fmt.Errorf("query images: failed to scan row: %w", err)
		}

		img, err := decodeImage(ownerID, imageID, doc)
		if err != nil {
			return nil, err
		}

		page = append(page, *img)
		p.lastOwnerID = ownerID
		p.lastImageID = imageID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}

	if len(page) < p.store.pageSize {
		p.done = true
	}

	return page, nil
}

func (p *imagePager) buildPageQuery() (string, []any) {
	query := "SELECT owner_id, id, doc FROM images WHERE 1=1"
	args := []any{}

	if p.filter.OwnerID != "" {
		query += " AND owner_id = ?"
		args = append(args, p.filter.OwnerID)
		if p.lastImageID != "" {
			query += " AND id > ?"
			args = append(args, p.lastImageID)
		}
	} else if p.lastImageID != "" {
		query += " AND (owner_id > ? OR (owner_id = ? AND id > ?))"
		args = append(args, p.lastOwnerID, p.lastOwnerID, p.lastImageID)
	}

	if p.filter.VisibleOnly {
		query += " AND valid = 1 AND approved = 1"
	}

	query += " ORDER BY owner_id, id LIMIT ?"
	args = append(args, p.store.pageSize)

	return query, args
}

func decodeImage(ownerID, imageID, doc string) (*domain.Image, error) {
	var img domain.Image
	if err := json.Unmarshal([]byte(doc), &img); err != nil {
		return nil, fmt.Errorf("decode item %s/%s: %w", ownerID, imageID, err)
	}
	return &img, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
