package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jask/daytally/internal/ledger"
)

// Blob is one stored document.
type Blob struct {
	Name      string
	Value     []byte
	UpdatedAt time.Time
}

// BlobRepo handles named documents in the blobs table.
type BlobRepo struct {
	db *sql.DB
}

func NewBlobRepo(db *sql.DB) *BlobRepo { return &BlobRepo{db: db} }

// Get returns the stored bytes for name, or ledger.ErrBlobNotFound.
func (r *BlobRepo) Get(ctx context.Context, name string) ([]byte, error) {
	b, err := r.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}

// Put replaces the document stored under name.
func (r *BlobRepo) Put(ctx context.Context, name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO blobs(name, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;
	`, name, data)
	return err
}

// Find returns the full row for name.
func (r *BlobRepo) Find(ctx context.Context, name string) (Blob, error) {
	var b Blob
	err := r.db.QueryRowContext(ctx, `SELECT name, value, updated_at FROM blobs WHERE name = ?`, name).
		Scan(&b.Name, &b.Value, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Blob{}, ledger.ErrBlobNotFound
	}
	if err != nil {
		return Blob{}, err
	}
	return b, nil
}
