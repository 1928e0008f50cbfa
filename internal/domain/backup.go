package domain

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BackupSnapshot is the JSON document written for a backup
type BackupSnapshot struct {
	Version      int            `json:"version"`
	UserID       uuid.UUID      `json:"userId"`
	CreatedAt    time.Time      `json:"createdAt"`
	Transactions []*Transaction `json:"transactions"`
	Budgets      []Budget       `json:"budgets"`
}

// BackupSnapshotVersion is the current snapshot format version
const BackupSnapshotVersion = 1

// Backup describes a stored snapshot
type Backup struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"downloadUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	Size        int64     `json:"size"`
}

// BackupStore persists backup objects
type BackupStore interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
