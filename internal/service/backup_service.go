package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/metrics"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BackupURLExpiry is how long a backup download link stays valid
const BackupURLExpiry = 15 * time.Minute

// BackupService writes JSON snapshots of a user's data to object storage
type BackupService struct {
	sessions *SessionManager
	store    domain.BackupStore
}

// NewBackupService creates a new BackupService. A nil store disables backups.
func NewBackupService(sessions *SessionManager, store domain.BackupStore) *BackupService {
	return &BackupService{sessions: sessions, store: store}
}

// Enabled reports whether a backup store is configured
func (s *BackupService) Enabled() bool {
	return s.store != nil
}

// CreateBackup uploads a snapshot and returns its key and a presigned download URL
func (s *BackupService) CreateBackup(ctx context.Context, userID uuid.UUID) (*domain.Backup, error) {
	if !s.Enabled() {
		return nil, domain.ErrBackupsDisabled
	}

	state, err := s.sessions.State(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions, budgets := state.Snapshot()
	createdAt := state.Now().UTC()
	snapshot := domain.BackupSnapshot{
		Version:      domain.BackupSnapshotVersion,
		UserID:       userID,
		CreatedAt:    createdAt,
		Transactions: transactions,
		Budgets:      budgets,
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	key := storage.BackupObjectPath(userID, createdAt)
	if _, err := s.store.Upload(ctx, key, bytes.NewReader(body), storage.BackupContentType, int64(len(body))); err != nil {
		metrics.PersistenceFailures.WithLabelValues("upload backup").Inc()
		log.Error().Err(err).Str("user_id", userID.String()).Str("key", key).Msg("Failed to upload backup")
		return nil, &domain.PersistenceError{Op: "upload backup", Err: err}
	}

	url, err := s.store.GeneratePresignedURL(ctx, key, BackupURLExpiry)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("key", key).Msg("Failed to presign backup URL")
		return nil, &domain.PersistenceError{Op: "presign backup", Err: err}
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("key", key).
		Int("transactions", len(transactions)).
		Msg("Backup created")

	return &domain.Backup{
		Key:         key,
		DownloadURL: url,
		CreatedAt:   createdAt,
		Size:        int64(len(body)),
	}, nil
}
