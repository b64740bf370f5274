package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-studio-crm/internal/config"
	"go-studio-crm/internal/features/comments"
	"go-studio-crm/internal/features/crm"
	"go-studio-crm/internal/features/submission"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrDisabled is returned when no reporting database is configured.
var ErrDisabled = errors.New("reporting export is not configured")

const listBatchSize = 500

type ExportService interface {
	Enabled() bool
	// Run mirrors submissions and per-client comment stats into the
	// reporting database. Rows are upserted, a rerun is safe.
	Run(ctx context.Context) (*Result, error)
}

type ExportServiceImpl struct {
	connStr     string
	clients     crm.ClientRepository
	submissions submission.SubmissionRepository
	logger      *zap.Logger
}

func NewExportService(
	cfg *config.Config,
	clients crm.ClientRepository,
	submissions submission.SubmissionRepository,
	logger *zap.Logger,
) ExportService {
	return &ExportServiceImpl{
		connStr:     cfg.ReportingDBURL,
		clients:     clients,
		submissions: submissions,
		logger:      logger,
	}
}

func (s *ExportServiceImpl) Enabled() bool {
	return s.connStr != ""
}

func (s *ExportServiceImpl) Run(ctx context.Context) (*Result, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to reporting db: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping reporting db: %w", err)
	}

	if err := s.ensureSchema(ctx, db); err != nil {
		return nil, err
	}

	result := &Result{StartedAt: time.Now()}

	if result.Submissions, err = s.exportSubmissions(ctx, db); err != nil {
		return nil, err
	}
	if result.Clients, err = s.exportClientStats(ctx, db); err != nil {
		return nil, err
	}

	result.FinishedAt = time.Now()
	s.logger.Info("reporting export finished",
		zap.Int("submissions", result.Submissions),
		zap.Int("clients", result.Clients),
		zap.Duration("took", result.FinishedAt.Sub(result.StartedAt)))
	return result, nil
}

func (s *ExportServiceImpl) ensureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reporting_submissions (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			reference TEXT NOT NULL,
			status TEXT NOT NULL,
			image_count INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			exported_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reporting_client_comments (
			client_id TEXT PRIMARY KEY,
			client_name TEXT NOT NULL,
			comment_count INT NOT NULL,
			last_sync TEXT,
			exported_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare reporting schema: %w", err)
		}
	}
	return nil
}

func (s *ExportServiceImpl) exportSubmissions(ctx context.Context, db *sql.DB) (int, error) {
	const query = `
		INSERT INTO reporting_submissions (id, client_id, reference, status, image_count, created_at, exported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = $4, image_count = $5, exported_at = $7`

	count := 0
	now := time.Now()
	for offset := int64(0); ; offset += listBatchSize {
		batch, err := s.submissions.List(ctx, "", listBatchSize, offset)
		if err != nil {
			return count, fmt.Errorf("failed to list submissions: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, sub := range batch {
			images := 0
			for _, img := range sub.Images {
				if !img.Deleted {
					images++
				}
			}

			_, err := db.ExecContext(ctx, query,
				sub.ID.Hex(), sub.ClientID, sub.Reference, string(sub.Status), images, sub.CreatedAt, now)
			if err != nil {
				s.logger.Warn("failed to export submission",
					zap.String("submissionId", sub.ID.Hex()),
					zap.Error(err))
				continue
			}
			count++
		}

		if len(batch) < listBatchSize {
			break
		}
	}
	return count, nil
}

func (s *ExportServiceImpl) exportClientStats(ctx context.Context, db *sql.DB) (int, error) {
	const query = `
		INSERT INTO reporting_client_comments (client_id, client_name, comment_count, last_sync, exported_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id) DO UPDATE SET
			client_name = $2, comment_count = $3, last_sync = $4, exported_at = $5`

	count := 0
	now := time.Now()
	for offset := int64(0); ; offset += listBatchSize {
		batch, err := s.clients.List(ctx, listBatchSize, offset)
		if err != nil {
			return count, fmt.Errorf("failed to list clients: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, client := range batch {
			commentCount, lastSync := 0, ""
			if blob, ok := comments.DecodeNotesBlob(client.InternalNotes); ok {
				commentCount = len(blob.ClientComments)
				lastSync = blob.LastSync
			}

			_, err := db.ExecContext(ctx, query,
				client.ID.Hex(), client.Name, commentCount, lastSync, now)
			if err != nil {
				s.logger.Warn("failed to export client stats",
					zap.String("clientId", client.ID.Hex()),
					zap.Error(err))
				continue
			}
			count++
		}

		if len(batch) < listBatchSize {
			break
		}
	}
	return count, nil
}
