package job

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/config"
)

// WALCheckpointJob folds the sqlite write-ahead log back into the main
// database file so it does not grow without bound. It is a no-op on other
// drivers.
type WALCheckpointJob struct {
	db *sqlx.DB
}

func NewWALCheckpointJob(db *sqlx.DB) *WALCheckpointJob {
	return &WALCheckpointJob{db: db}
}

func (j *WALCheckpointJob) Name() string {
	return "sqlite_wal_checkpoint"
}

func (j *WALCheckpointJob) Run(ctx context.Context) error {
	if j.db == nil || j.db.DriverName() != config.DriverSQLite {
		return nil
	}
	var busy, walFrames, checkpointed int
	if err := j.db.QueryRowxContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").Scan(&busy, &walFrames, &checkpointed); err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	logutil.GetLogger(ctx).Debug("wal checkpoint done",
		zap.Int("busy", busy),
		zap.Int("wal_frames", walFrames),
		zap.Int("checkpointed", checkpointed),
	)
	return nil
}
