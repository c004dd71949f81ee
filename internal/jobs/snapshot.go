// File: internal/jobs/snapshot.go
package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// snapshotRetention is how many snapshot files are kept per state key.
const snapshotRetention = 14

// SnapshotJob periodically copies the persisted state blob into SNAPSHOT_DIR.
type SnapshotJob struct {
	store         *store.Store
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
	now           func() time.Time
}

func NewSnapshotJob(s *store.Store, logger *zap.Logger, cfg *config.Config) *SnapshotJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &SnapshotJob{
		store:         s,
		logger:        logger.Named("SnapshotJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
		now:           time.Now,
	}
}

// SetupAndStart schedules the job. An empty schedule disables it.
func (j *SnapshotJob) SetupAndStart() error {
	spec := j.cfg.SnapshotJobSchedule
	if spec == "" {
		j.logger.Warn("SNAPSHOT_JOB_SCHEDULE is empty; state snapshots are disabled")
		return nil
	}
	jobID, err := j.cronScheduler.AddFunc(spec, j.runJob)
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job %q: %w", spec, err)
	}
	j.logger.Info("Snapshot job scheduled", zap.String("spec", spec), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

func (j *SnapshotJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	path, err := j.Run(ctx)
	switch {
	case err != nil:
		j.logger.Error("Snapshot job run failed", zap.Error(err))
	case path == "":
		j.logger.Info("Nothing persisted yet; snapshot skipped")
	default:
		j.logger.Info("Snapshot written", zap.String("path", path))
	}
}

// Run writes one snapshot and prunes old ones. It returns the path written, or
// "" when no state has been persisted yet.
func (j *SnapshotJob) Run(ctx context.Context) (string, error) {
	raw, err := j.store.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", nil
	}
	if err := os.MkdirAll(j.cfg.SnapshotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", j.store.Key(), j.now().UTC().Format("20060102T150405.000000000Z"))
	path := filepath.Join(j.cfg.SnapshotDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	if err := j.prune(); err != nil {
		j.logger.Warn("Failed to prune old snapshots", zap.Error(err))
	}
	return path, nil
}

func (j *SnapshotJob) prune() error {
	matches, err := filepath.Glob(filepath.Join(j.cfg.SnapshotDir, j.store.Key()+"-*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= snapshotRetention {
		return nil
	}
	// Timestamps in the names sort lexically.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-snapshotRetention] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Stop waits up to ten seconds for a running snapshot to finish.
func (j *SnapshotJob) Stop() {
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Snapshot scheduler stopped")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Snapshot scheduler stop timed out")
	}
}
