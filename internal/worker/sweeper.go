// Package worker hosts background jobs that run alongside the HTTP server.
package worker

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/metrics"
)

// Sweeper reclaims expired job directories. Successful runs clean up after
// themselves; failed runs leave artifacts behind for inspection, and the
// sweeper removes them once they outlive the artifact TTL.
type Sweeper struct {
	workDir string
	ttl     time.Duration
	spec    string
	cron    *cron.Cron
	logger  *logger.Logger
}

// NewSweeper creates an artifact sweeper from media config.
func NewSweeper(cfg config.MediaConfig, log *logger.Logger) *Sweeper {
	return &Sweeper{
		workDir: cfg.WorkDir,
		ttl:     cfg.ArtifactTTL,
		spec:    cfg.SweepSpec,
		logger:  log,
	}
}

// Start schedules the periodic sweep.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, func() {
		if err := s.Sweep(); err != nil {
			s.logger.ErrorWithErr(err, "Artifact sweep failed")
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Infof("Artifact sweeper scheduled (%s, ttl %s)", s.spec, s.ttl)
	return nil
}

// Stop halts the schedule, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep removes job directories whose last modification is older than the
// TTL.
func (s *Sweeper) Sweep() error {
	entries, err := os.ReadDir(s.workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-s.ttl)
	removed := 0

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.workDir, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				s.logger.WithError(err).Warnf("Failed to remove expired job dir %s", entry.Name())
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		metrics.RecordArtifactsSwept(removed)
		s.logger.Infof("Swept %d expired job directories", removed)
	}

	return nil
}
