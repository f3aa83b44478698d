// Package backup dumps the database and prunes old dumps.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/krodas7/constructora-backend/internal/infrastructure/config"
)

// Runner creates database dumps in the backup directory and enforces the
// retention policy. Postgres dumps shell out to pg_dump; sqlite copies the
// database file.
type Runner struct {
	db     config.DatabaseConfig
	dir    string
	logger *zap.Logger
}

// NewRunner creates a backup runner
func NewRunner(db config.DatabaseConfig, dir string, logger *zap.Logger) *Runner {
	return &Runner{db: db, dir: dir, logger: logger.Named("backup")}
}

// Run creates one dump and returns its path. With dryRun it only reports what
// would be written.
func (r *Runner) Run(ctx context.Context, dryRun bool) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	var target string
	switch r.db.Driver {
	case "sqlite":
		target = filepath.Join(r.dir, fmt.Sprintf("backup-%s.db", stamp))
	default:
		target = filepath.Join(r.dir, fmt.Sprintf("backup-%s.sql", stamp))
	}

	if dryRun {
		r.logger.Info("dry run, would create dump", zap.String("path", target))
		return target, nil
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	switch r.db.Driver {
	case "sqlite":
		if err := copyFile(r.db.SQLitePath, target); err != nil {
			return "", fmt.Errorf("sqlite backup failed: %w", err)
		}
	default:
		if err := r.pgDump(ctx, target); err != nil {
			return "", err
		}
	}

	r.logger.Info("dump created", zap.String("path", target))
	return target, nil
}

// pgDump shells out to pg_dump writing to the target file
func (r *Runner) pgDump(ctx context.Context, target string) error {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"--host", r.db.Host,
		"--port", fmt.Sprintf("%d", r.db.Port),
		"--username", r.db.User,
		"--dbname", r.db.DBName,
		"--no-password",
		"--file", target,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+r.db.Password)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pg_dump failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Prune removes the oldest dumps beyond the retention count and returns the
// removed paths. With dryRun nothing is deleted.
func (r *Runner) Prune(retention int, dryRun bool) ([]string, error) {
	if retention <= 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dumps []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), "backup-") {
			dumps = append(dumps, e.Name())
		}
	}
	// Timestamped names sort chronologically
	sort.Strings(dumps)

	if len(dumps) <= retention {
		return nil, nil
	}

	var removed []string
	for _, name := range dumps[:len(dumps)-retention] {
		path := filepath.Join(r.dir, name)
		if dryRun {
			r.logger.Info("dry run, would remove dump", zap.String("path", path))
		} else {
			if err := os.Remove(path); err != nil {
				return removed, err
			}
			r.logger.Info("dump removed", zap.String("path", path))
		}
		removed = append(removed, path)
	}
	return removed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
