package backups

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
	apperrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"go.uber.org/multierr"
)

// Service archives the store file into timestamped zip files under the
// configured backup directory.
type Service struct {
	db     config.DBConfig
	dir    string
	logg   *logger.Logger
	nowFor func() time.Time
}

// NewService builds a backup service for the configured store.
func NewService(dbCfg config.DBConfig, backupCfg config.BackupConfig, logg *logger.Logger) *Service {
	return &Service{
		db:     dbCfg,
		dir:    backupCfg.Dir,
		logg:   logg,
		nowFor: time.Now,
	}
}

// Run writes backup_<yyyymmdd_hhmmss>.zip under the backup directory and
// returns its path. The archive holds the store file under
// <parent-dir>/<file> so restores keep their original layout.
func (s *Service) Run(ctx context.Context) (string, error) {
	if !s.db.IsSQLite() || s.db.Path == "" {
		return "", apperrors.New(apperrors.CodeValidation, "configured store has no backing file")
	}

	source, err := filepath.Abs(s.db.Path)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, err, "resolve store path")
	}

	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.New(apperrors.CodeNotFound, "store file does not exist")
		}
		return "", apperrors.Wrap(apperrors.CodeStorage, err, "stat store file")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, err, "create backup directory")
	}

	name := "backup_" + s.nowFor().Format("20060102_150405") + ".zip"
	target := filepath.Join(s.dir, name)

	if err := s.writeArchive(source, target); err != nil {
		return "", err
	}

	if s.logg != nil {
		ctx = s.logg.WithField(ctx, "backup_file", target)
		s.logg.Info(ctx, "backup written")
	}
	return target, nil
}

func (s *Service) writeArchive(source, target string) (err error) {
	out, err := os.Create(target)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "create backup archive")
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	zw := zip.NewWriter(out)
	defer func() {
		err = multierr.Append(err, zw.Close())
	}()

	arcname := filepath.ToSlash(filepath.Join(
		filepath.Base(filepath.Dir(source)),
		filepath.Base(source),
	))
	entry, err := zw.Create(arcname)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "create archive entry")
	}

	in, err := os.Open(source)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "open store file")
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	if _, err := io.Copy(entry, in); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "copy store file")
	}
	return nil
}
