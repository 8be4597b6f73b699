package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/infra"
)

const filePerm = 0o644

type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) map[pool.ID]*pool.Pool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no pool snapshot yet, starting empty", slog.String("path", s.path))
			return make(map[pool.ID]*pool.Pool)
		}
		_ = infra.WrapRepoErr(s.logger, infra.KindIOFailure, "read pool snapshot", err)
		return make(map[pool.ID]*pool.Pool)
	}

	pools, err := Decode(data)
	if err != nil {
		_ = infra.WrapRepoErr(s.logger, infra.KindCorruptDocument, "malformed pool snapshot, starting empty", err)
		return make(map[pool.ID]*pool.Pool)
	}

	s.logger.Info("pool snapshot loaded", slog.String("path", s.path), slog.Int("pools", len(pools)))
	return pools
}

// Save replaces the snapshot atomically: the document is written to a
// sibling temp file, synced, then renamed over the old one.
func (s *FileStore) Save(ctx context.Context, pools map[pool.ID]*pool.Pool) error {
	data, err := Encode(pools)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCorruptDocument, "encode pool snapshot", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindIOFailure, "create snapshot dir", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindIOFailure, "create temp snapshot", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return infra.WrapRepoErr(s.logger, infra.KindIOFailure, "write temp snapshot", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return infra.WrapRepoErr(s.logger, infra.KindIOFailure, "sync temp snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindIOFailure, "close temp snapshot", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindIOFailure, "chmod temp snapshot", err)
	}

	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindTimeout, "snapshot write deadline passed", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindIOFailure, "replace snapshot", err)
	}
	committed = true
	return nil
}
