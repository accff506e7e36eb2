package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/kryptograf"
	"pkt.systems/kryptograf/keymgmt"
	"pkt.systems/pslog"
	"pkt.systems/workbench/schema"
)

const (
	backupExt        = ".enc"
	descriptorPrefix = "workbench:backup:"
)

// Store keeps encrypted hot-exit backups of unsaved editor contents, one
// file per dirty editor, keyed by the editor's resource. Content is
// encrypted at rest with per-workspace material minted from the key
// store.
type Store struct {
	storePath string
	dir       string
	log       pslog.Logger
}

// NewStore initializes the backup store and ensures the root key exists.
func NewStore(storePath, dir string) (*Store, error) {
	return NewStoreWithLogger(storePath, dir, nil)
}

// NewStoreWithLogger initializes the backup store with logging.
func NewStoreWithLogger(storePath, dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(storePath) == "" {
		return nil, errors.New("backup key store path is required")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("backup directory is required")
	}
	if err := ensureKeyStore(storePath, logger); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("backup_store", storePath, "backup_dir", dir)
	}
	return &Store{storePath: storePath, dir: dir, log: logger}, nil
}

func ensureKeyStore(path string, logger pslog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		if logger != nil {
			logger.Warn("backup key store ensure failed", "err", err)
		}
		return err
	}
	store, err := keymgmt.LoadProto(path)
	if err != nil {
		if logger != nil {
			logger.Warn("backup key store ensure failed", "err", err)
		}
		return err
	}
	if _, err := store.EnsureRootKey(); err != nil {
		if logger != nil {
			logger.Warn("backup key store ensure failed", "err", err)
		}
		return err
	}
	if err := store.Commit(); err != nil {
		if logger != nil {
			logger.Warn("backup key store ensure failed", "err", err)
		}
		return err
	}
	return nil
}

// Save writes the backup for a dirty editor.
func (s *Store) Save(workspace schema.WorkspaceID, key string, content []byte) error {
	material, root, err := s.materialForWorkspace(workspace)
	if err != nil {
		return err
	}
	kg := kryptograf.New(root)

	dir := s.workspaceDir(workspace)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	tmp, err := os.CreateTemp(dir, "backup-*.enc")
	if err != nil {
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	writer, err := kg.EncryptWriter(tmp, material)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if _, err := writer.Write(content); err != nil {
		_ = writer.Close()
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if err := writer.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if err := tmp.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if err := os.Rename(tmpPath, s.backupPath(workspace, key)); err != nil {
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("backup save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("backup save ok", "workspace", workspace, "bytes", len(content))
	}
	return nil
}

// Load reads a backup. A missing backup is not an error.
func (s *Store) Load(workspace schema.WorkspaceID, key string) ([]byte, bool, error) {
	path := s.backupPath(workspace, key)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		if s.log != nil {
			s.log.Warn("backup load failed", "workspace", workspace, "err", err)
		}
		return nil, false, err
	}
	defer func() { _ = file.Close() }()
	material, root, err := s.materialForWorkspace(workspace)
	if err != nil {
		return nil, false, err
	}
	kg := kryptograf.New(root)
	reader, err := kg.DecryptReader(file, material)
	if err != nil {
		if s.log != nil {
			s.log.Warn("backup load failed", "workspace", workspace, "err", err)
		}
		return nil, false, err
	}
	defer func() { _ = reader.Close() }()
	content, err := io.ReadAll(reader)
	if err != nil {
		if s.log != nil {
			s.log.Warn("backup load failed", "workspace", workspace, "err", err)
		}
		return nil, false, err
	}
	if s.log != nil {
		s.log.Debug("backup load ok", "workspace", workspace, "bytes", len(content))
	}
	return content, true, nil
}

// Discard removes the backup for an editor, if any.
func (s *Store) Discard(workspace schema.WorkspaceID, key string) error {
	err := os.Remove(s.backupPath(workspace, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		if s.log != nil {
			s.log.Warn("backup discard failed", "workspace", workspace, "err", err)
		}
		return err
	}
	return nil
}

// DiscardWorkspace removes all backups for a workspace.
func (s *Store) DiscardWorkspace(workspace schema.WorkspaceID) error {
	err := os.RemoveAll(s.workspaceDir(workspace))
	if err != nil {
		if s.log != nil {
			s.log.Warn("backup discard failed", "workspace", workspace, "err", err)
		}
		return err
	}
	return nil
}

func (s *Store) materialForWorkspace(workspace schema.WorkspaceID) (keymgmt.Material, keymgmt.RootKey, error) {
	store, err := keymgmt.LoadProto(s.storePath)
	if err != nil {
		if s.log != nil {
			s.log.Warn("backup material load failed", "workspace", workspace, "err", err)
		}
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	root, err := store.EnsureRootKey()
	if err != nil {
		if s.log != nil {
			s.log.Warn("backup material load failed", "workspace", workspace, "err", err)
		}
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	descName := fmt.Sprintf("%s%s", descriptorPrefix, workspace)
	material, err := store.EnsureDescriptor(descName, root, []byte(descName))
	if err != nil {
		if s.log != nil {
			s.log.Warn("backup material ensure failed", "workspace", workspace, "err", err)
		}
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	if err := store.Commit(); err != nil {
		if s.log != nil {
			s.log.Warn("backup material commit failed", "workspace", workspace, "err", err)
		}
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	return material, root, nil
}

func (s *Store) workspaceDir(workspace schema.WorkspaceID) string {
	name := sanitize(string(workspace))
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(s.dir, name)
}

func (s *Store) backupPath(workspace schema.WorkspaceID, key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.workspaceDir(workspace), hex.EncodeToString(sum[:16])+backupExt)
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
