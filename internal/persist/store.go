package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/pslog"
	"pkt.systems/workbench/schema"
)

// Store persists workspace snapshots to disk, one file per workspace.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Load reads a workspace snapshot from disk. A missing snapshot is not an
// error.
func (s *Store) Load(workspace schema.WorkspaceID) (schema.WorkspaceSnapshot, bool, error) {
	path := s.pathForWorkspace(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("state load miss", "workspace", workspace)
			}
			return schema.WorkspaceSnapshot{}, false, nil
		}
		if s.log != nil {
			s.log.Warn("state load failed", "workspace", workspace, "err", err)
		}
		return schema.WorkspaceSnapshot{}, false, err
	}
	var snapshot schema.WorkspaceSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		if s.log != nil {
			s.log.Warn("state load failed", "workspace", workspace, "err", err)
		}
		return schema.WorkspaceSnapshot{}, false, err
	}
	if s.log != nil {
		s.log.Debug("state load ok", "workspace", workspace, "groups", len(snapshot.Groups))
	}
	return snapshot, true, nil
}

// Save writes a workspace snapshot to disk atomically.
func (s *Store) Save(workspace schema.WorkspaceID, snapshot schema.WorkspaceSnapshot) error {
	path := s.pathForWorkspace(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "state-*.json")
	if err != nil {
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", workspace, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("state save ok", "workspace", workspace, "groups", len(snapshot.Groups))
	}
	return nil
}

// Delete removes a workspace's persisted snapshot if present.
func (s *Store) Delete(workspace schema.WorkspaceID) error {
	err := os.Remove(s.pathForWorkspace(workspace))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		if s.log != nil {
			s.log.Warn("state delete failed", "workspace", workspace, "err", err)
		}
		return err
	}
	return nil
}

func (s *Store) pathForWorkspace(workspace schema.WorkspaceID) string {
	name := sanitize(string(workspace))
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(s.dir, name+".json")
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
