package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fairdesk/fairdesk/pkg/crypto"
)

// Record is the persisted shape of a session. Token and user travel as
// one unit; storage implementations must write and remove them together.
type Record struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Storage persists the session record between process runs.
type Storage interface {
	Load() (Record, bool, error)
	Save(Record) error
	Clear() error
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "fairdesk", "session.json"), nil
}

// FileStorage keeps the session record in a single JSON file. The pair
// invariant holds because the whole record is one write, done via a temp
// file and rename.
type FileStorage struct {
	path string
}

// NewFileStorage constructs a FileStorage at the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the persisted record. The second return is false when no
// session has been saved.
func (f *FileStorage) Load() (Record, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("read session file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("parse session file: %w", err)
	}
	return rec, true, nil
}

// Save writes the record atomically with owner-only permissions.
func (f *FileStorage) Save(rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return writeFileAtomic(f.path, data)
}

// Clear removes the session file. Missing files are not an error.
func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// EncryptedFileStorage is FileStorage with the record sealed under a
// caller-supplied secret, for hosts where a plaintext bearer token on
// disk is unacceptable.
type EncryptedFileStorage struct {
	path   string
	secret string
}

// NewEncryptedFileStorage constructs an EncryptedFileStorage.
func NewEncryptedFileStorage(path, secret string) *EncryptedFileStorage {
	return &EncryptedFileStorage{path: path, secret: secret}
}

// Load reads and decrypts the persisted record.
func (e *EncryptedFileStorage) Load() (Record, bool, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("read session file: %w", err)
	}
	plain, err := crypto.DecryptToString(e.secret, data)
	if err != nil {
		return Record{}, false, fmt.Errorf("decrypt session file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(plain), &rec); err != nil {
		return Record{}, false, fmt.Errorf("parse session file: %w", err)
	}
	return rec, true, nil
}

// Save encrypts and writes the record atomically.
func (e *EncryptedFileStorage) Save(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	sealed, err := crypto.EncryptString(e.secret, string(data))
	if err != nil {
		return fmt.Errorf("encrypt session: %w", err)
	}
	return writeFileAtomic(e.path, sealed)
}

// Clear removes the session file. Missing files are not an error.
func (e *EncryptedFileStorage) Clear() error {
	if err := os.Remove(e.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
