// Package credstore implements the persisted, schema-validated
// credential file (spec §4.2, §3 "StoredCredentials"). Writes use the
// teacher's temp-file + rename pattern (mode 0600 before and after
// rename) so a reader never observes a partial file.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const schemaVersion = 1

// Source identifies how a StoredCredentials record was produced.
type Source string

const (
	SourceInitial      Source = "initial"
	SourceAutoRefresh  Source = "auto-refresh"
	SourceManualRefresh Source = "manual-refresh"
)

// Credentials is the user-mode token/cookie pair plus workspace.
type Credentials struct {
	Token     string `json:"token" validate:"required,prefix=xoxc-"`
	Cookie    string `json:"cookie" validate:"required,prefix=xoxd-"`
	Workspace string `json:"workspace" validate:"required"`
}

// Metadata tracks the provenance of a stored credential record.
type Metadata struct {
	LastRefreshed string `json:"lastRefreshed" validate:"required"`
	RefreshCount  int    `json:"refreshCount" validate:"gte=0"`
	Source        Source `json:"source" validate:"oneof=initial auto-refresh manual-refresh"`
}

// Stored is the full persisted record (spec §3 "StoredCredentials").
type Stored struct {
	Version     int         `json:"version" validate:"eq=1"`
	Credentials Credentials `json:"credentials" validate:"required"`
	Metadata    Metadata    `json:"metadata" validate:"required"`
}

// StorageError wraps any load/save failure per spec §4.2.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("STORAGE_ERROR: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error { return &StorageError{Op: op, Err: err} }

var validate = func() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("prefix", func(fl validator.FieldLevel) bool {
		prefix := fl.Param()
		return strings.HasPrefix(fl.Field().String(), prefix)
	})
	return v
}()

// Store is a file-backed CredentialStore.
type Store struct {
	path string
}

// New returns a Store persisting to path.
func New(path string) *Store {
	return &Store{path: path}
}

// Exists reports whether a credentials file is present at path.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and validates the stored record.
func (s *Store) Load() (Stored, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Stored{}, storageErr("load", err)
	}

	var rec Stored
	if err := json.Unmarshal(data, &rec); err != nil {
		return Stored{}, storageErr("load: malformed json", err)
	}
	if rec.Version != schemaVersion {
		return Stored{}, storageErr("load", fmt.Errorf("unsupported schema version %d", rec.Version))
	}
	if err := validateRecord(rec); err != nil {
		return Stored{}, storageErr("load: schema violation", err)
	}
	return rec, nil
}

// Save validates and atomically persists rec: write to
// "<path>.tmp.<pid>", chmod 0600, rename onto path, then re-chmod 0600
// to cover a pre-existing target with looser permissions. The parent
// directory is created (mode 0700) if missing. The temp file is
// removed on any failure along the way.
func (s *Store) Save(rec Stored) error {
	rec.Version = schemaVersion
	if err := validateRecord(rec); err != nil {
		return storageErr("save: schema violation", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return storageErr("save: mkdir", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return storageErr("save: marshal", err)
	}

	tmp := s.path + ".tmp." + strconv.Itoa(os.Getpid())
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		_ = os.Remove(tmp)
		return storageErr("save: write temp", err)
	}
	if err := os.Chmod(tmp, 0600); err != nil {
		_ = os.Remove(tmp)
		return storageErr("save: chmod temp", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return storageErr("save: rename", err)
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		return storageErr("save: chmod target", err)
	}
	return nil
}

// CreateInitial builds and saves the first StoredCredentials record
// for a freshly seeded (env-provided) user-mode credential.
func (s *Store) CreateInitial(token, cookie, workspace string) (Stored, error) {
	rec := Stored{
		Version: schemaVersion,
		Credentials: Credentials{
			Token:     token,
			Cookie:    cookie,
			Workspace: workspace,
		},
		Metadata: Metadata{
			LastRefreshed: time.Now().UTC().Format(time.RFC3339),
			RefreshCount:  0,
			Source:        SourceInitial,
		},
	}
	if err := s.Save(rec); err != nil {
		return Stored{}, err
	}
	return rec, nil
}

func validateRecord(rec Stored) error {
	if err := validate.Struct(rec); err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, rec.Metadata.LastRefreshed); err != nil {
		return fmt.Errorf("lastRefreshed is not a valid RFC3339 instant: %w", err)
	}
	return nil
}
