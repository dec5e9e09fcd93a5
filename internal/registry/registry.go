// Package registry maintains the catalog registry: the list of known
// libraries and which one opens by default.
//
// The registry file is a JSON array of {"name", "is_default"} objects kept
// in the data directory next to the library files.
package registry

import (
	"bytes"
	"encoding/json"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/agentstation/mnemosyne/internal/fsutil"
	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/logging"
	"github.com/agentstation/mnemosyne/pkg/records"
)

// Entry is one registered library.
type Entry struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// Registry is the in-memory registry backed by a file.
type Registry struct {
	path    string
	entries []Entry
}

// Load reads the registry at path. A missing file yields a NotFoundError.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("registry", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	entries, err := decode(path, data)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("path", path).
		Int("libraries", len(entries)).
		Msg("Loaded registry")

	return &Registry{path: path, entries: entries}, nil
}

// LoadOrEmpty reads the registry at path, returning an empty registry
// bound to path when the file does not exist yet.
func LoadOrEmpty(path string) (*Registry, error) {
	r, err := Load(path)
	if errors.IsNotFound(err) {
		return &Registry{path: path}, nil
	}
	return r, err
}

func decode(path string, data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewCorruptionError("json", path, "empty registry", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.WrapCorruption("json", path, err)
	}
	if entries == nil {
		return nil, errors.NewCorruptionError("json", path, "expected an array of libraries", nil)
	}

	seen := make(map[string]bool, len(entries))
	defaults := 0
	for _, e := range entries {
		if err := ValidateName(e.Name); err != nil {
			return nil, errors.NewCorruptionError("json", path, err.Error(), err)
		}
		if seen[e.Name] {
			return nil, errors.NewCorruptionError("json", path, "duplicate library "+e.Name, nil)
		}
		seen[e.Name] = true
		if e.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, errors.NewCorruptionError("json", path, "more than one default library", nil)
	}
	return entries, nil
}

// ValidateName checks that name can serve as a library name and file stem.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.NewValidationError("library name", name, "must not be empty")
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return errors.NewValidationError("library name", name, "must not contain spaces")
	case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
		return errors.NewValidationError("library name", name, "must not be a path")
	}
	return nil
}

// Path returns the registry file path.
func (r *Registry) Path() string {
	return r.path
}

// Entries returns the registered libraries in registration order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of registered libraries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Default returns the default library entry, if any.
func (r *Registry) Default() (Entry, bool) {
	for _, e := range r.entries {
		if e.IsDefault {
			return e, true
		}
	}
	return Entry{}, false
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	return r.index(name) >= 0
}

func (r *Registry) index(name string) int {
	for i, e := range r.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Add registers name. The first library registered becomes the default, as
// does any library added with makeDefault. Changes are in memory until Save.
func (r *Registry) Add(name string, makeDefault bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if r.Has(name) {
		return errors.WrapResource("register", "library", name, errors.ErrAlreadyExists)
	}

	r.entries = append(r.entries, Entry{Name: name})
	if makeDefault || len(r.entries) == 1 {
		return r.SetDefault(name)
	}
	return nil
}

// CreateLibrary writes a new library holding recs into dataDir, creating the
// directory if needed, then registers and saves it. On failure the library
// file is removed and the registry is left as it was. The returned library
// is open and must be closed.
func (r *Registry) CreateLibrary(dataDir, name string, makeDefault bool, recs ...*records.Record) (*library.Library, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if r.Has(name) {
		return nil, errors.WrapResource("create", "library", name, errors.ErrAlreadyExists)
	}
	if err := os.MkdirAll(dataDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dataDir, err)
	}

	path := library.Path(dataDir, name)
	lib, err := library.Create(path, name, recs...)
	if err != nil {
		return nil, err
	}

	saved := slices.Clone(r.entries)
	err = r.Add(name, makeDefault)
	if err == nil {
		err = r.Save()
	}
	if err != nil {
		r.entries = saved
		_ = lib.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return lib, nil
}

// Remove unregisters name. Removing the default leaves no default.
func (r *Registry) Remove(name string) error {
	i := r.index(name)
	if i < 0 {
		return errors.NewNotFoundError("library", name)
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return nil
}

// SetDefault marks name as the only default library.
func (r *Registry) SetDefault(name string) error {
	i := r.index(name)
	if i < 0 {
		return errors.NewNotFoundError("library", name)
	}
	for j := range r.entries {
		r.entries[j].IsDefault = j == i
	}
	return nil
}

// Save writes the registry atomically.
func (r *Registry) Save() error {
	entries := r.entries
	if entries == nil {
		entries = []Entry{}
	}
	if err := fsutil.WriteJSONAtomic(r.path, entries); err != nil {
		return errors.WrapResource("save", "registry", r.path, err)
	}
	logging.Debug().
		Str("path", r.path).
		Int("libraries", len(entries)).
		Msg("Saved registry")
	return nil
}
