// Package library holds the durable, ordered collection of records that
// makes up one named catalog.
//
// A Library is loaded once from its JSON file, mutated in memory and written
// back by Commit. A record's position in the backing sequence is its address:
// positions are stable for the life of the in-memory library except that
// DeleteAt shifts every later record down by one. An advisory file lock is
// held from Load (or Create) until Close, so only one process works on a
// library at a time.
package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/agentstation/mnemosyne/internal/fsutil"
	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/logging"
	"github.com/agentstation/mnemosyne/pkg/records"
)

// Library is an open catalog.
type Library struct {
	name    string
	path    string
	records []*records.Record
	dirty   bool
	lock    *flock.Flock
}

// Path returns the file path of the named library inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+constants.LibraryExtension)
}

// Load opens the library file at path. It fails with a NotFoundError when
// the file does not exist, a CorruptionError when it is not a JSON array of
// record objects, and a LockedError when another process holds the library.
func Load(path, name string) (*Library, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("library", name)
		}
		return nil, errors.WrapIO("stat", path, err)
	}

	lock, err := acquire(path, name)
	if err != nil {
		return nil, err
	}

	recs, err := readRecords(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	logging.Debug().
		Str("library", name).
		Str("path", path).
		Int("records", len(recs)).
		Msg("Loaded library")

	return &Library{
		name:    name,
		path:    path,
		records: recs,
		lock:    lock,
	}, nil
}

// Create writes a new library file containing recs and returns it open.
// It fails if a file already exists at path.
func Create(path, name string, recs ...*records.Record) (*Library, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, errors.WrapResource("create", "library", name, errors.ErrAlreadyExists)
	}

	lock, err := acquire(path, name)
	if err != nil {
		return nil, err
	}

	lib := &Library{
		name:    name,
		path:    path,
		records: make([]*records.Record, 0, len(recs)),
		lock:    lock,
	}
	for _, rec := range recs {
		if _, err := lib.Append(rec); err != nil {
			_ = lock.Unlock()
			return nil, err
		}
	}
	if err := lib.Commit(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	logging.Debug().
		Str("library", name).
		Str("path", path).
		Int("records", len(recs)).
		Msg("Created library")

	return lib, nil
}

func acquire(path, name string) (*flock.Flock, error) {
	lockPath := path + constants.LockExtension
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.WrapIO("lock", lockPath, err)
	}
	if !ok {
		return nil, &errors.LockedError{Library: name, LockPath: lockPath}
	}
	return lock, nil
}

func readRecords(path string) ([]*records.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.NewCorruptionError("json", path, "expected an array of records", nil)
	}

	var recs []*records.Record
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, errors.WrapCorruption("json", path, err)
	}

	for i, rec := range recs {
		if rec == nil {
			return nil, errors.NewCorruptionError("json", path, "null entry in record array", nil)
		}
		if err := rec.Validate(); err != nil {
			return nil, errors.NewCorruptionError("json", path, fmt.Sprintf("record %d: %v", i, err), err)
		}
		rec.Origin = i
	}
	if recs == nil {
		recs = make([]*records.Record, 0)
	}
	return recs, nil
}

// Name returns the library name.
func (l *Library) Name() string { return l.name }

// FilePath returns the library's file path.
func (l *Library) FilePath() string { return l.path }

// Len returns the number of records.
func (l *Library) Len() int { return len(l.records) }

// Dirty reports whether the library has changes that have not been committed.
func (l *Library) Dirty() bool { return l.dirty }

// At returns a copy of the record at pos, tagged with pos as its Origin.
func (l *Library) At(pos int) (*records.Record, error) {
	if err := l.check(pos); err != nil {
		return nil, err
	}
	return l.records[pos].Clone(), nil
}

// Range calls fn for each record in position order until fn returns false.
// The record passed to fn belongs to the library; Clone it to keep or change it.
func (l *Library) Range(fn func(pos int, rec *records.Record) bool) {
	for pos, rec := range l.records {
		if !fn(pos, rec) {
			return
		}
	}
}

// Append adds a copy of rec at the end of the backing sequence and returns
// its position. The caller's rec is not modified.
func (l *Library) Append(rec *records.Record) (int, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	c := rec.Clone()
	c.Origin = len(l.records)
	l.records = append(l.records, c)
	l.dirty = true
	return c.Origin, nil
}

// ReplaceAt overwrites the record at pos with a copy of rec's fields.
func (l *Library) ReplaceAt(pos int, rec *records.Record) error {
	if err := l.check(pos); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	c := rec.Clone()
	c.Origin = pos
	l.records[pos] = c
	l.dirty = true
	return nil
}

// DeleteAt removes the record at pos. Every later record moves down one
// position, so any result set built before the delete is stale.
func (l *Library) DeleteAt(pos int) error {
	if err := l.check(pos); err != nil {
		return err
	}

	l.records = append(l.records[:pos], l.records[pos+1:]...)
	for i := pos; i < len(l.records); i++ {
		l.records[i].Origin = i
	}
	l.dirty = true
	return nil
}

// Commit atomically replaces the library file with the in-memory records.
// On failure the file keeps its previous content and the library stays dirty.
func (l *Library) Commit() error {
	if err := fsutil.WriteJSONAtomic(l.path, l.records); err != nil {
		return errors.WrapResource("commit", "library", l.name, err)
	}
	l.dirty = false

	logging.Debug().
		Str("library", l.name).
		Int("records", len(l.records)).
		Msg("Committed library")
	return nil
}

// Close releases the library lock. It does not commit.
func (l *Library) Close() error {
	if l.lock == nil {
		return nil
	}
	err := l.lock.Unlock()
	l.lock = nil
	if err != nil {
		return errors.WrapIO("unlock", l.path+constants.LockExtension, err)
	}
	return nil
}

func (l *Library) check(pos int) error {
	if pos < 0 || pos >= len(l.records) {
		return errors.NewOutOfRangeError("library", pos, len(l.records))
	}
	return nil
}
