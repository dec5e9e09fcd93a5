// Package results builds and addresses result sets: the ordered,
// position-tagged lists of records a user sees after a search or list.
//
// Users address records only by their index in the current result set.
// Every entry carries the library position (Origin) it was read from, and
// writes go back to that position, never to a position recomputed from the
// entry's index or found by searching again. Two records can hold identical
// values, so re-deriving the position would be ambiguous.
package results

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/records"
)

// Query describes how a result set was produced. A zero Field means the
// whole library was listed.
type Query struct {
	Field records.Field
	Terms string
}

// All reports whether the query lists every record.
func (q Query) All() bool {
	return q.Field == ""
}

// String renders the query for display and logs.
func (q Query) String() string {
	if q.All() {
		return "all records"
	}
	return fmt.Sprintf("%s contains %q", q.Field, q.Terms)
}

// Entry is one result: a record copy and the library position it came from.
type Entry struct {
	Origin int
	Record *records.Record
}

// Set is an ordered result set. The zero value is an empty set.
type Set struct {
	library string
	query   Query
	entries []Entry
}

// Search returns the records of lib whose field matches query, in library
// order. Rating matches by integer equality and fails with a ValidationError
// when query is not an integer; all other fields match by case-insensitive
// substring. No matches yields an empty set, not an error.
func Search(lib *library.Library, field records.Field, query string) (*Set, error) {
	match, err := matcher(field, query)
	if err != nil {
		return nil, err
	}
	return build(lib, Query{Field: field, Terms: query}, match), nil
}

// All returns every record of lib in library order.
func All(lib *library.Library) *Set {
	return build(lib, Query{}, nil)
}

// Run executes q against lib.
func Run(lib *library.Library, q Query) (*Set, error) {
	if q.All() {
		return All(lib), nil
	}
	return Search(lib, q.Field, q.Terms)
}

func matcher(field records.Field, query string) (func(*records.Record) bool, error) {
	if !field.Valid() {
		return nil, errors.NewValidationError("field", string(field), "unknown field")
	}

	if field == records.Rating {
		want, err := strconv.Atoi(strings.TrimSpace(query))
		if err != nil {
			return nil, errors.NewValidationError(field.String(), query, "search value must be an integer")
		}
		return func(r *records.Record) bool {
			got, ok := r.Rating()
			return ok && got == want
		}, nil
	}

	fold := cases.Fold()
	needle := fold.String(query)
	return func(r *records.Record) bool {
		return strings.Contains(fold.String(r.Get(field)), needle)
	}, nil
}

func build(lib *library.Library, q Query, match func(*records.Record) bool) *Set {
	s := &Set{library: lib.Name(), query: q}
	lib.Range(func(pos int, rec *records.Record) bool {
		if match == nil || match(rec) {
			c := rec.Clone()
			c.Origin = pos
			s.entries = append(s.entries, Entry{Origin: pos, Record: c})
		}
		return true
	})
	return s
}

// Len returns the number of entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Library returns the name of the library the set was built from.
func (s *Set) Library() string {
	if s == nil {
		return ""
	}
	return s.library
}

// Query returns the query that produced the set.
func (s *Set) Query() Query {
	if s == nil {
		return Query{}
	}
	return s.query
}

// Entries returns the entries in order. Records are copies.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.entries[i]
		out = append(out, Entry{Origin: e.Origin, Record: e.Record.Clone()})
	}
	return out
}

// Resolve returns the entry at index i with a copy of its record.
func (s *Set) Resolve(i int) (Entry, error) {
	if i < 0 || i >= s.Len() {
		return Entry{}, errors.NewOutOfRangeError("result set", i, s.Len())
	}
	e := s.entries[i]
	return Entry{Origin: e.Origin, Record: e.Record.Clone()}, nil
}

// Replace swaps the record shown at index i for rec after an edit. The
// entry keeps its Origin.
func (s *Set) Replace(i int, rec *records.Record) error {
	if i < 0 || i >= s.Len() {
		return errors.NewOutOfRangeError("result set", i, s.Len())
	}
	c := rec.Clone()
	c.Origin = s.entries[i].Origin
	s.entries[i].Record = c
	return nil
}

// Rebuild re-runs the set's query against lib and returns the fresh set.
func (s *Set) Rebuild(lib *library.Library) (*Set, error) {
	return Run(lib, s.Query())
}
