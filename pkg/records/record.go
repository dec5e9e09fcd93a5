// Package records defines a catalog record ("text") with a fixed field set,
// its validation rules, and its JSON form in library files.
//
// A Record carries the position it occupies in its library's backing
// sequence. That position is how edits find their way back to the library
// after the record has been handed out through a result set.
package records

import (
	"strconv"
	"strings"

	"github.com/agentstation/mnemosyne/pkg/errors"
)

// Unattached is the Origin of a record that has not been appended to a library.
const Unattached = -1

// Record is one catalog entry.
type Record struct {
	// Origin is the record's position in its library, or Unattached.
	Origin int

	title        string
	attribution  string
	rating       int
	hasRating    bool
	editionNotes string
	comments     string
}

// New builds an unattached record from collected values. Title and
// Attribution must be present.
func New(values Values) (*Record, error) {
	r, err := (&Record{Origin: Unattached}).Apply(values)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// SetField replaces the value of a single field. On error the record is
// left unchanged.
func (r *Record) SetField(field Field, value string) error {
	value = strings.TrimSpace(value)

	switch field {
	case Title, Attribution:
		if value == "" {
			return errors.NewValidationError(field.String(), value, "must not be empty")
		}
	case Rating:
		if value == "" {
			r.rating, r.hasRating = 0, false
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.NewValidationError(field.String(), value, "must be an integer")
		}
		r.rating, r.hasRating = n, true
		return nil
	case EditionNotes, Comments:
	default:
		return errors.NewValidationError("field", string(field), "unknown field")
	}

	r.setText(field, value)
	return nil
}

func (r *Record) setText(field Field, value string) {
	switch field {
	case Title:
		r.title = value
	case Attribution:
		r.attribution = value
	case EditionNotes:
		r.editionNotes = value
	case Comments:
		r.comments = value
	}
}

// Apply sets several fields on a copy of r and returns the copy. The first
// failing field aborts the whole update and r is never touched.
func (r *Record) Apply(values Values) (*Record, error) {
	for field := range values {
		if !field.Valid() {
			return nil, errors.NewValidationError("field", string(field), "unknown field")
		}
	}

	c := r.Clone()
	for _, field := range Fields {
		value, ok := values[field]
		if !ok {
			continue
		}
		if err := c.SetField(field, value); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Validate checks the record invariant: Title and Attribution are non-empty.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.title) == "" {
		return errors.NewValidationError(Title.String(), r.title, "must not be empty")
	}
	if strings.TrimSpace(r.attribution) == "" {
		return errors.NewValidationError(Attribution.String(), r.attribution, "must not be empty")
	}
	return nil
}

// Get returns the text form of a field.
func (r *Record) Get(field Field) string {
	switch field {
	case Title:
		return r.title
	case Attribution:
		return r.attribution
	case Rating:
		if !r.hasRating {
			return ""
		}
		return strconv.Itoa(r.rating)
	case EditionNotes:
		return r.editionNotes
	case Comments:
		return r.comments
	}
	return ""
}

// Values returns every field in text form.
func (r *Record) Values() Values {
	v := make(Values, len(Fields))
	for _, field := range Fields {
		v[field] = r.Get(field)
	}
	return v
}

// Title returns the record title.
func (r *Record) Title() string { return r.title }

// Attribution returns the author, director or other credited party.
func (r *Record) Attribution() string { return r.attribution }

// Rating returns the rating and whether one is set.
func (r *Record) Rating() (int, bool) { return r.rating, r.hasRating }

// EditionNotes returns the edition notes.
func (r *Record) EditionNotes() string { return r.editionNotes }

// Comments returns the comments.
func (r *Record) Comments() string { return r.comments }

// Attached reports whether the record has a library position.
func (r *Record) Attached() bool { return r.Origin != Unattached }

// Clone returns an independent copy, Origin included.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Equal reports whether two records hold the same field values. Origin is ignored.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.title == other.title &&
		r.attribution == other.attribution &&
		r.hasRating == other.hasRating &&
		r.rating == other.rating &&
		r.editionNotes == other.editionNotes &&
		r.comments == other.comments
}

// String renders "Title by Attribution".
func (r *Record) String() string {
	return r.title + " by " + r.attribution
}
