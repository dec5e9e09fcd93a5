package records

import (
	"strings"

	"github.com/agentstation/mnemosyne/pkg/errors"
)

// Field names one of the fixed record fields. The string value is the key
// used in library files.
type Field string

// The fixed field set, in display and file order.
const (
	Title        Field = "Title"
	Attribution  Field = "Attribution"
	Rating       Field = "Rating"
	EditionNotes Field = "Edition Notes"
	Comments     Field = "Comments"
)

// Fields lists every field in display and file order.
var Fields = []Field{Title, Attribution, Rating, EditionNotes, Comments}

var fieldCodes = map[string]Field{
	"t": Title,
	"a": Attribution,
	"r": Rating,
	"n": EditionNotes,
	"c": Comments,
}

// String returns the field's file key.
func (f Field) String() string {
	return string(f)
}

// Valid reports whether f is one of the fixed fields.
func (f Field) Valid() bool {
	switch f {
	case Title, Attribution, Rating, EditionNotes, Comments:
		return true
	}
	return false
}

// Code returns the single-letter abbreviation used on the command line.
func (f Field) Code() string {
	for code, field := range fieldCodes {
		if field == f {
			return code
		}
	}
	return ""
}

// Required reports whether the field must be non-empty.
func (f Field) Required() bool {
	return f == Title || f == Attribution
}

// Multiline reports whether the field holds free text that may span lines.
func (f Field) Multiline() bool {
	return f == EditionNotes || f == Comments
}

// ParseField resolves a field code ("t", "a", "r", "n", "c") or a full
// field name, case-insensitively.
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := fieldCodes[key]; ok {
		return f, nil
	}
	for _, f := range Fields {
		if strings.ToLower(string(f)) == key {
			return f, nil
		}
	}
	return "", errors.NewValidationError("field code", s, "expected one of t, a, r, n, c")
}

// Values maps fields to their raw text form. Rating is carried as its
// decimal string; an empty Rating means no rating.
type Values map[Field]string
