package records

import (
	"bytes"
	"encoding/json"

	"github.com/agentstation/mnemosyne/pkg/errors"
)

// fileRecord is the on-disk shape of a record. Field order here is the key
// order written to library files.
type fileRecord struct {
	Title        string `json:"Title"`
	Attribution  string `json:"Attribution"`
	Rating       *int   `json:"Rating,omitempty"`
	EditionNotes string `json:"Edition Notes"`
	Comments     string `json:"Comments"`
}

// MarshalJSON writes the fixed field keys. Rating is omitted when unset.
func (r Record) MarshalJSON() ([]byte, error) {
	fr := fileRecord{
		Title:        r.title,
		Attribution:  r.attribution,
		EditionNotes: r.editionNotes,
		Comments:     r.comments,
	}
	if r.hasRating {
		rating := r.rating
		fr.Rating = &rating
	}
	return json.Marshal(fr)
}

// decodedRecord mirrors fileRecord with the required keys as pointers so a
// missing key can be told apart from an empty one.
type decodedRecord struct {
	Title        *string `json:"Title"`
	Attribution  *string `json:"Attribution"`
	Rating       *int    `json:"Rating"`
	EditionNotes string  `json:"Edition Notes"`
	Comments     string  `json:"Comments"`
}

// UnmarshalJSON reads a record object. Keys outside the fixed field set,
// a missing Title or Attribution key and non-integer ratings are rejected.
// The decoded record is unattached; the library assigns Origin from the
// record's position.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var fr decodedRecord
	if err := dec.Decode(&fr); err != nil {
		return err
	}
	if fr.Title == nil {
		return errors.NewValidationError(Title.String(), nil, "key is missing")
	}
	if fr.Attribution == nil {
		return errors.NewValidationError(Attribution.String(), nil, "key is missing")
	}

	*r = Record{
		Origin:       Unattached,
		title:        *fr.Title,
		attribution:  *fr.Attribution,
		editionNotes: fr.EditionNotes,
		comments:     fr.Comments,
	}
	if fr.Rating != nil {
		r.rating, r.hasRating = *fr.Rating, true
	}
	return nil
}
