package sessions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Document is the stored form of a session. Pointer fields tell a missing
// field apart from a zero value.
type Document struct {
	User       *string   `json:"user" firestore:"user"`
	Exercise   *string   `json:"exercise" firestore:"exercise"`
	Date       *string   `json:"date" firestore:"date"`
	SetReps    []int     `json:"set_reps" firestore:"set_reps"`
	SetWeights []float64 `json:"set_weights" firestore:"set_weights"`
	Comment    *string   `json:"comment,omitempty" firestore:"comment,omitempty"`
}

type StoredDocument struct {
	ID  string
	Doc Document
	// Err is set when the stored value could not be decoded into a Document.
	Err error
}

func NewDocument(record SessionRecord) Document {
	doc := Document{
		User:       &record.User,
		Exercise:   &record.Exercise,
		Date:       &record.Date,
		SetReps:    slices.Clone(record.SetReps),
		SetWeights: slices.Clone(record.SetWeights),
	}
	if record.Comment != "" {
		doc.Comment = &record.Comment
	}
	return doc
}

// DecodeDocument decodes a JSON document; wrong-typed fields yield ErrInvalidDocument.
func DecodeDocument(raw []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Record converts the document into a SessionRecord, requiring every field
// except the comment.
func (d Document) Record(id string) (SessionRecord, error) {
	var missing []string
	if d.User == nil {
		missing = append(missing, "user")
	}
	if d.Exercise == nil {
		missing = append(missing, "exercise")
	}
	if d.Date == nil {
		missing = append(missing, "date")
	}
	if d.SetReps == nil {
		missing = append(missing, "set_reps")
	}
	if d.SetWeights == nil {
		missing = append(missing, "set_weights")
	}
	if len(missing) > 0 {
		return SessionRecord{}, fmt.Errorf("%w [%s]: missing %v", ErrInvalidDocument, id, missing)
	}
	if len(d.SetReps) == 0 || len(d.SetReps) != len(d.SetWeights) {
		return SessionRecord{}, fmt.Errorf(
			"%w [%s]: %d reps vs %d weights", ErrInvalidDocument, id, len(d.SetReps), len(d.SetWeights),
		)
	}
	if _, err := ParseDate(*d.Date); err != nil {
		return SessionRecord{}, fmt.Errorf("%w [%s]: %w", ErrInvalidDocument, id, err)
	}
	if _, err := ParseCreated(id); err != nil {
		return SessionRecord{}, fmt.Errorf("%w [%s]: %w", ErrInvalidDocument, id, err)
	}

	record := SessionRecord{
		ID:         id,
		User:       *d.User,
		Exercise:   *d.Exercise,
		Date:       *d.Date,
		SetReps:    slices.Clone(d.SetReps),
		SetWeights: slices.Clone(d.SetWeights),
	}
	if d.Comment != nil {
		record.Comment = *d.Comment
	}
	return record, nil
}

func (d Document) Equal(other Document) bool {
	return strEqual(d.User, other.User) &&
		strEqual(d.Exercise, other.Exercise) &&
		strEqual(d.Date, other.Date) &&
		strEqual(d.Comment, other.Comment) &&
		slices.Equal(d.SetReps, other.SetReps) &&
		slices.Equal(d.SetWeights, other.SetWeights)
}

// nil and empty strings are the same thing for a stored document
func strEqual(a, b *string) bool {
	var av, bv string
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}
