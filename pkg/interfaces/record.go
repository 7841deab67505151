package interfaces

import (
	"time"

	"github.com/google/uuid"
)

// Record is the validated, typed representation of one archived article.
// Records are immutable after validation; the body is owned by the record and
// never shared with other records.
type Record struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	SourceURL            string     `json:"source_url"`
	Domain               string     `json:"domain,omitempty"`
	PublishedAt          *time.Time `json:"published_at,omitempty"`
	CapturedAt           time.Time  `json:"captured_at"`
	Category             string     `json:"category"`
	Tags                 []string   `json:"tags"`
	Technologies         []string   `json:"technologies,omitempty"`
	ProgrammingLanguages []string   `json:"programming_languages,omitempty"`
	KeyConcepts          []string   `json:"key_concepts,omitempty"`
	Author               *string    `json:"author,omitempty"`
	Summary              string     `json:"summary,omitempty"`
	DifficultyLevel      string     `json:"difficulty_level,omitempty"`
	CodeExamples         bool       `json:"code_examples"`
	FilePath             string     `json:"file_path,omitempty"`
	Checksum             []byte     `json:"checksum,omitempty"`
	Body                 []byte     `json:"body,omitempty"`
	BodyHTML             []byte     `json:"body_html,omitempty"`
}

// HasTag reports whether the record carries the normalized tag.
func (r *Record) HasTag(tag string) bool {
	for _, candidate := range r.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

// ValidationResult is the tagged outcome of validating one document: either a
// usable record or the list of reasons it was rejected. Exactly one side is
// populated.
type ValidationResult struct {
	Record  *Record
	Reasons []Reason
}

// Valid reports whether the result carries a usable record.
func (vr ValidationResult) Valid() bool {
	return vr.Record != nil && len(vr.Reasons) == 0
}

// Reason describes one human-readable validation failure.
type Reason struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (r Reason) String() string {
	if r.Field == "" {
		return r.Message
	}
	return r.Field + ": " + r.Message
}
