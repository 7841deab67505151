package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// Record is the persisted shape of one archived article. The source URL is
// the stable identifier; the primary key is derived from it so re-ingesting
// the same source always lands on the same row.
type Record struct {
	bun.BaseModel `bun:"table:corpus_records,alias:cr"`

	ID                   uuid.UUID  `bun:",pk,type:uuid"                 json:"id"`
	Title                string     `bun:"title,notnull"                 json:"title"`
	SourceURL            string     `bun:"source_url,notnull,unique"     json:"source_url"`
	Domain               string     `bun:"domain"                        json:"domain,omitempty"`
	PublishedAt          *time.Time `bun:"published_at,nullzero"         json:"published_at,omitempty"`
	CapturedAt           time.Time  `bun:"captured_at,notnull"           json:"captured_at"`
	Category             string     `bun:"category,notnull"              json:"category"`
	Tags                 []string   `bun:"tags,type:jsonb"               json:"tags"`
	Technologies         []string   `bun:"technologies,type:jsonb"       json:"technologies,omitempty"`
	ProgrammingLanguages []string   `bun:"programming_languages,type:jsonb" json:"programming_languages,omitempty"`
	KeyConcepts          []string   `bun:"key_concepts,type:jsonb"       json:"key_concepts,omitempty"`
	Author               *string    `bun:"author"                        json:"author,omitempty"`
	Summary              string     `bun:"summary"                       json:"summary,omitempty"`
	DifficultyLevel      string     `bun:"difficulty_level"              json:"difficulty_level,omitempty"`
	CodeExamples         bool       `bun:"code_examples,notnull,default:false" json:"code_examples"`
	FilePath             string     `bun:"file_path"                     json:"file_path,omitempty"`
	Checksum             []byte     `bun:"checksum"                      json:"checksum,omitempty"`
	Body                 []byte     `bun:"body"                          json:"body,omitempty"`
	BodyHTML             []byte     `bun:"body_html"                     json:"body_html,omitempty"`
	CreatedAt            time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func fromDomain(rec *interfaces.Record) *Record {
	if rec == nil {
		return nil
	}
	return &Record{
		ID:                   rec.ID,
		Title:                rec.Title,
		SourceURL:            rec.SourceURL,
		Domain:               rec.Domain,
		PublishedAt:          rec.PublishedAt,
		CapturedAt:           rec.CapturedAt,
		Category:             rec.Category,
		Tags:                 append([]string(nil), rec.Tags...),
		Technologies:         append([]string(nil), rec.Technologies...),
		ProgrammingLanguages: append([]string(nil), rec.ProgrammingLanguages...),
		KeyConcepts:          append([]string(nil), rec.KeyConcepts...),
		Author:               rec.Author,
		Summary:              rec.Summary,
		DifficultyLevel:      rec.DifficultyLevel,
		CodeExamples:         rec.CodeExamples,
		FilePath:             rec.FilePath,
		Checksum:             append([]byte(nil), rec.Checksum...),
		Body:                 append([]byte(nil), rec.Body...),
		BodyHTML:             append([]byte(nil), rec.BodyHTML...),
	}
}

func (m *Record) toDomain() *interfaces.Record {
	if m == nil {
		return nil
	}
	return &interfaces.Record{
		ID:                   m.ID,
		Title:                m.Title,
		SourceURL:            m.SourceURL,
		Domain:               m.Domain,
		PublishedAt:          m.PublishedAt,
		CapturedAt:           m.CapturedAt,
		Category:             m.Category,
		Tags:                 append([]string(nil), m.Tags...),
		Technologies:         append([]string(nil), m.Technologies...),
		ProgrammingLanguages: append([]string(nil), m.ProgrammingLanguages...),
		KeyConcepts:          append([]string(nil), m.KeyConcepts...),
		Author:               m.Author,
		Summary:              m.Summary,
		DifficultyLevel:      m.DifficultyLevel,
		CodeExamples:         m.CodeExamples,
		FilePath:             m.FilePath,
		Checksum:             append([]byte(nil), m.Checksum...),
		Body:                 append([]byte(nil), m.Body...),
		BodyHTML:             append([]byte(nil), m.BodyHTML...),
	}
}
