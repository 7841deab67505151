package interfaces

import "time"

// Document represents one Markdown file split into metadata and body. The
// struct is shared between the interfaces package and internal implementations
// so consumers can depend on a stable contract before validation runs.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so repeat
	// ingestion runs can detect unchanged files cheaply.
	Checksum []byte
}

// FrontMatter models the metadata block extracted from an archived article.
// Field names follow the canonical keys emitted by the snapshot tooling that
// produces these corpora; anything outside that set lands in Custom.
type FrontMatter struct {
	Title                string         `yaml:"title" json:"title"`
	Source               string         `yaml:"source" json:"source"`
	DatePublished        string         `yaml:"date_published" json:"date_published"`
	DateCaptured         string         `yaml:"date_captured" json:"date_captured"`
	Domain               string         `yaml:"domain" json:"domain"`
	Author               string         `yaml:"author" json:"author"`
	Category             string         `yaml:"category" json:"category"`
	Technologies         []string       `yaml:"technologies" json:"technologies"`
	ProgrammingLanguages []string       `yaml:"programming_languages" json:"programming_languages"`
	Tags                 []string       `yaml:"tags" json:"tags"`
	KeyConcepts          []string       `yaml:"key_concepts" json:"key_concepts"`
	CodeExamples         bool           `yaml:"code_examples" json:"code_examples"`
	DifficultyLevel      string         `yaml:"difficulty_level" json:"difficulty_level"`
	Summary              string         `yaml:"summary" json:"summary"`
	Custom               map[string]any `yaml:",inline" json:"custom"`
	Raw                  map[string]any `yaml:"-" json:"raw"`
}

// IsZero reports whether no metadata block was found in the source file.
func (fm FrontMatter) IsZero() bool {
	return len(fm.Raw) == 0
}
