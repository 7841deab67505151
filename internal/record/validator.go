package record

import (
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-corpus/internal/frontmatter"
	"github.com/goliatone/go-corpus/internal/identity"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// ValidatorConfig controls how documents become records.
type ValidatorConfig struct {
	// Strict additionally validates the raw metadata map against the corpus
	// metadata schema.
	Strict bool
	// Clock supplies the capture fallback timestamp. Defaults to time.Now.
	Clock func() time.Time
}

// Validator converts parsed documents into typed records, enumerating
// problems without halting the batch. Validation is a pure function of its
// input; the validator itself only carries configuration.
type Validator struct {
	strict bool
	clock  func() time.Time
	schema *MetadataSchema
}

// NewValidator constructs a validator. The metadata schema is compiled once
// up front so strict runs do not pay a per-file compilation cost.
func NewValidator(cfg ValidatorConfig) (*Validator, error) {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	schema, err := CompileMetadataSchema()
	if err != nil {
		return nil, err
	}

	return &Validator{
		strict: cfg.Strict,
		clock:  clock,
		schema: schema,
	}, nil
}

// Validate maps one document into a ValidationResult: either an immutable
// record or the list of reasons the document was rejected. Invalid documents
// are reported, never discarded silently.
func (v *Validator) Validate(doc *interfaces.Document) interfaces.ValidationResult {
	return v.ValidateStrictness(doc, v.strict)
}

// ValidateStrictness behaves like Validate with an explicit strict-mode
// toggle, letting per-run options override the configured default.
func (v *Validator) ValidateStrictness(doc *interfaces.Document, strict bool) interfaces.ValidationResult {
	if doc == nil {
		return invalid(interfaces.Reason{Message: "document is nil"})
	}

	fm := doc.FrontMatter
	reasons := requiredFieldReasons(fm)

	publishedAt, ok := frontmatter.ParseTimestamp(fm.DatePublished)
	if !ok {
		reasons = append(reasons, interfaces.Reason{
			Field:   "date_published",
			Message: "unparseable date " + strings.TrimSpace(fm.DatePublished),
		})
	}

	capturedAt := v.resolveCapturedAt(doc)

	if strict && v.schema != nil {
		reasons = append(reasons, v.schema.Validate(fm.Raw)...)
	}

	if len(reasons) > 0 {
		return invalid(reasons...)
	}

	rec := &interfaces.Record{
		ID:                   identity.RecordUUID(fm.Source),
		Title:                strings.TrimSpace(fm.Title),
		SourceURL:            strings.TrimSpace(fm.Source),
		Domain:               NormalizeKey(fm.Domain),
		PublishedAt:          publishedAt,
		CapturedAt:           capturedAt,
		Category:             NormalizeCategory(fm.Category),
		Tags:                 NormalizeTags(fm.Tags),
		Technologies:         NormalizeTags(fm.Technologies),
		ProgrammingLanguages: NormalizeTags(fm.ProgrammingLanguages),
		KeyConcepts:          NormalizeTags(fm.KeyConcepts),
		Author:               optionalAuthor(fm.Author),
		Summary:              strings.TrimSpace(fm.Summary),
		DifficultyLevel:      normalizeDifficulty(fm.DifficultyLevel),
		CodeExamples:         fm.CodeExamples,
		FilePath:             doc.FilePath,
		Checksum:             append([]byte(nil), doc.Checksum...),
		Body:                 append([]byte(nil), doc.Body...),
	}

	return interfaces.ValidationResult{Record: rec}
}

func requiredFieldReasons(fm interfaces.FrontMatter) []interfaces.Reason {
	type requiredFields struct {
		Title  string
		Source string
	}
	in := requiredFields{
		Title:  strings.TrimSpace(fm.Title),
		Source: strings.TrimSpace(fm.Source),
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required")),
		validation.Field(&in.Source, validation.Required.Error("source is required")),
	)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validation.Errors)
	if !ok {
		return []interfaces.Reason{{Message: err.Error()}}
	}

	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	reasons := make([]interfaces.Reason, 0, len(fields))
	for _, field := range fields {
		reasons = append(reasons, interfaces.Reason{
			Field:   strings.ToLower(field),
			Message: fieldErrors[field].Error(),
		})
	}
	return reasons
}

func (v *Validator) resolveCapturedAt(doc *interfaces.Document) time.Time {
	if ts, ok := frontmatter.ParseTimestamp(doc.FrontMatter.DateCaptured); ok && ts != nil {
		return *ts
	}
	// A capture date is required; fall back to the file's modification time,
	// then to the clock, rather than rejecting the document.
	if !doc.LastModified.IsZero() {
		return doc.LastModified.UTC()
	}
	return v.clock().UTC()
}

func optionalAuthor(value string) *string {
	trimmed := strings.TrimSpace(value)
	if frontmatter.IsSentinel(trimmed) {
		return nil
	}
	return &trimmed
}

func normalizeDifficulty(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if frontmatter.IsSentinel(trimmed) {
		return ""
	}
	return trimmed
}

func invalid(reasons ...interfaces.Reason) interfaces.ValidationResult {
	return interfaces.ValidationResult{Reasons: reasons}
}
