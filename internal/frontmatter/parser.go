package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// The archives this module ingests mix two fencing conventions: the snapshot
// tooling writes bare `---` fences, while some captured files wrap the block
// in a ```yaml code fence. Both are registered as first-class formats.
func formats() []*frontmatter.Format {
	return []*frontmatter.Format{
		frontmatter.NewFormat("---", "---", yaml.Unmarshal),
		frontmatter.NewFormat("```yaml", "```", yaml.Unmarshal),
	}
}

// MalformedError reports a front-matter block whose opening fence never
// closes before end of file. Callers skip the file and continue the batch.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("frontmatter: malformed block: %v", e.Err)
	}
	return fmt.Sprintf("frontmatter: malformed block in %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

var errUnclosedFence = errors.New("opening fence never closes")

// Parse extracts metadata and the Markdown body from the provided source
// bytes. A file without any front-matter block is not an error: the zero-value
// metadata is returned alongside the full input as body. An opening fence with
// no matching close yields a *MalformedError.
func Parse(source []byte) (interfaces.FrontMatter, []byte, error) {
	// The underlying parser treats an unclosed fence as "no front matter"
	// and returns the whole input as body, so the pair is checked up front.
	if closingFenceMissing(source) {
		return interfaces.FrontMatter{}, nil, &MalformedError{Err: errUnclosedFence}
	}

	var env envelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &env, formats()...)
	if err != nil {
		if hasOpeningFence(source) {
			return interfaces.FrontMatter{}, nil, &MalformedError{Err: err}
		}
		return interfaces.FrontMatter{}, nil, fmt.Errorf("frontmatter: parse: %w", err)
	}

	return envelopeToFrontMatter(env), body, nil
}

// ParseFile behaves like Parse but stamps the file path onto malformed errors
// so batch reports can name the offending file.
func ParseFile(path string, source []byte) (interfaces.FrontMatter, []byte, error) {
	fm, body, err := Parse(source)
	if err != nil {
		var malformed *MalformedError
		if errors.As(err, &malformed) {
			malformed.Path = path
			return interfaces.FrontMatter{}, nil, malformed
		}
		return interfaces.FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// fencePair maps an opening fence line to the marker that closes it.
func fencePair(line string) (string, bool) {
	switch strings.TrimSpace(line) {
	case "---":
		return "---", true
	case "```yaml":
		return "```", true
	}
	return "", false
}

func newFenceScanner(source []byte) *bufio.Scanner {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

// hasOpeningFence checks whether the file starts with one of the accepted
// fence markers. Used to tell "no front matter" apart from "unterminated
// front matter" when the underlying parser reports a failure.
func hasOpeningFence(source []byte) bool {
	scanner := newFenceScanner(source)
	if !scanner.Scan() {
		return false
	}
	_, ok := fencePair(scanner.Text())
	return ok
}

// closingFenceMissing reports whether the file opens a fence that never
// closes on a later line.
func closingFenceMissing(source []byte) bool {
	scanner := newFenceScanner(source)
	if !scanner.Scan() {
		return false
	}
	closing, ok := fencePair(scanner.Text())
	if !ok {
		return false
	}
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == closing {
			return false
		}
	}
	return true
}

// envelope mirrors interfaces.FrontMatter for unmarshalling. Date fields stay
// strings here so sentinel values like "unknown" survive to the validation
// boundary instead of failing the whole parse.
type envelope struct {
	Title                string         `yaml:"title"`
	Source               string         `yaml:"source"`
	DatePublished        string         `yaml:"date_published"`
	DateCaptured         string         `yaml:"date_captured"`
	Domain               string         `yaml:"domain"`
	Author               string         `yaml:"author"`
	Category             string         `yaml:"category"`
	Technologies         []string       `yaml:"technologies"`
	ProgrammingLanguages []string       `yaml:"programming_languages"`
	Tags                 []string       `yaml:"tags"`
	KeyConcepts          []string       `yaml:"key_concepts"`
	CodeExamples         bool           `yaml:"code_examples"`
	DifficultyLevel      string         `yaml:"difficulty_level"`
	Summary              string         `yaml:"summary"`
	Custom               map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env envelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+12)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Source != "" {
		raw["source"] = env.Source
	}
	if env.DatePublished != "" {
		raw["date_published"] = env.DatePublished
	}
	if env.DateCaptured != "" {
		raw["date_captured"] = env.DateCaptured
	}
	if env.Domain != "" {
		raw["domain"] = env.Domain
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if env.Category != "" {
		raw["category"] = env.Category
	}
	if len(env.Technologies) > 0 {
		raw["technologies"] = append([]string(nil), env.Technologies...)
	}
	if len(env.ProgrammingLanguages) > 0 {
		raw["programming_languages"] = append([]string(nil), env.ProgrammingLanguages...)
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if len(env.KeyConcepts) > 0 {
		raw["key_concepts"] = append([]string(nil), env.KeyConcepts...)
	}
	if env.CodeExamples {
		raw["code_examples"] = true
	}
	if env.DifficultyLevel != "" {
		raw["difficulty_level"] = env.DifficultyLevel
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}

	return interfaces.FrontMatter{
		Title:                env.Title,
		Source:               env.Source,
		DatePublished:        env.DatePublished,
		DateCaptured:         env.DateCaptured,
		Domain:               env.Domain,
		Author:               env.Author,
		Category:             env.Category,
		Technologies:         append([]string(nil), env.Technologies...),
		ProgrammingLanguages: append([]string(nil), env.ProgrammingLanguages...),
		Tags:                 append([]string(nil), env.Tags...),
		KeyConcepts:          append([]string(nil), env.KeyConcepts...),
		CodeExamples:         env.CodeExamples,
		DifficultyLevel:      env.DifficultyLevel,
		Summary:              env.Summary,
		Custom:               cloneMap(env.Custom),
		Raw:                  raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
