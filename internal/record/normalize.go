package record

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// DefaultCategory is assigned when a document carries no category.
const DefaultCategory = "uncategorized"

// Slug normalization drops these outright, which would fuse compounds like
// AI/ML into one word. They become word breaks instead.
var keySeparators = strings.NewReplacer("/", " ", "\\", " ", "|", " ")

// NormalizeKey coerces a tag, category, or domain value to the lower
// snake_case form the index stores and queries by. Input is never rejected;
// values that defeat slug normalization fall back to manual folding.
func NormalizeKey(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	trimmed = keySeparators.Replace(trimmed)

	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		normalized = strings.ToLower(trimmed)
		normalized = strings.Join(strings.Fields(normalized), "-")
	}
	return strings.ReplaceAll(normalized, "-", "_")
}

// NormalizeCategory applies key normalization and the default fallback.
func NormalizeCategory(value string) string {
	if normalized := NormalizeKey(value); normalized != "" {
		return normalized
	}
	return DefaultCategory
}

// NormalizeTags folds every tag, drops empties, and deduplicates while
// keeping first-seen order so query results stay stable.
func NormalizeTags(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		normalized := NormalizeKey(value)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
