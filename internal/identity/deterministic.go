package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecordUUID derives the stable record identifier from the article's source
// URL. Re-capturing the same source always yields the same id, which is what
// lets last-write-wins deduplication work.
func RecordUUID(sourceURL string) uuid.UUID {
	normalized := strings.TrimRight(strings.TrimSpace(sourceURL), "/")
	return UUID("go-corpus:record:" + normalized)
}
