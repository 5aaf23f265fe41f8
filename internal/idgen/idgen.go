// Package idgen allocates task ids when an incoming task arrives without
// one: a slugified form of the title when present, deduplicated against a
// caller-supplied predicate, or a ULID-style token otherwise.
package idgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ErrExhausted is returned when no unique id could be allocated within the
// bounded number of attempts.
var ErrExhausted = errors.New("id allocation exhausted its attempts")

// maxAttempts bounds how many collision-suffixed candidates Generate will
// try before giving up.
const maxAttempts = 1000

// Taken reports whether a candidate id is already in use, by the graph or
// by ids already staged elsewhere in the same transaction.
type Taken func(id string) bool

// Generate returns a fresh id not satisfying taken. When title is
// non-empty the id is derived by slugifying it, appending "-2", "-3", ...
// on collision. When title is empty (or slugifies to nothing), a
// ULID-style token is generated instead; ULIDs encode the current time
// and carry enough entropy that a collision loop is never expected to run
// more than once, but the same bounded-retry path is used regardless.
func Generate(title string, taken Taken) (string, error) {
	base := slugify(title)
	if base == "" {
		return generateULID(taken)
	}

	if !taken(base) {
		return base, nil
	}

	for i := 2; i <= maxAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken(candidate) {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}

// slugify lowercases ASCII, replaces runs of non-alphanumeric characters
// with a single hyphen, and trims leading/trailing hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// generateULID produces a lexicographically-sortable fallback id, retrying
// on the vanishingly unlikely chance of a collision.
func generateULID(taken Taken) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id := strings.ToLower(ulid.Make().String())
		if !taken(id) {
			return id, nil
		}
	}
	return "", ErrExhausted
}
