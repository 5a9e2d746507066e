// Package slug derives URL-safe identifiers from human-entered titles and
// allocates a collision-free variant against the persistent catalog.
//
// Normalization contract: the output matches [a-z0-9]+(-[a-z0-9]+)* (or is
// empty when the title contains no usable characters) and Make is idempotent,
// i.e. Make(Make(x)) == Make(x).
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrExhausted is returned by Allocate when no free slug is found within the
// configured attempt budget. Callers should surface it as an internal
// failure rather than retrying.
var ErrExhausted = errors.New("slug allocation attempts exhausted")

// nonAlnumRE matches maximal runs of characters outside [a-z0-9].
var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// foldDiacritics decomposes accented characters (NFD) and strips the
// combining marks, leaving the base letters.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make normalizes a title into its base slug: diacritics are folded to their
// base letters, remaining non-ASCII runes are transliterated, everything is
// lowercased, runs of non-alphanumerics collapse to single hyphens, and
// leading/trailing hyphens are trimmed.
//
//	Make("Café Racer!!") == "cafe-racer"
//	Make("Zelda?")       == "zelda"
func Make(title string) string {
	s, _, err := transform.String(foldDiacritics, title)
	if err != nil {
		s = title
	}
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = nonAlnumRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExistsFunc reports whether a slug is already taken in the store.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Allocate probes base, base-1, base-2, … until exists reports a free slug,
// giving up after maxAttempts probes with ErrExhausted (values < 1 are
// coerced to 1). The result is unique only against store state at check
// time; the insert must still rely on the slug's unique constraint, and a
// conflicting insert should be treated as a duplicate by the caller.
func Allocate(ctx context.Context, base string, exists ExistsFunc, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	candidate := base
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
