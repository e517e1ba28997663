package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Language ids known to the add-on.
const (
	LanguageMarkdown  = "markdown"
	LanguagePlaintext = "plaintext"
)

// Association maps a glob pattern to a language id.
// Patterns without a slash match the file's base name; patterns with a
// slash match the whole slash-separated path.
type Association struct {
	Pattern  string
	Language string
}

// Associations is an ordered table of glob to language mappings.
// Later entries take precedence over earlier ones.
type Associations struct {
	entries []Association
}

// DefaultAssociations returns the built-in table.
func DefaultAssociations() *Associations {
	a := &Associations{}
	for _, p := range []string{"*.md", "*.markdown", "*.mdown", "*.mkd", "*.mkdn", "*.mdwn", "*.mdtxt", "*.mdtext"} {
		a.entries = append(a.entries, Association{Pattern: p, Language: LanguageMarkdown})
	}
	a.entries = append(a.entries, Association{Pattern: "*.txt", Language: LanguagePlaintext})
	return a
}

// Add appends an association. Returns an error if the pattern is malformed.
func (a *Associations) Add(pattern, language string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid association pattern %q", pattern)
	}
	if language == "" {
		return fmt.Errorf("association %q has no language", pattern)
	}
	a.entries = append(a.entries, Association{Pattern: pattern, Language: language})
	return nil
}

// Entries returns a copy of the table.
func (a *Associations) Entries() []Association {
	out := make([]Association, len(a.entries))
	copy(out, a.entries)
	return out
}

// Detect returns the language id for path, or LanguagePlaintext when no
// pattern matches.
func (a *Associations) Detect(path string) string {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	lowerBase := strings.ToLower(base)

	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		var ok bool
		if strings.Contains(e.Pattern, "/") {
			ok, _ = doublestar.Match(e.Pattern, slashed)
		} else {
			ok, _ = doublestar.Match(e.Pattern, base)
			if !ok && lowerBase != base {
				ok, _ = doublestar.Match(e.Pattern, lowerBase)
			}
		}
		if ok {
			return e.Language
		}
	}
	return LanguagePlaintext
}
