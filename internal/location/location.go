package location

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInsufficientSpecification indicates that a Location could not be
// constructed because a required segment was missing.
var ErrInsufficientSpecification = errors.New("location is not fully specified")

// invalidChars matches every character that may not appear in a Location
// segment. Anything outside [A-Za-z0-9_.-] is replaced by Clean.
var invalidChars = regexp.MustCompile(`[^\w.-]`)

// Location is the structured identifier of a single content node.
// The zero value is not a valid Location; use New.
type Location struct {
	Org      string
	Course   string
	Category string
	Name     string
	// Revision is optional. Empty means "latest/any revision".
	Revision string
}

// Clean replaces every character that is illegal in a Location segment with
// an underscore. It is a pure function; the same input always yields the
// same output, which is what makes slug derivation from display names
// deterministic.
func Clean(name string) string {
	return invalidChars.ReplaceAllString(name, "_")
}

// New constructs a Location from its segments. Org, course, category and
// name are required; revision may be empty. The name segment is cleaned so
// that the resulting Location is always a stable map key.
func New(org, course, category, name, revision string) (Location, error) {
	for _, seg := range []struct {
		label, value string
	}{
		{"org", org},
		{"course", course},
		{"category", category},
		{"name", name},
	} {
		if seg.value == "" {
			return Location{}, fmt.Errorf("%w: missing %s segment", ErrInsufficientSpecification, seg.label)
		}
	}
	return Location{
		Org:      org,
		Course:   course,
		Category: category,
		Name:     Clean(name),
		Revision: revision,
	}, nil
}

// String serializes the Location into its canonical URL representation.
func (l Location) String() string {
	var sb strings.Builder
	sb.WriteString("i4x://")
	sb.WriteString(l.Org)
	sb.WriteRune('/')
	sb.WriteString(l.Course)
	sb.WriteRune('/')
	sb.WriteString(l.Category)
	sb.WriteRune('/')
	sb.WriteString(l.Name)
	if l.Revision != "" {
		sb.WriteRune('@')
		sb.WriteString(l.Revision)
	}
	return sb.String()
}

// WithoutRevision returns a copy of the Location with the revision cleared,
// i.e. the key under which "latest/any revision" lookups are performed.
func (l Location) WithoutRevision() Location {
	l.Revision = ""
	return l
}
