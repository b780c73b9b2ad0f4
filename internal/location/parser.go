package location

import (
	"fmt"
	"regexp"
)

// urlRegex parses the canonical i4x URL form of a Location.
var urlRegex = regexp.MustCompile(`^i4x://([\w.-]+)/([\w.-]+)/([\w.-]+)/([\w.-]+)(?:@([\w.-]+))?$`)

// Parse creates a Location by parsing its canonical string representation.
func Parse(rawURL string) (Location, error) {
	if rawURL == "" {
		return Location{}, fmt.Errorf("%w: identifier cannot be empty", ErrInsufficientSpecification)
	}

	matches := urlRegex.FindStringSubmatch(rawURL)
	if matches == nil {
		return Location{}, fmt.Errorf("%w: invalid identifier format: %q", ErrInsufficientSpecification, rawURL)
	}

	return Location{
		Org:      matches[1],
		Course:   matches[2],
		Category: matches[3],
		Name:     matches[4],
		Revision: matches[5],
	}, nil
}
