package recommendations

import "strings"

// DefaultLimit caps how many recommendations are served after filtering.
const DefaultLimit = 4

// Filter drops courses the learner is already enrolled in and courses
// restricted in the learner's country, preserving engine order, then caps
// the result at limit (DefaultLimit when limit is not positive). country
// is matched case-insensitively; an empty country disables the geographic
// check.
func Filter(courses []Course, enrolledKeys []string, country string, limit int) []Course {
	if limit <= 0 {
		limit = DefaultLimit
	}

	enrolled := make(map[string]struct{}, len(enrolledKeys))
	for _, key := range enrolledKeys {
		enrolled[key] = struct{}{}
	}

	out := make([]Course, 0, limit)
	for _, course := range courses {
		if _, ok := enrolled[course.Key]; ok {
			continue
		}
		if country != "" && restrictedIn(course, country) {
			continue
		}
		out = append(out, course)
		if len(out) == limit {
			break
		}
	}
	return out
}

func restrictedIn(course Course, country string) bool {
	for _, restricted := range course.RestrictedCountries {
		if strings.EqualFold(restricted, country) {
			return true
		}
	}
	return false
}
