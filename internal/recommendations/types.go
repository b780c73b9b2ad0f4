package recommendations

// Image is a course's card image.
type Image struct {
	Src string `json:"src"`
}

// Owner is an organization offering a course.
type Owner struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	LogoImageURL string `json:"logo_image_url"`
}

// CourseRun is the currently active run of a recommended course.
type CourseRun struct {
	Key          string `json:"key"`
	MarketingURL string `json:"marketing_url"`
}

// Course is one recommended course as returned by the engine.
type Course struct {
	Key             string     `json:"key"`
	UUID            string     `json:"uuid"`
	Title           string     `json:"title"`
	Image           Image      `json:"image"`
	Owners          []Owner    `json:"owners"`
	ActiveCourseRun *CourseRun `json:"active_course_run"`

	// RestrictedCountries lists countries the course may not be marketed
	// in. Matched case-insensitively during filtering.
	RestrictedCountries []string `json:"restricted_countries"`
}

// Result is a recommendation response ready for serving.
type Result struct {
	Courses []Course `json:"courses"`

	// IsControl reports whether the learner fell into the engine's
	// control cohort. Nil when the engine did not say (e.g. fallback).
	IsControl *bool `json:"is_control"`

	// FromFallback is true when the engine was unreachable and the
	// statically configured fallback list was served instead.
	FromFallback bool `json:"from_fallback"`
}
