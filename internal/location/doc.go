// Package location defines the five-part hierarchical identifier that names
// every content node in a course: organization, course, category, name, and
// an optional revision.
//
// A Location is a plain value type. Equality is structural over all five
// fields, which makes it directly usable as a map key; the module store's
// global index is keyed by Location. An empty Revision means "latest/any
// revision" for lookup purposes.
//
// The canonical string form is a URL:
//
//	i4x://{org}/{course}/{category}/{name}[@{revision}]
package location
