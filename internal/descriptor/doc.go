// Package descriptor defines the in-memory representation of a single
// content node (a course, chapter, problem, video, and so on) together
// with the capability surface a node needs while it is being imported.
//
// A Descriptor is created exactly once during a course import and
// registered into the owning store's index. Its identity, metadata and
// definition data never change afterwards; the only later mutation is the
// one-time resolution of a lazily imported container's children, which is
// synchronized and safe for concurrent callers. Children are represented
// as Locations rather than pointers; a node resolves a child by asking the
// store for the Descriptor registered at that Location. Whether child
// elements are parsed immediately or on first request is decided by the
// importing store, not by the node itself.
//
// The concrete behavior of each content category is supplied by a Handler,
// looked up through the registry package. Adding a new category means
// registering a new Handler, never changing existing parsing code.
package descriptor
