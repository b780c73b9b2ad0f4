// Package registry maps content categories to the Handler implementations
// that interpret them. It is the sole point of type polymorphism in the
// import pipeline: every category is a variant conforming to the Handler
// capability, and new categories are added by registering new variants,
// never by modifying resolution control flow.
//
// The registry is populated once at process start (Builtin plus any
// module-supplied registrations) and read-only afterwards.
package registry
