// Package recommendations talks to the external recommendation engine and
// shapes its results for serving: courses the learner is already enrolled
// in are dropped, courses restricted in the learner's country are dropped,
// and a statically configured fallback list stands in when the engine is
// unreachable.
//
// The engine's business rules are its own; this package only consumes its
// payloads and applies the local filtering policy.
package recommendations
