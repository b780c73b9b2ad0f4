// Package api exposes the loaded module store and the recommendations
// client over HTTP. It is a thin read-only projection: every response is
// assembled from the store's index or the engine client, and nothing here
// can mutate course content.
package api
