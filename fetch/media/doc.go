// Package media constructs multi-source media elements from remote
// URLs, with ordered source fallback and a shared cross-origin flag
// derived from the loader's origin.
package media
