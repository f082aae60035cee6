// Package throttle provides a rate-limiting http.RoundTripper built on
// a token bucket, keeping burst-heavy resource loads (tiles, glyph
// ranges) within a configured request rate.
package throttle
