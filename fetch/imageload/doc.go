// Package imageload composes the binary fetch with image decoding,
// turning raw response bytes into displayable images while relaying
// cache metadata to the caller.
package imageload
