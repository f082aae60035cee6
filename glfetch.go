// Package glfetch exposes the resource-fetching client builder.
package glfetch

import (
	"github.com/Pioneer6/glfetch/fetch"
)

// NewClient instantiates a new *fetch.Client with the provided options.
// If not specified, the default http.Client and http.Transport are used.
func NewClient(opts ...fetch.Option) (*fetch.Client, error) {
	return fetch.Build(opts...)
}
