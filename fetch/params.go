package fetch

import (
	"maps"
	"net/http"
	"net/url"

	"github.com/Pioneer6/glfetch/resource"
)

// ResponseType selects how a response body is decoded before delivery.
type ResponseType string

const (
	ResponseText   ResponseType = "text"
	ResponseJSON   ResponseType = "json"
	ResponseBinary ResponseType = "binary"
)

// Credentials selects when stored cookies accompany a request.
type Credentials string

const (
	// CredentialsSameOrigin attaches cookies only when the request URL
	// shares an origin with the client's configured origin. This is the
	// default.
	CredentialsSameOrigin Credentials = "same-origin"
	// CredentialsInclude always attaches cookies.
	CredentialsInclude Credentials = "include"
)

// RequestParameters describes a single request. A value is built per
// call and never mutated afterwards: the With* methods return copies,
// so callers can safely reuse a base value across requests.
type RequestParameters struct {
	URL                   string            `json:"url" validate:"required,url"`
	Headers               map[string]string `json:"headers,omitempty"`
	Method                string            `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT"`
	Body                  string            `json:"body,omitempty"`
	ResponseType          ResponseType      `json:"responseType,omitempty" validate:"omitempty,oneof=text json binary"`
	Credentials           Credentials       `json:"credentials,omitempty" validate:"omitempty,oneof=same-origin include"`
	CollectResourceTiming bool              `json:"collectResourceTiming,omitempty"`

	// Kind is a classification label for logs and metrics only. It
	// must belong to the [resource.Kinds] tag set; the zero value maps
	// to [resource.Unknown].
	Kind resource.Kind `json:"kind,omitempty" validate:"resource"`
}

// WithResponseType returns a copy of p with the response type replaced.
func (p RequestParameters) WithResponseType(rt ResponseType) RequestParameters {
	cp := p.clone()
	cp.ResponseType = rt
	return cp
}

// WithMethod returns a copy of p with the HTTP method replaced.
func (p RequestParameters) WithMethod(method string) RequestParameters {
	cp := p.clone()
	cp.Method = method
	return cp
}

// clone copies p, including the headers map, so neither value aliases
// the other.
func (p RequestParameters) clone() RequestParameters {
	cp := p
	cp.Headers = maps.Clone(p.Headers)
	return cp
}

// method returns the effective HTTP method, defaulting to GET.
func (p RequestParameters) method() string {
	if p.Method == "" {
		return http.MethodGet
	}
	return p.Method
}

// SameOrigin reports whether rawURL shares a scheme and host with
// origin. A relative rawURL is considered same-origin.
func SameOrigin(rawURL, origin string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !u.IsAbs() {
		return true
	}

	o, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return u.Scheme == o.Scheme && u.Host == o.Host
}
