// Package fetch implements the asynchronous resource-fetching core:
// one primitive dispatcher plus thin typed wrappers, with uniform
// cancellation, error classification and header relay.
//
// # Building a Client
//
// Use [Build] with functional options:
//
//	c, err := fetch.Build(
//		fetch.WithTimeout(10*time.Second),
//		fetch.WithUserAgent("myapp/1.0"),
//		fetch.WithOrigin("https://maps.example.com"),
//	)
//
// Options can also come from a TOML file via [LoadConfig] and
// [Config.Options].
//
// # Dispatching
//
// Every call returns immediately with a [*Handle]; the outcome arrives
// on the supplied [Callback] exactly once, carrying either an error or
// data, never both:
//
//	h := c.FetchJSON(ctx, fetch.RequestParameters{URL: styleURL},
//		func(err error, data any, cacheControl, expires string) {
//			...
//		})
//
// Canceling the handle before the exchange completes suppresses the
// callback entirely.
//
// # Errors
//
// Failures are one of three variants: [*TransportError] (the exchange
// never completed), [*AJAXError] (it completed with an unacceptable
// status) and [*DecodeError] (the body could not be parsed). Classify
// with [Kind] or match with errors.As. The client never retries;
// retry and backoff policy belongs to the caller.
package fetch
