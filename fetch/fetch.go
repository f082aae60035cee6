package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Pioneer6/glfetch/fetch/throttle"
)

// Callback receives the outcome of a dispatched request. Exactly one of
// err and data is non-nil, and it is invoked at most once per request.
// cacheControl and expires relay the Cache-Control and Expires response
// headers for caller-side cache policy; the client itself never caches.
type Callback func(err error, data any, cacheControl, expires string)

// decodeFn turns a raw response body into the value delivered to the
// callback.
type decodeFn func(body []byte) (any, error)

// Client dispatches asynchronous resource fetches over a wrapped
// *http.Client. Build one with [Build]; the zero value is not usable.
type Client struct {
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer

	origin      string
	jar         http.CookieJar
	compression bool
	hostedAPI   *regexp.Regexp
}

// Build constructs a Client with the given options. The default slog
// logger and a no-op tracer are used unless overridden.
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	} else {
		client.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	client.origin = opts.origin
	client.jar = opts.jar
	client.compression = opts.compression
	client.hostedAPI = opts.hostedAPI

	return client, nil
}

// Dispatch issues one request described by params and returns
// immediately. The outcome arrives on cb exactly once, unless the
// returned handle is canceled first, in which case cb never fires.
func (c *Client) Dispatch(ctx context.Context, params RequestParameters, cb Callback) *Handle {
	return c.dispatch(ctx, params, nil, cb)
}

// FetchJSON fetches a structured resource, forcing the JSON response
// type. The callback's data is the decoded value.
func (c *Client) FetchJSON(ctx context.Context, params RequestParameters, cb Callback) *Handle {
	return c.Dispatch(ctx, params.WithResponseType(ResponseJSON), cb)
}

// FetchBinary fetches a raw resource, forcing the binary response
// type. The callback's data is a []byte.
func (c *Client) FetchBinary(ctx context.Context, params RequestParameters, cb Callback) *Handle {
	return c.Dispatch(ctx, params.WithResponseType(ResponseBinary), cb)
}

// SubmitData sends params.Body to params.URL, forcing the POST method.
func (c *Client) SubmitData(ctx context.Context, params RequestParameters, cb Callback) *Handle {
	return c.Dispatch(ctx, params.WithMethod(http.MethodPost), cb)
}

// JSON fetches a structured resource and decodes it into T, sparing the
// caller a type assertion on the callback's data.
func JSON[T any](ctx context.Context, c *Client, params RequestParameters, cb func(err error, data *T, cacheControl, expires string)) *Handle {
	params = params.WithResponseType(ResponseJSON)

	decode := func(body []byte) (any, error) {
		v := new(T)
		if err := json.Unmarshal(body, v); err != nil {
			return nil, &DecodeError{URL: params.URL, Err: err}
		}
		return v, nil
	}

	return c.dispatch(ctx, params, decode, func(err error, data any, cacheControl, expires string) {
		if err != nil {
			cb(err, nil, cacheControl, expires)
			return
		}
		v, _ := data.(*T)
		cb(nil, v, cacheControl, expires)
	})
}

func (c *Client) dispatch(ctx context.Context, params RequestParameters, decode decodeFn, cb Callback) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel)

	go c.run(ctx, h, params, decode, cb)

	return h
}

// result carries one successful exchange back to the callback layer.
type result struct {
	data         any
	bytes        int
	cacheControl string
	expires      string
}

func (c *Client) run(ctx context.Context, h *Handle, params RequestParameters, decode decodeFn, cb Callback) {
	defer close(h.done)
	defer h.cancel()

	ctx, span := c.tracer.Start(ctx, "fetch.dispatch")
	span.SetAttributes(
		attribute.String("url", params.URL),
		attribute.String("method", params.method()),
	)
	defer span.End()

	requestsTotal.WithLabelValues(params.method(), params.Kind.String()).Inc()

	start := time.Now()
	res, err := c.exec(ctx, params, decode)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		failuresTotal.WithLabelValues(Kind(err).String()).Inc()
		h.deliver(func() { cb(err, nil, "", "") })
		return
	}

	requestSeconds.WithLabelValues(params.method()).Observe(elapsed.Seconds())
	if params.CollectResourceTiming {
		c.logger.Info("resource timing",
			"id", uuid.New().String(),
			"url", params.URL,
			"method", params.method(),
			"resource", params.Kind.String(),
			"duration", elapsed.Round(time.Microsecond).String(),
			"bytes", res.bytes,
		)
	}

	h.deliver(func() { cb(nil, res.data, res.cacheControl, res.expires) })
}

// exec performs the blocking exchange: validate, build, send, classify,
// decode. All policy about what constitutes success lives here.
func (c *Client) exec(ctx context.Context, params RequestParameters, decode decodeFn) (result, error) {
	if err := Validate(params); err != nil {
		return result{}, err
	}

	req, err := c.newRequest(ctx, params)
	if err != nil {
		return result{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return result{}, &TransportError{URL: params.URL, Err: err}
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if c.jar != nil && c.cookiesAllowed(params) {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}

	// Success is a 2xx status or the opaque sentinel 0, which injected
	// transports use for non-HTTP schemes.
	if !successStatus(resp.StatusCode) {
		return result{}, c.protocolError(resp.StatusCode, params.URL)
	}

	body, err := decodeBody(resp)
	discardBody = false
	if err != nil {
		// The status promised a body that never fully arrived; the
		// exchange did not complete.
		return result{}, &TransportError{URL: params.URL, Err: err}
	}

	if decode == nil {
		decode = decoderFor(params)
	}

	data, err := decode(body)
	if err != nil {
		return result{}, err
	}

	return result{
		data:         data,
		bytes:        len(body),
		cacheControl: resp.Header.Get("Cache-Control"),
		expires:      resp.Header.Get("Expires"),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, params RequestParameters) (*http.Request, error) {
	method := params.method()

	var body io.Reader
	if params.Body != "" && method != http.MethodGet {
		body = strings.NewReader(params.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, params.URL, body)
	if err != nil {
		return nil, err
	}

	for k, v := range params.Headers {
		req.Header.Set(k, v)
	}

	if params.ResponseType == ResponseJSON {
		req.Header.Set("Accept", "application/json")
	}

	if c.compression {
		req.Header.Set("Accept-Encoding", acceptEncodings)
	}

	if c.jar != nil && c.cookiesAllowed(params) {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}

	return req, nil
}

// cookiesAllowed applies the request's credentials mode: include always
// sends cookies, same-origin (the default) only when the URL shares the
// client's configured origin.
func (c *Client) cookiesAllowed(params RequestParameters) bool {
	if params.Credentials == CredentialsInclude {
		return true
	}
	return c.origin != "" && SameOrigin(params.URL, c.origin)
}

func (c *Client) protocolError(status int, url string) *AJAXError {
	msg := http.StatusText(status)
	if msg == "" {
		msg = fmt.Sprintf("status code %d", status)
	}

	if status == http.StatusUnauthorized && c.hostedAPI != nil && c.hostedAPI.MatchString(url) {
		msg = unauthorizedHint
	}

	return &AJAXError{Status: status, URL: url, Message: msg}
}

func successStatus(status int) bool {
	return (status >= 200 && status < 300) || status == 0
}

// decoderFor selects body decoding by response type: json parses,
// binary passes bytes through, text converts to string.
func decoderFor(params RequestParameters) decodeFn {
	switch params.ResponseType {
	case ResponseJSON:
		return func(body []byte) (any, error) {
			var v any
			if err := json.Unmarshal(body, &v); err != nil {
				return nil, &DecodeError{URL: params.URL, Err: err}
			}
			return v, nil
		}
	case ResponseBinary:
		return func(body []byte) (any, error) { return body, nil }
	default:
		return func(body []byte) (any, error) { return string(body), nil }
	}
}
