package throttle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewRoundTripper_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		expErr error
	}{
		{"zero rps", Config{RPS: 0, Burst: 10}, ErrMustBePositive},
		{"negative rps", Config{RPS: -5, Burst: 10}, ErrMustBePositive},
		{"zero burst", Config{RPS: 10, Burst: 0}, ErrMustBePositive},
		{"negative burst", Config{RPS: 10, Burst: -5}, ErrMustBePositive},
		{"valid input", Config{RPS: 10, Burst: 20}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt, err := NewRoundTripper(tc.cfg, func() *slog.Logger { return nil }, http.DefaultTransport)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if rt == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

func TestRoundTrip_SlowsDownPastBurst(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	rt, err := NewRoundTripper(Config{RPS: 10, Burst: 2}, func() *slog.Logger { return nil }, http.DefaultTransport)
	if err != nil {
		t.Fatalf("NewRoundTripper: %v", err)
	}
	client := &http.Client{Transport: rt}

	start := time.Now()
	for range 4 {
		resp, err := client.Get(ts.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
	}

	// Two requests consume the burst; two more must wait ~100ms each.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("4 requests at rps=10 burst=2 took %v, expected throttling to slow them down", elapsed)
	}
}

func TestRoundTrip_ExpiredContext(t *testing.T) {
	rt, err := NewRoundTripper(Config{RPS: 1, Burst: 1}, func() *slog.Logger { return nil }, http.DefaultTransport)
	if err != nil {
		t.Fatalf("NewRoundTripper: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://a.test", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}

	if _, err := rt.RoundTrip(req); !errors.Is(err, ErrContextEnded) {
		t.Errorf("expected ErrContextEnded, got: %v", err)
	}
}
