package imageload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Pioneer6/glfetch/fetch"
)

type loaded struct {
	err error
	img *Image
}

func loadFrom(t *testing.T, handler http.HandlerFunc) loaded {
	t.Helper()

	ts := httptest.NewServer(handler)
	defer ts.Close()

	c, err := fetch.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	ch := make(chan loaded, 1)
	Load(t.Context(), c, fetch.RequestParameters{URL: ts.URL}, func(err error, img *Image) {
		ch <- loaded{err: err, img: img}
	})

	select {
	case l := <-ch:
		return l
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for image callback")
		return loaded{}
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestLoad_DecodesPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	fixture := encodePNG(t, src)

	l := loadFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=86400")
		w.Header().Set("Expires", "Thu, 01 Jan 2026 00:00:00 GMT")
		w.Write(fixture)
	})

	if l.err != nil {
		t.Fatalf("expected no error, got: %v", l.err)
	}
	if got := l.img.Bounds(); got != image.Rect(0, 0, 2, 2) {
		t.Errorf("bounds = %v, want 2x2", got)
	}
	if l.img.CacheControl != "max-age=86400" {
		t.Errorf("CacheControl = %q, want relayed header", l.img.CacheControl)
	}
	if l.img.Expires == "" {
		t.Error("Expires should carry the relayed header")
	}

	if n := refs.size(); n != 0 {
		t.Errorf("byte references still registered after decode: %d", n)
	}
}

func TestLoad_ZeroByteBody(t *testing.T) {
	l := loadFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if l.err != nil {
		t.Fatalf("expected no error, got: %v", l.err)
	}

	if got := l.img.Bounds(); got != image.Rect(0, 0, 1, 1) {
		t.Errorf("bounds = %v, want the 1x1 placeholder", got)
	}
	if _, _, _, a := l.img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("placeholder pixel alpha = %d, want fully transparent", a)
	}

	if n := refs.size(); n != 0 {
		t.Errorf("zero-byte path must not register a byte reference, found %d", n)
	}
}

func TestLoad_CorruptBytes(t *testing.T) {
	l := loadFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<svg xmlns='http://www.w3.org/2000/svg'/>"))
	})

	if l.img != nil {
		t.Errorf("expected nil image alongside error, got: %v", l.img)
	}

	var decodeErr *fetch.DecodeError
	if !errors.As(l.err, &decodeErr) {
		t.Fatalf("expected *fetch.DecodeError, got: %v", l.err)
	}
	if !strings.Contains(l.err.Error(), "vector formats") {
		t.Errorf("error %q should call out vector formats", l.err)
	}

	// The failure path must release the transient reference too.
	if n := refs.size(); n != 0 {
		t.Errorf("byte references leaked on the failure path: %d", n)
	}
}

func TestLoad_ForwardsFetchErrors(t *testing.T) {
	l := loadFrom(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	var ajaxErr *fetch.AJAXError
	if !errors.As(l.err, &ajaxErr) {
		t.Fatalf("expected the protocol error forwarded unchanged, got: %v", l.err)
	}
	if ajaxErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", ajaxErr.Status)
	}
}

func TestRefTable_AddGetRelease(t *testing.T) {
	data := []byte{1, 2, 3}

	id := refs.add(data)
	got, ok := refs.get(id)
	if !ok {
		t.Fatal("reference missing after add")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("get = %v, want %v", got, data)
	}

	refs.release(id)
	if _, ok := refs.get(id); ok {
		t.Error("reference still resolvable after release")
	}

	refs.release(id) // releasing twice is harmless
	if n := refs.size(); n != 0 {
		t.Errorf("size = %d, want 0", n)
	}
}
