package imageload

import (
	"bytes"
	"context"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Pioneer6/glfetch/fetch"
)

// decodeFailureMessage is delivered verbatim when image bytes cannot be
// decoded. Vector formats are called out because they are the most
// common surprise: they must be rasterized before loading.
const decodeFailureMessage = "could not decode image: unsupported or corrupt format " +
	"(vector formats such as SVG are not supported)"

// Image is a decoded, displayable image plus the cache metadata relayed
// from the fetch, for caller-side cache policy.
type Image struct {
	image.Image

	CacheControl string
	Expires      string
}

// BinaryFetcher is the slice of the fetch client the loader needs.
// *fetch.Client satisfies it.
type BinaryFetcher interface {
	FetchBinary(ctx context.Context, params fetch.RequestParameters, cb fetch.Callback) *fetch.Handle
}

// Callback receives the decoded image or an error, never both.
type Callback func(err error, img *Image)

// Load fetches params.URL as raw bytes and decodes them into an Image.
// Bytes are always fetched over plain HTTP rather than any host image
// cache, so decoding happens here and the byte buffer is dropped as
// soon as the decode finishes.
//
// A zero-length body yields a 1×1 transparent placeholder instead of a
// decode attempt. Canceling the returned handle aborts the fetch;
// once the fetch has completed, a pending decode runs to completion.
func Load(ctx context.Context, f BinaryFetcher, params fetch.RequestParameters, cb Callback) *fetch.Handle {
	return f.FetchBinary(ctx, params, func(err error, data any, cacheControl, expires string) {
		if err != nil {
			cb(err, nil)
			return
		}

		raw, _ := data.([]byte)
		if len(raw) == 0 {
			cb(nil, &Image{Image: transparentPixel(), CacheControl: cacheControl, Expires: expires})
			return
		}

		ref := refs.add(raw)
		img, derr := decodeRef(ref)
		refs.release(ref)
		if derr != nil {
			cb(&fetch.DecodeError{URL: params.URL, Err: derr}, nil)
			return
		}

		cb(nil, &Image{Image: img, CacheControl: cacheControl, Expires: expires})
	})
}

// decodeRef decodes the referenced bytes. The reference stays live for
// the duration of the decode; the caller releases it.
func decodeRef(id uuid.UUID) (image.Image, error) {
	raw, ok := refs.get(id)
	if !ok {
		return nil, errors.New("image reference already released")
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.New(decodeFailureMessage)
	}

	return img, nil
}

// transparentPixel returns the fixed placeholder for empty responses.
// A zero-valued NRGBA pixel is fully transparent.
func transparentPixel() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}
