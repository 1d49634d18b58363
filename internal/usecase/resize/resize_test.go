package resize

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/miniaturs/internal/dto"
	"github.com/andreyxaxa/miniaturs/internal/entity"
	"github.com/andreyxaxa/miniaturs/internal/infrastructure/fetcher"
	"github.com/andreyxaxa/miniaturs/internal/infrastructure/processor"
	"github.com/andreyxaxa/miniaturs/internal/repo"
	"github.com/andreyxaxa/miniaturs/internal/repo/memory"
	"github.com/andreyxaxa/miniaturs/internal/usecase/cache"
	"github.com/andreyxaxa/miniaturs/internal/usecase/validation"
	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/andreyxaxa/miniaturs/pkg/metrics"
	"github.com/andreyxaxa/miniaturs/pkg/signature"
	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
)

const secret = "doyouwanttoknowasecretdoyoupromisenottotellwhoaohoh"

type origin struct {
	srv  *httptest.Server
	hits atomic.Int32
}

// newOrigin serves body for every path. A chunked origin sends no Content-Length.
func newOrigin(t *testing.T, status int, contentType string, body []byte, chunked bool) *origin {
	t.Helper()

	o := &origin{}
	o.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		o.hits.Add(1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		} else {
			w.Header()["Content-Type"] = nil
		}
		if !chunked {
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
		if chunked {
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(o.srv.Close)

	return o
}

type fixture struct {
	uc          *ResizeUseCase
	processed   *memory.BlobStore
	unprocessed *memory.BlobStore
}

func newUseCase(t *testing.T, secret string, limits entity.ValidationLimits, processedStore, unprocessedStore repo.BlobStore) *ResizeUseCase {
	t.Helper()

	m := metrics.New()
	l := logger.Nop()

	return New(
		signature.NewVerifier(secret),
		validation.New(),
		cache.NewProcessed(processedStore, m, l),
		cache.NewUnprocessed(unprocessedStore, m, l),
		fetcher.New(http.DefaultClient),
		processor.NewCodec(),
		processor.NewRunner(),
		limits,
		m,
		l,
	)
}

func defaultFixture(t *testing.T) fixture {
	t.Helper()

	p, u := memory.NewBlobStore(), memory.NewBlobStore()

	return fixture{
		uc:          newUseCase(t, secret, entity.DefaultValidationLimits(), p, u),
		processed:   p,
		unprocessed: u,
	}
}

func signedInput(t *testing.T, target entity.ResizeTarget, url string) dto.ResizeInput {
	t.Helper()

	message := target.String() + "/" + url
	sig, err := signature.Sign(secret, message)
	require.NoError(t, err)

	return dto.ResizeInput{
		Signature:    sig,
		PathAndQuery: "/" + sig + "/" + message,
		Size:         target.String(),
		URL:          url,
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	return cfg.Width, cfg.Height
}

func TestResizeTwoSizesShareOneFetch(t *testing.T) {
	f := defaultFixture(t)
	o := newOrigin(t, http.StatusOK, "image/png", pngImage(t, 64, 48), false)
	url := o.srv.URL + "/images/octopress.png"

	first, err := f.uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 32, Height: 24}, url))
	require.NoError(t, err)
	assert.Equal(t, "image/png", first.ContentType)
	w, h := decodedSize(t, first.Data)
	assert.Equal(t, 32, w)
	assert.Equal(t, 24, h)

	second, err := f.uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: -10, Height: 5}, url))
	require.NoError(t, err)
	w, h = decodedSize(t, second.Data)
	assert.Equal(t, 10, w)
	assert.Equal(t, 5, h)

	assert.Equal(t, int32(1), o.hits.Load())
	assert.Equal(t, 1, f.unprocessed.Len())
	assert.Equal(t, 2, f.processed.Len())
}

func TestResizeRepeatIsServedFromTransformTier(t *testing.T) {
	f := defaultFixture(t)
	o := newOrigin(t, http.StatusOK, "image/png", pngImage(t, 20, 20), false)
	in := signedInput(t, entity.ResizeTarget{Width: 5, Height: 5}, o.srv.URL+"/a.png")

	first, err := f.uc.Resize(context.Background(), in)
	require.NoError(t, err)

	second, err := f.uc.Resize(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), o.hits.Load())
	assert.Equal(t, 1, f.processed.Puts())
	assert.Equal(t, 1, f.unprocessed.Puts())
}

func TestResizeUsesFetchTierWithStoredContentType(t *testing.T) {
	f := defaultFixture(t)
	url := "http://127.0.0.1:1/no-extension"

	contentType := "image/png"
	unprocessed := cache.NewUnprocessed(f.unprocessed, nil, logger.Nop())
	require.NoError(t, unprocessed.Set(context.Background(), pngImage(t, 8, 8), entity.FetchedEntry{
		Request:     entity.FetchRequest{URL: url},
		ContentType: &contentType,
	}))

	res, err := f.uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 4, Height: -4}, url))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, 1, f.processed.Len())
}

func TestResizeRejectsBadSignature(t *testing.T) {
	f := defaultFixture(t)
	o := newOrigin(t, http.StatusOK, "image/png", pngImage(t, 4, 4), false)

	in := signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/a.png")
	in.PathAndQuery += "?tampered=1"

	_, err := f.uc.Resize(context.Background(), in)

	var sigErr *errs.BadSignatureError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, in.Signature, sigErr.Signature)
	assert.Equal(t, int32(0), o.hits.Load())
}

func TestResizeMisconfiguredSecretIsNotUnauthorized(t *testing.T) {
	uc := newUseCase(t, "", entity.DefaultValidationLimits(), memory.NewBlobStore(), memory.NewBlobStore())

	_, err := uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, "http://a.b/c.png"))
	require.ErrorIs(t, err, signature.ErrCouldNotUseKey)

	var sigErr *errs.BadSignatureError
	assert.False(t, errors.As(err, &sigErr))
}

func TestResizeRejectsOversizedTargetBeforeFetching(t *testing.T) {
	limits := entity.DefaultValidationLimits()
	limits.MaxResizeWidth = 100
	limits.MaxResizeHeight = 100
	uc := newUseCase(t, secret, limits, memory.NewBlobStore(), memory.NewBlobStore())
	o := newOrigin(t, http.StatusOK, "image/png", pngImage(t, 4, 4), false)

	_, err := uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: -101, Height: 101}, o.srv.URL+"/a.png"))

	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Messages, 2)
	assert.Contains(t, vErr.Messages[0], "Resize target width")
	assert.Contains(t, vErr.Messages[1], "Resize target height")
	assert.Equal(t, int32(0), o.hits.Load())
}

func TestResizeDownloadLimits(t *testing.T) {
	body := pngImage(t, 16, 16)

	tests := []struct {
		name       string
		chunked    bool
		wantPrefix string
	}{
		{name: "declared size over the limit", chunked: false, wantPrefix: "Image download size"},
		{name: "actual size over the limit", chunked: true, wantPrefix: "Image size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limits := entity.DefaultValidationLimits()
			limits.MaxDownloadSize = uint64(len(body) - 1)
			limits.MaxSourceSize = uint64(len(body) - 1)

			unprocessed := memory.NewBlobStore()
			uc := newUseCase(t, secret, limits, memory.NewBlobStore(), unprocessed)
			o := newOrigin(t, http.StatusOK, "image/png", body, tc.chunked)

			_, err := uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/a.png"))

			var vErr *errs.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Len(t, vErr.Messages, 1)
			assert.Contains(t, vErr.Messages[0], tc.wantPrefix)
			assert.Equal(t, 0, unprocessed.Len())
		})
	}
}

func TestResizeRejectsOversizedSource(t *testing.T) {
	limits := entity.DefaultValidationLimits()
	limits.MaxSourceWidth = 10
	limits.MaxSourceHeight = 10
	processed := memory.NewBlobStore()
	uc := newUseCase(t, secret, limits, processed, memory.NewBlobStore())
	o := newOrigin(t, http.StatusOK, "image/png", pngImage(t, 11, 11), false)

	_, err := uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/a.png"))

	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		"Source image width [11] too large, must be [10] or lower",
		"Source image height [11] too large, must be [10] or lower",
	}, vErr.Messages)
	assert.Equal(t, 0, processed.Len())
}

func TestResizeReportsTruncatedBodyWithoutQuotingItsLength(t *testing.T) {
	limits := entity.DefaultValidationLimits()
	limits.MaxSourceSize = 1000
	uc := newUseCase(t, secret, limits, memory.NewBlobStore(), memory.NewBlobStore())
	o := newOrigin(t, http.StatusOK, "image/png", bytes.Repeat([]byte{0x42}, 5000), true)

	_, err := uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/a.png"))

	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		"Image size [more than 1.0 kB] is too large, must be [1.0 kB] or lower",
	}, vErr.Messages)
}

// countingCodec records full decodes.
type countingCodec struct {
	*processor.Codec
	decodes atomic.Int32
}

func (c *countingCodec) Decode(data []byte, format imaging.Format) (image.Image, error) {
	c.decodes.Add(1)

	return c.Codec.Decode(data, format)
}

func TestResizeChecksSourceDimensionsBeforeDecoding(t *testing.T) {
	limits := entity.DefaultValidationLimits()
	limits.MaxSourceWidth = 100
	limits.MaxSourceHeight = 100

	// the header claims 12000x12000 while the file stays tiny
	data := pngImage(t, 1, 1)
	binary.BigEndian.PutUint32(data[16:20], 12000)
	binary.BigEndian.PutUint32(data[20:24], 12000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	m := metrics.New()
	l := logger.Nop()
	codec := &countingCodec{Codec: processor.NewCodec()}
	processed := memory.NewBlobStore()
	uc := New(
		signature.NewVerifier(secret),
		validation.New(),
		cache.NewProcessed(processed, m, l),
		cache.NewUnprocessed(memory.NewBlobStore(), m, l),
		fetcher.New(http.DefaultClient),
		codec,
		processor.NewRunner(),
		limits,
		m,
		l,
	)
	o := newOrigin(t, http.StatusOK, "image/png", data, false)

	_, err := uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/big.png"))

	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		"Source image width [12000] too large, must be [100] or lower",
		"Source image height [12000] too large, must be [100] or lower",
	}, vErr.Messages)
	assert.Zero(t, codec.decodes.Load())
	assert.Equal(t, 0, processed.Len())
}

func TestResizeUndeterminableFormat(t *testing.T) {
	f := defaultFixture(t)
	o := newOrigin(t, http.StatusOK, "text/plain", []byte("just some text"), false)

	_, err := f.uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/file"))
	require.ErrorIs(t, err, errs.ErrUnableToDetermineFormat)
}

func TestResizeCorruptSourceIsInternal(t *testing.T) {
	f := defaultFixture(t)
	o := newOrigin(t, http.StatusOK, "image/png", []byte("not really a png"), false)

	_, err := f.uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/a.png"))
	require.Error(t, err)

	var vErr *errs.ValidationError
	assert.False(t, errors.As(err, &vErr))
	assert.NotErrorIs(t, err, errs.ErrUnableToDetermineFormat)
	assert.Equal(t, 0, f.processed.Len())
}

func TestResizeOriginFailure(t *testing.T) {
	f := defaultFixture(t)
	o := newOrigin(t, http.StatusNotFound, "text/plain", []byte("nope"), false)

	_, err := f.uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, o.srv.URL+"/a.png"))
	require.Error(t, err)
	assert.Equal(t, 0, f.unprocessed.Len())
}

type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) Get(context.Context, string) (*repo.Blob, error) {
	return nil, errStoreDown
}

func (brokenStore) Put(context.Context, string, []byte, string, map[string]string) error {
	return errStoreDown
}

func TestResizeCacheBackendFailurePropagates(t *testing.T) {
	uc := newUseCase(t, secret, entity.DefaultValidationLimits(), brokenStore{}, memory.NewBlobStore())

	_, err := uc.Resize(context.Background(), signedInput(t, entity.ResizeTarget{Width: 2, Height: 2}, "http://a.b/c.png"))
	require.ErrorIs(t, err, errStoreDown)
}

func TestMetadataNeverFetches(t *testing.T) {
	f := defaultFixture(t)
	url := "http://127.0.0.1:1/images/lol.png"

	meta, err := f.uc.Metadata(context.Background(), signedInput(t, entity.ResizeTarget{Width: -100, Height: -300}, url))
	require.NoError(t, err)
	assert.Equal(t, url, meta.URL)
	assert.Equal(t, entity.Operations{entity.Resize(100, 300), entity.FlipHorizontal(), entity.FlipVertical()}, meta.Operations)
	assert.Equal(t, 0, f.processed.Len())
	assert.Equal(t, 0, f.unprocessed.Len())
}

func TestMetadataChecksSignature(t *testing.T) {
	f := defaultFixture(t)

	in := signedInput(t, entity.ResizeTarget{Width: 1, Height: 1}, "http://a.b/c.png")
	in.Signature = "lol"

	_, err := f.uc.Metadata(context.Background(), in)

	var sigErr *errs.BadSignatureError
	require.ErrorAs(t, err, &sigErr)
}

func TestResizeRejectsMalformedSizeAfterSignature(t *testing.T) {
	f := defaultFixture(t)

	message := "12xnope/http://a.b/c.png"
	sig, err := signature.Sign(secret, message)
	require.NoError(t, err)

	_, err = f.uc.Resize(context.Background(), dto.ResizeInput{
		Signature:    sig,
		PathAndQuery: "/" + sig + "/" + message,
		Size:         "12xnope",
		URL:          "http://a.b/c.png",
	})
	require.ErrorIs(t, err, errs.ErrInvalidResizeTarget)

	// an unsigned malformed request is still unauthorized
	_, err = f.uc.Resize(context.Background(), dto.ResizeInput{
		Signature:    "lol",
		PathAndQuery: "/lol/" + message,
		Size:         "12xnope",
		URL:          "http://a.b/c.png",
	})
	var sigErr *errs.BadSignatureError
	require.ErrorAs(t, err, &sigErr)
}
