package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime"
	"net/url"
	"strings"

	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var mimeTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}

var formatsByMime = map[string]imaging.Format{
	"image/jpeg":     imaging.JPEG,
	"image/jpg":      imaging.JPEG,
	"image/pjpeg":    imaging.JPEG,
	"image/png":      imaging.PNG,
	"image/x-png":    imaging.PNG,
	"image/gif":      imaging.GIF,
	"image/tiff":     imaging.TIFF,
	"image/bmp":      imaging.BMP,
	"image/x-bmp":    imaging.BMP,
	"image/x-ms-bmp": imaging.BMP,
}

// Codec detects, decodes and encodes source images. Output always keeps the source format.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// DetectFormat tries the declared content type, then the URL path extension,
// then the bytes themselves.
func (c *Codec) DetectFormat(contentType *string, sourceURL string, data []byte) (imaging.Format, error) {
	if contentType != nil {
		if f, ok := formatFromMime(*contentType); ok {
			return f, nil
		}
	}

	if f, ok := formatFromURL(sourceURL); ok {
		return f, nil
	}

	if f, ok := formatFromMime(mimetype.Detect(data).String()); ok {
		return f, nil
	}

	return 0, errs.ErrUnableToDetermineFormat
}

// DecodeConfig reads only the header, so dimensions can be checked before pixels are allocated.
func (c *Codec) DecodeConfig(data []byte, format imaging.Format) (image.Config, error) {
	r := bytes.NewReader(data)

	var (
		cfg image.Config
		err error
	)

	switch format {
	case imaging.JPEG:
		cfg, err = jpeg.DecodeConfig(r)
	case imaging.PNG:
		cfg, err = png.DecodeConfig(r)
	case imaging.GIF:
		cfg, err = gif.DecodeConfig(r)
	case imaging.TIFF:
		cfg, err = tiff.DecodeConfig(r)
	case imaging.BMP:
		cfg, err = bmp.DecodeConfig(r)
	default:
		return image.Config{}, fmt.Errorf("Codec - DecodeConfig - format %v: %w", format, imaging.ErrUnsupportedFormat)
	}
	if err != nil {
		return image.Config{}, fmt.Errorf("Codec - DecodeConfig - %v: %w", format, err)
	}

	return cfg, nil
}

func (c *Codec) Decode(data []byte, format imaging.Format) (image.Image, error) {
	r := bytes.NewReader(data)

	var (
		img image.Image
		err error
	)

	switch format {
	case imaging.JPEG:
		img, err = jpeg.Decode(r)
	case imaging.PNG:
		img, err = png.Decode(r)
	case imaging.GIF:
		img, err = gif.Decode(r)
	case imaging.TIFF:
		img, err = tiff.Decode(r)
	case imaging.BMP:
		img, err = bmp.Decode(r)
	default:
		return nil, fmt.Errorf("Codec - Decode - format %v: %w", format, imaging.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("Codec - Decode - %v: %w", format, err)
	}

	return img, nil
}

// Encode returns the encoded bytes and their content type.
func (c *Codec) Encode(img image.Image, format imaging.Format) ([]byte, string, error) {
	var buf bytes.Buffer

	err := imaging.Encode(&buf, img, format)
	if err != nil {
		return nil, "", fmt.Errorf("Codec - Encode - imaging.Encode: %w", err)
	}

	return buf.Bytes(), MimeType(format), nil
}

func MimeType(format imaging.Format) string {
	return mimeTypes[format]
}

func formatFromMime(contentType string) (imaging.Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return 0, false
	}

	f, ok := formatsByMime[strings.ToLower(mediaType)]

	return f, ok
}

func formatFromURL(sourceURL string) (imaging.Format, bool) {
	path := sourceURL
	if u, err := url.Parse(sourceURL); err == nil {
		path = u.Path
	}

	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, false
	}

	return f, true
}
