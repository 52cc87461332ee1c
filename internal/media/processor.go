package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 2048
	DefaultMaxPixels    = 40_000_000
	jpegQuality         = 85
	minSide             = 2
)

var (
	ErrEmptyImage    = errors.New("media: empty image")
	ErrImageTooLarge = errors.New("media: image has too many pixels")
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// formats lists the image types accepted for ratings and content, with the
// type each is written as after a resize. Only JPEG and PNG encoders exist, so
// WebP becomes JPEG and GIF keeps its first frame as PNG.
var formats = map[string]struct {
	ext     string
	resized string
}{
	"image/jpeg": {".jpg", "image/jpeg"},
	"image/png":  {".png", "image/png"},
	"image/webp": {".webp", "image/jpeg"},
	"image/gif":  {".gif", "image/png"},
}

// ResizeProcessor shrinks images so the longest side fits a limit. Images
// whose decoded area exceeds maxPixels are refused before any pixel data is
// decoded.
type ResizeProcessor struct {
	maxDimension int
	maxPixels    int64
}

func NewResizeProcessor(maxDimension int, maxPixels int64) *ResizeProcessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &ResizeProcessor{maxDimension: maxDimension, maxPixels: maxPixels}
}

func (p *ResizeProcessor) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, ErrEmptyImage
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if maxDimension <= 0 {
		maxDimension = p.maxDimension
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("media: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrImageTooLarge, cfg.Width, cfg.Height, p.maxPixels)
	}
	contentType := canonicalType(upload.ContentType, upload.FileName)
	if cfg.Width <= maxDimension && cfg.Height <= maxDimension {
		return &Result{Bytes: data, ContentType: contentType, Width: cfg.Width, Height: cfg.Height}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode: %w", err)
	}
	w, h := scaleToFit(cfg.Width, cfg.Height, maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out, outType, err := encode(dst, contentType)
	if err != nil {
		return nil, err
	}
	return &Result{Bytes: out, ContentType: outType, Width: w, Height: h, Resized: true}, nil
}

func encode(img image.Image, contentType string) ([]byte, string, error) {
	f, ok := formats[contentType]
	if !ok {
		return nil, "", fmt.Errorf("media: unsupported content type %s", contentType)
	}
	var buf bytes.Buffer
	var err error
	if f.resized == "image/jpeg" {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("media: encode %s: %w", f.resized, err)
	}
	return buf.Bytes(), f.resized, nil
}

// scaleToFit keeps the aspect ratio and never returns a side below minSide.
func scaleToFit(width, height, maxDim int) (int, int) {
	long, short := width, height
	if height > width {
		long, short = height, width
	}
	scaled := int(math.Round(float64(short) * float64(maxDim) / float64(long)))
	scaled = max(scaled, minSide)
	if width >= height {
		return max(maxDim, minSide), scaled
	}
	return scaled, max(maxDim, minSide)
}

func canonicalType(contentType, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	if _, ok := formats[ct]; ok {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	for t, f := range formats {
		if f.ext == ext {
			return t
		}
	}
	if ct != "" {
		return ct
	}
	return "image/jpeg"
}

// ExtensionFor returns the object name suffix for contentType.
func ExtensionFor(contentType string) string {
	if f, ok := formats[canonicalType(contentType, "")]; ok {
		return f.ext
	}
	return ".bin"
}
