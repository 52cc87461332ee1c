package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/explorekarawang/directory-api/internal/media"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

const defaultMaxUploadBytes = int64(5 * 1024 * 1024)

var defaultAllowedMIMEs = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

type UploadServiceConfig struct {
	Bucket            string
	MaxBytes          int64
	AllowedMIMETypes  []string
	ImageProcessor    media.Processor
	ImageMaxDimension int
}

type UploadInput struct {
	Reader   io.Reader
	FileName string
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type UploadService struct {
	storage ports.ObjectStorage

	bucket            string
	maxBytes          int64
	allowedMIMEs      map[string]struct{}
	imageProcessor    media.Processor
	imageMaxDimension int
	now               func() time.Time
}

// NewUploadService returns a service that stores images in storage. A nil
// storage yields a service whose uploads fail with ErrUploadsDisabled.
func NewUploadService(storage ports.ObjectStorage, cfg UploadServiceConfig) *UploadService {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	allowed := cfg.AllowedMIMETypes
	if len(allowed) == 0 {
		allowed = defaultAllowedMIMEs
	}
	mimeSet := make(map[string]struct{}, len(allowed))
	for _, mt := range allowed {
		mimeSet[strings.ToLower(strings.TrimSpace(mt))] = struct{}{}
	}
	maxDimension := cfg.ImageMaxDimension
	if maxDimension <= 0 {
		maxDimension = media.DefaultMaxDimension
	}
	return &UploadService{
		storage:           storage,
		bucket:            strings.TrimSpace(cfg.Bucket),
		maxBytes:          maxBytes,
		allowedMIMEs:      mimeSet,
		imageProcessor:    cfg.ImageProcessor,
		imageMaxDimension: maxDimension,
		now:               time.Now,
	}
}

func (s *UploadService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *UploadService) Enabled() bool {
	return s.storage != nil && s.bucket != ""
}

func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, ErrUploadsDisabled
	}
	if input.Reader == nil {
		return nil, fmt.Errorf("%w: file is required", ErrValidation)
	}
	data, err := io.ReadAll(io.LimitReader(input.Reader, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", ErrValidation, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, s.maxBytes)
	}

	detected := mimetype.Detect(data).String()
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(detected, ";")[0]))
	if _, ok := s.allowedMIMEs[contentType]; !ok {
		return nil, fmt.Errorf("%w: unsupported file type %s", ErrValidation, contentType)
	}

	data, contentType, err = s.downscale(ctx, data, input.FileName, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: process image: %v", ErrValidation, err)
	}
	size := int64(len(data))

	key, err := s.objectKey(contentType)
	if err != nil {
		return nil, err
	}
	url, err := s.storage.Upload(ctx, s.bucket, key, contentType, bytes.NewReader(data), size)
	if err != nil {
		return nil, fmt.Errorf("%w: upload object: %v", ErrStoreFailure, err)
	}
	return &UploadResult{URL: url, Key: key, ContentType: contentType, Size: size}, nil
}

// downscale passes data through the image processor when one is configured.
func (s *UploadService) downscale(ctx context.Context, data []byte, fileName, contentType string) ([]byte, string, error) {
	if s.imageProcessor == nil {
		return data, contentType, nil
	}
	result, err := s.imageProcessor.Process(ctx, media.Upload{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		FileName:    fileName,
		ContentType: contentType,
	}, s.imageMaxDimension)
	if err != nil {
		return nil, "", err
	}
	return result.Bytes, result.ContentType, nil
}

// objectKey builds uploads/YYYY/MM/<unix-ms>-<random>.<ext>.
func (s *UploadService) objectKey(contentType string) (string, error) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("random object suffix: %w", err)
	}
	now := s.now().UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%d-%s%s",
		now.Year(), int(now.Month()), now.UnixMilli(), hex.EncodeToString(suffix), media.ExtensionFor(contentType),
	), nil
}
