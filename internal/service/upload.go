package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_admin/internal/logging"
	"github.com/Skotchmaster/shop_admin/internal/storage"
)

const (
	MaxImageSize = 5 << 20
	MaxSpecSize  = 10 << 20
)

var (
	imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	specTypes  = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	specExts = []string{".pdf", ".doc", ".docx"}
)

type FileStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	FileRemover
}

type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadService struct {
	Files       FileStore
	ImageBucket string
	SpecsBucket string
}

// UploadImage stores a product image under a random key and returns its public URL.
func (s *UploadService) UploadImage(ctx context.Context, f UploadedFile) (string, error) {
	if s.Files == nil {
		return "", ErrStorageDisabled
	}
	if len(f.Data) == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if len(f.Data) > MaxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d bytes", ErrValidation, MaxImageSize)
	}
	if !slices.Contains(imageTypes, f.ContentType) {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrValidation, f.ContentType)
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	if ext == "" {
		ext = ".jpg"
	}
	key := uuid.NewString() + ext

	url, err := s.Files.Upload(ctx, s.ImageBucket, key, bytes.NewReader(f.Data), f.ContentType)
	if err != nil {
		logging.FromContext(ctx).Error("upload_image_error", "status", 500, "key", key, "error", err)
		return "", err
	}
	return url, nil
}

// UploadSpec stores a product document (PDF, DOC or DOCX). oldPath, a key or a public URL
// in the specs bucket, is removed first on a best effort basis.
func (s *UploadService) UploadSpec(ctx context.Context, f UploadedFile, oldPath string) (url, key string, err error) {
	l := logging.FromContext(ctx).With("svc", "upload.spec")
	if s.Files == nil {
		return "", "", ErrStorageDisabled
	}
	if len(f.Data) == 0 {
		return "", "", fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if len(f.Data) > MaxSpecSize {
		return "", "", fmt.Errorf("%w: document exceeds %d bytes", ErrValidation, MaxSpecSize)
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !slices.Contains(specTypes, f.ContentType) || !slices.Contains(specExts, ext) {
		return "", "", fmt.Errorf("%w: only PDF, DOC or DOCX documents are accepted", ErrValidation)
	}

	if old := s.specKey(oldPath); old != "" {
		if err := s.Files.Remove(ctx, s.SpecsBucket, old); err != nil {
			l.Warn("remove_old_spec_failed", "key", old, "error", err)
		}
	}

	key = uuid.NewString() + ext
	url, err = s.Files.Upload(ctx, s.SpecsBucket, key, bytes.NewReader(f.Data), f.ContentType)
	if err != nil {
		l.Error("upload_spec_error", "status", 500, "key", key, "error", err)
		return "", "", err
	}
	return url, key, nil
}

func (s *UploadService) specKey(oldPath string) string {
	oldPath = strings.TrimSpace(oldPath)
	if oldPath == "" {
		return ""
	}
	if bucket, key, ok := storage.ParsePublicURL(oldPath); ok {
		if bucket != s.SpecsBucket {
			return ""
		}
		return key
	}
	if strings.Contains(oldPath, "://") {
		return ""
	}
	return strings.TrimPrefix(oldPath, "/")
}
