// Package storage stores uploaded service order photos on the local disk
// under the configured media root.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"github.com/google/uuid"
)

// photoFormField is the multipart field the staff panel uploads photos under.
const photoFormField = "photos"

type diskPhotoStore struct {
	root   string
	logger logger.Logger
}

// NewDiskPhotoStore creates a PhotoStore that writes files below the media
// root, creating the directory when needed
func NewDiskPhotoStore(settings *config.StorageSettings, logger logger.Logger) (orders.PhotoStore, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage settings: %w", err)
	}

	if err := os.MkdirAll(settings.MediaRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}

	return &diskPhotoStore{
		root:   settings.MediaRoot,
		logger: logger,
	}, nil
}

func (s *diskPhotoStore) Upload(ctx context.Context, form *multipart.Form, orderID int64) ([]*orders.ServiceOrderPhoto, error) {
	var photoList []*orders.ServiceOrderPhoto

	for _, fileHeader := range form.File[photoFormField] {
		photo, err := s.storeFile(fileHeader, orderID)
		if err != nil {
			return nil, err
		}
		photoList = append(photoList, photo)
	}

	return photoList, nil
}

func (s *diskPhotoStore) storeFile(fileHeader *multipart.FileHeader, orderID int64) (*orders.ServiceOrderPhoto, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Warn("Failed to close uploaded file: ", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	// Stored paths use forward slashes regardless of the host OS
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	relPath := path.Join("service_photos", fmt.Sprintf("order_%d", orderID), uuid.NewString()+ext)

	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	s.logger.Info("Stored photo ", relPath)

	return &orders.ServiceOrderPhoto{
		OrderID: orderID,
		Path:    relPath,
	}, nil
}

func (s *diskPhotoStore) Download(ctx context.Context, photoPath string) ([]byte, error) {
	fullPath, err := s.resolve(photoPath)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	return content, nil
}

func (s *diskPhotoStore) Delete(ctx context.Context, photoPath string) error {
	fullPath, err := s.resolve(photoPath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	s.logger.Info("Deleted photo ", photoPath)
	return nil
}

func (s *diskPhotoStore) Exists(ctx context.Context, photoPath string) (bool, error) {
	fullPath, err := s.resolve(photoPath)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat photo: %w", err)
	}
	return true, nil
}

// resolve maps a stored path onto the media root, refusing anything that
// would escape it.
func (s *diskPhotoStore) resolve(photoPath string) (string, error) {
	cleaned := path.Clean(photoPath)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || path.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid photo path %q", photoPath)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
