package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"eventease/config"
	apperrors "eventease/pkg/app_errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// 上傳目錄
const (
	FolderEventImages = "event-images"
	FolderAvatars     = "avatars"
)

const (
	uploadTimeout = 60 * time.Second
	deleteTimeout = 30 * time.Second
)

type ObjectStorage interface {
	// Upload 上傳檔案並回傳公開網址
	Upload(ctx context.Context, folder string, file io.Reader) (string, error)
	// Delete 依公開網址刪除檔案
	Delete(ctx context.Context, fileURL string) error
}

type CloudinaryStorageImpl struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cfg *config.StorageConfig) (ObjectStorage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return &unconfiguredStorage{}, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryStorageImpl{cld: cld}, nil
}

func (s *CloudinaryStorageImpl) Upload(ctx context.Context, folder string, file io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", apperrors.ErrUploadFailed, resp.Error.Message)
	}

	return resp.SecureURL, nil
}

func (s *CloudinaryStorageImpl) Delete(ctx context.Context, fileURL string) error {
	publicID, err := ExtractPublicID(fileURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

// ExtractPublicID 從 Cloudinary 網址取出 public id
// 例：https://res.cloudinary.com/demo/image/upload/v1234567890/event-images/abc123.jpg -> event-images/abc123
func ExtractPublicID(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", err
	}

	_, rest, found := strings.Cut(parsed.Path, "/upload/")
	if !found || rest == "" {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	parts := strings.Split(rest, "/")
	if len(parts) > 1 && isVersion(parts[0]) {
		parts = parts[1:]
	}

	joined := path.Join(parts...)
	return strings.TrimSuffix(joined, path.Ext(joined)), nil
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// unconfiguredStorage 未設定 Cloudinary 時使用，上傳一律失敗
type unconfiguredStorage struct{}

func (unconfiguredStorage) Upload(ctx context.Context, folder string, file io.Reader) (string, error) {
	return "", fmt.Errorf("%w: object storage is not configured", apperrors.ErrUploadFailed)
}

func (unconfiguredStorage) Delete(ctx context.Context, fileURL string) error {
	return nil
}
