package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/filestore"
	"github.com/xxxsen/mdesign/internal/model"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/pkg/timeutil"
	"github.com/xxxsen/mdesign/internal/repo"
)

// FilesRoute is where the API serves stored files back when the store has
// no public URL of its own.
const FilesRoute = "/api/files/"

type AssetService struct {
	assets *repo.AssetRepo
	store  filestore.Store
}

func NewAssetService(assets *repo.AssetRepo, store filestore.Store) *AssetService {
	return &AssetService{assets: assets, store: store}
}

type AssetUploadInput struct {
	OwnerID string
	Name    string
	Body    io.ReadSeeker
	Size    int64
	// BaseURL is the scheme://host the client reached us on.
	BaseURL string
}

func (s *AssetService) Upload(ctx context.Context, input AssetUploadInput) (*model.Asset, error) {
	if input.Body == nil || input.Size <= 0 {
		return nil, appErr.ErrInvalid
	}
	contentType, err := sniffContentType(input.Body)
	if err != nil {
		return nil, err
	}
	key := buildFileKey(input.Name)
	if err := s.store.Save(ctx, key, contentType, input.Body, input.Size); err != nil {
		return nil, err
	}
	url := s.store.URL(key)
	if url == "" {
		url = strings.TrimSuffix(input.BaseURL, "/") + FilesRoute + key
	}
	name := filepath.Base(input.Name)
	if name == "." || name == string(filepath.Separator) {
		name = key
	}
	now := timeutil.NowUnix()
	asset := &model.Asset{
		ID:          newID(),
		OwnerID:     strings.TrimSpace(input.OwnerID),
		FileKey:     key,
		URL:         url,
		Name:        name,
		ContentType: contentType,
		Size:        input.Size,
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("asset uploaded",
		zap.String("key", key),
		zap.String("store", s.store.Type()),
		zap.Int64("size", input.Size),
	)
	return asset, nil
}

// Open returns the asset record with a reader over its bytes. The caller
// closes the reader.
func (s *AssetService) Open(ctx context.Context, key string) (*model.Asset, io.ReadCloser, error) {
	if !filestore.ValidKey(key) {
		return nil, nil, appErr.ErrInvalid
	}
	asset, err := s.assets.GetByKey(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		logutil.GetLogger(ctx).Warn("asset missing from store", zap.String("key", key), zap.Error(err))
		return nil, nil, appErr.ErrNotFound
	}
	return asset, rc, nil
}

func sniffContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func buildFileKey(filename string) string {
	base := strings.ReplaceAll(newID(), "-", "")
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !filestore.ValidKey(ext) {
		return base
	}
	return base + ext
}
