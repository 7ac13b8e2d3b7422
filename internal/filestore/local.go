package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localConfig struct {
	Dir       string `json:"dir"`
	PublicURL string `json:"public_url"`
}

type localStore struct {
	dir       string
	publicURL string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(args interface{}) (Store, error) {
	config := &localConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Dir == "" {
		return nil, fmt.Errorf("local store dir is required")
	}
	return &localStore{dir: config.Dir, publicURL: config.PublicURL}, nil
}

func (s *localStore) Type() string {
	return "local"
}

func (s *localStore) URL(key string) string {
	if s.publicURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.publicURL, "/") + "/" + strings.TrimPrefix(key, "/")
}

func (s *localStore) Save(ctx context.Context, key, contentType string, r io.ReadSeeker, size int64) error {
	_ = ctx
	if !ValidKey(key) {
		return fmt.Errorf("invalid file key")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	out, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err = io.Copy(out, r)
	return err
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	_ = ctx
	if !ValidKey(key) {
		return nil, fmt.Errorf("invalid file key")
	}
	return os.Open(filepath.Join(s.dir, key))
}
