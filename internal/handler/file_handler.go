package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/pkg/response"
	"github.com/xxxsen/mdesign/internal/service"
)

// multipart framing on top of the file itself
const uploadOverhead = 1 << 20

type FileHandler struct {
	assets   *service.AssetService
	maxBytes int64
}

func NewFileHandler(assets *service.AssetService, maxBytes int64) *FileHandler {
	return &FileHandler{assets: assets, maxBytes: maxBytes}
}

func (h *FileHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+uploadOverhead)
	}
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(c, h.tooLarge())
			return
		}
		response.Error(c, http.StatusBadRequest, "file is required")
		return
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		handleError(c, h.tooLarge())
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to open file")
		return
	}
	defer opened.Close()

	asset, err := h.assets.Upload(c.Request.Context(), service.AssetUploadInput{
		OwnerID: c.PostForm("owner_id"),
		Name:    file.Filename,
		Body:    opened,
		Size:    file.Size,
		BaseURL: requestBaseURL(c),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, asset)
}

func (h *FileHandler) Get(c *gin.Context) {
	asset, rc, err := h.assets.Open(c.Request.Context(), c.Param("key"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer rc.Close()
	c.Header("Content-Type", asset.ContentType)
	c.Header("Content-Length", strconv.FormatInt(asset.Size, 10))
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

func (h *FileHandler) tooLarge() error {
	return fmt.Errorf("file exceeds %s: %w", limitText(h.maxBytes), appErr.ErrTooLarge)
}

// limitText renders n bytes in the largest unit that divides it, so the
// message never rounds a limit the client would then exceed.
func limitText(n int64) string {
	units := []struct {
		size int64
		name string
	}{{1 << 20, "MB"}, {1 << 10, "KB"}}
	for _, u := range units {
		if n >= u.size && n%u.size == 0 {
			return strconv.FormatInt(n/u.size, 10) + u.name
		}
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
