package api

import (
	"errors"
	"net/http"

	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/ipfs"
	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VideoHandler 视频上传与点赞接口
type VideoHandler struct {
	videoService *service.VideoService
	maxUpload    int64 // 字节
	gateway      string
	logger       *logrus.Logger
}

// NewVideoHandler maxUploadMB <= 0 时不限制
func NewVideoHandler(svc *service.VideoService, maxUploadMB int64, gateway string, logger *logrus.Logger) *VideoHandler {
	return &VideoHandler{videoService: svc, maxUpload: maxUploadMB << 20, gateway: gateway, logger: logger}
}

// ListVideos GET /api/videos
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.videoService.ListVideos(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListVideos", err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

// UploadVideo POST /api/videos/upload，multipart 字段 video + title/description/category/creator
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
	fh, err := c.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Video file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file provided"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.logger, "UploadVideo", err)
		return
	}
	defer f.Close()

	video, txHash, err := h.videoService.UploadVideo(c.Request.Context(), f, interfaces.VideoMeta{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Creator:     c.PostForm("creator"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
	if err != nil {
		respondError(c, h.logger, "UploadVideo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"video":      video,
		"ipfsHash":   video.IPFSHash,
		"gatewayUrl": ipfs.ToGatewayURL(video.IPFSHash, h.gateway),
		"txHash":     txHash,
	})
}

// LikeVideo POST /api/videos/:id/like
func (h *VideoHandler) LikeVideo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	video, err := h.videoService.LikeVideo(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "LikeVideo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "video": video})
}

// ViewVideo POST /api/videos/:id/view
func (h *VideoHandler) ViewVideo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	video, err := h.videoService.ViewVideo(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "ViewVideo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "video": video})
}

// VerifyVideo POST /api/admin/videos/:id/verify
func (h *VideoHandler) VerifyVideo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	video, txHash, err := h.videoService.VerifyVideo(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "VerifyVideo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "video": video, "txHash": txHash})
}
