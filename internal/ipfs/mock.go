package ipfs

import (
	"context"
	"io"
	"strconv"
	"time"

	"EsportsHub/internal/config"
	"EsportsHub/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// MockPinner 未配置 API key 时使用，丢弃内容并返回占位 uri
type MockPinner struct {
	logger *logrus.Logger
	now    func() time.Time
}

func NewMockPinner(logger *logrus.Logger) *MockPinner {
	return &MockPinner{logger: logger, now: time.Now}
}

var _ interfaces.ContentAdapter = (*MockPinner)(nil)

func (m *MockPinner) Mocked() bool { return true }

func (m *MockPinner) UploadVideo(_ context.Context, file io.Reader, meta interfaces.VideoMeta) (string, error) {
	n, _ := io.Copy(io.Discard, file)
	m.logger.WithFields(logrus.Fields{
		"file_name": meta.FileName,
		"title":     meta.Title,
		"creator":   meta.Creator,
		"bytes":     n,
	}).Info("Mock uploadVideo")
	return "ipfs://mock-video-hash-" + strconv.FormatInt(m.now().UnixMilli(), 10), nil
}

func (m *MockPinner) UploadJSON(_ context.Context, v any) (string, error) {
	m.logger.WithField("data", v).Info("Mock uploadJSON")
	return "ipfs://mock-json-hash-" + strconv.FormatInt(m.now().UnixMilli(), 10), nil
}

// NewContentAdapter 配置了 API key 才使用真实 pinning 服务
func NewContentAdapter(cfg config.ContentConfig, logger *logrus.Logger) interfaces.ContentAdapter {
	if cfg.APIKey == "" {
		logger.Info("未配置 pinning API key，上传使用 mock")
		return NewMockPinner(logger)
	}
	logger.WithField("base_url", cfg.BaseURL).Info("pinning 服务已配置")
	return NewClient(cfg, logger)
}
