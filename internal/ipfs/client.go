package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"EsportsHub/internal/config"
	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/utils/httpclient"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL NFT.Storage 兼容的 pinning API
const DefaultBaseURL = "https://api.nft.storage"

// Client pinning API 客户端：POST {base}/upload，Bearer 鉴权
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 创建 pinning 客户端
func NewClient(cfg config.ContentConfig, logger *logrus.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.Timeout, Proxy: cfg.Proxy}, logger),
		logger:     logger,
	}
}

var _ interfaces.ContentAdapter = (*Client)(nil)

func (c *Client) Mocked() bool { return false }

// uploadResponse /upload 响应
type uploadResponse struct {
	OK    bool `json:"ok"`
	Value struct {
		CID string `json:"cid"`
	} `json:"value"`
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// nftMetadata 与 ERC-1155 元数据格式一致，image 指向视频本身
type nftMetadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Properties  map[string]any `json:"properties"`
}

// UploadVideo 先上传视频文件，再上传引用该文件的元数据，返回元数据 uri
func (c *Client) UploadVideo(ctx context.Context, file io.Reader, meta interfaces.VideoMeta) (string, error) {
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	videoCID, err := c.upload(ctx, file, contentType)
	if err != nil {
		return "", fmt.Errorf("上传视频失败: %w", err)
	}
	c.logger.WithFields(logrus.Fields{
		"cid":       videoCID,
		"file_name": meta.FileName,
		"size":      meta.Size,
	}).Info("视频文件已 pin")

	uri, err := c.UploadJSON(ctx, nftMetadata{
		Name:        meta.Title,
		Description: meta.Description,
		Image:       "ipfs://" + videoCID,
		Properties: map[string]any{
			"category":   meta.Category,
			"creator":    meta.Creator,
			"uploadedAt": time.Now().UTC().Format(time.RFC3339),
			"fileType":   meta.ContentType,
			"fileSize":   meta.Size,
		},
	})
	if err != nil {
		return "", fmt.Errorf("上传视频元数据失败: %w", err)
	}
	return uri, nil
}

// UploadJSON 上传任意 JSON
func (c *Client) UploadJSON(ctx context.Context, v any) (string, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	id, err := c.upload(ctx, bytes.NewReader(body), "application/json")
	if err != nil {
		return "", err
	}
	return "ipfs://" + id, nil
}

func (c *Client) upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("pinning HTTP 请求失败")
		return "", fmt.Errorf("pinning API 请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result uploadResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		c.logger.WithError(err).WithField("body", string(respBody)).Warn("pinning 响应解析失败")
		return "", fmt.Errorf("pinning API 响应解析失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !result.OK {
		msg := result.Error.Message
		if msg == "" {
			msg = string(respBody)
		}
		c.logger.WithField("status", resp.StatusCode).WithField("message", msg).Warn("pinning API 错误")
		return "", fmt.Errorf("pinning API 错误 %d: %s", resp.StatusCode, msg)
	}

	parsed, err := cid.Decode(result.Value.CID)
	if err != nil {
		return "", fmt.Errorf("pinning API 返回的 cid 非法 %q: %w", result.Value.CID, err)
	}
	return parsed.String(), nil
}
