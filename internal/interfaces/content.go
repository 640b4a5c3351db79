package interfaces

import (
	"context"
	"io"
)

// VideoMeta 上传视频时附带的元数据
type VideoMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Creator     string `json:"creator"`
	FileName    string `json:"fileName"`
	ContentType string `json:"fileType"`
	Size        int64  `json:"fileSize"`
}

// ContentAdapter 文件 pinning 能力（未配置 key 时返回占位 uri）
type ContentAdapter interface {
	// UploadVideo 上传视频文件，返回 ipfs://<cid>
	UploadVideo(ctx context.Context, file io.Reader, meta VideoMeta) (string, error)
	// UploadJSON 上传任意 JSON 元数据，返回 ipfs://<cid>
	UploadJSON(ctx context.Context, v any) (string, error)
	Mocked() bool
}
