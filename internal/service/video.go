package service

import (
	"context"
	"fmt"
	"io"

	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/ipfs"
	"EsportsHub/internal/model"
	"EsportsHub/internal/realtime"
	"EsportsHub/internal/repository"

	"github.com/sirupsen/logrus"
)

const defaultVideoCategory = "Gaming"

// VideoService 比赛视频上传与互动
type VideoService struct {
	videos  repository.VideoRepository
	chain   interfaces.BlockchainAdapter
	content interfaces.ContentAdapter
	pub     realtime.Publisher
	logger  *logrus.Logger
}

func NewVideoService(store repository.Store, chain interfaces.BlockchainAdapter, content interfaces.ContentAdapter, pub realtime.Publisher, logger *logrus.Logger) *VideoService {
	return &VideoService{
		videos:  store,
		chain:   chain,
		content: content,
		pub:     pub,
		logger:  logger,
	}
}

// RegisterVideoInput 已 pin 好的视频登记参数
type RegisterVideoInput struct {
	IPFSHash    string
	Title       string
	Description string
	Category    string
	Creator     string
}

func (s *VideoService) ListVideos(ctx context.Context) ([]*model.Video, error) {
	return s.videos.ListVideos(ctx)
}

func (s *VideoService) GetVideo(ctx context.Context, id uint64) (*model.Video, error) {
	return s.videos.GetVideo(ctx, id)
}

// UploadVideo pin 文件 -> 链上登记 -> 入库 -> 推送 video:new
func (s *VideoService) UploadVideo(ctx context.Context, file io.Reader, meta interfaces.VideoMeta) (*model.Video, string, error) {
	if meta.Title == "" {
		return nil, "", invalidf("title is required")
	}
	if meta.Creator == "" {
		return nil, "", invalidf("creator is required")
	}
	uri, err := s.content.UploadVideo(ctx, file, meta)
	if err != nil {
		return nil, "", fmt.Errorf("视频上传 IPFS 失败: %w", err)
	}
	return s.RegisterVideo(ctx, RegisterVideoInput{
		IPFSHash:    uri,
		Title:       meta.Title,
		Description: meta.Description,
		Category:    meta.Category,
		Creator:     meta.Creator,
	})
}

// RegisterVideo 链上登记并入库
func (s *VideoService) RegisterVideo(ctx context.Context, in RegisterVideoInput) (*model.Video, string, error) {
	if in.Title == "" || in.Creator == "" {
		return nil, "", invalidf("title and creator are required")
	}
	if in.Category == "" {
		in.Category = defaultVideoCategory
	}
	contractVideoID, txHash, err := s.chain.UploadVideo(ctx, ipfs.ExtractHash(in.IPFSHash), in.Title, in.Category)
	if err != nil {
		return nil, "", fmt.Errorf("链上登记视频失败: %w", err)
	}
	v, err := s.videos.CreateVideo(ctx, &model.Video{
		ContractVideoID: contractVideoID,
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		IPFSHash:        in.IPFSHash,
		Creator:         in.Creator,
	})
	if err != nil {
		return nil, "", err
	}
	notify(ctx, s.pub, s.logger, realtime.EventVideoNew, realtime.VideoNew{
		ID:       v.ID,
		Creator:  v.Creator,
		IPFSHash: v.IPFSHash,
		Title:    v.Title,
	})
	s.logger.WithFields(logrus.Fields{"video_id": v.ID, "ipfs_hash": v.IPFSHash, "tx_hash": txHash}).Info("视频已登记")
	return v, txHash, nil
}

// LikeVideo 每次调用 likes+1，不限次数
func (s *VideoService) LikeVideo(ctx context.Context, id uint64) (*model.Video, error) {
	v, err := s.videos.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.chain.LikeVideo(ctx, v.ContractVideoID); err != nil {
		return nil, fmt.Errorf("链上点赞失败: %w", err)
	}
	return s.videos.LikeVideo(ctx, id)
}

func (s *VideoService) ViewVideo(ctx context.Context, id uint64) (*model.Video, error) {
	return s.videos.ViewVideo(ctx, id)
}

func (s *VideoService) VerifyVideo(ctx context.Context, id uint64) (*model.Video, string, error) {
	v, err := s.videos.GetVideo(ctx, id)
	if err != nil {
		return nil, "", err
	}
	txHash, err := s.chain.VerifyVideo(ctx, v.ContractVideoID)
	if err != nil {
		return nil, "", fmt.Errorf("链上认证视频失败: %w", err)
	}
	verified, err := s.videos.VerifyVideo(ctx, id, true)
	if err != nil {
		return nil, "", err
	}
	return verified, txHash, nil
}
