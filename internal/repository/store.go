package repository

import (
	"context"
	"errors"

	"EsportsHub/internal/model"
)

// ErrNotFound 按 id/地址找不到记录
var ErrNotFound = errors.New("record not found")

// UserRepository 用户读写
type UserRepository interface {
	GetUser(ctx context.Context, address string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	// GetOrCreateUser 首次查询时以零余额创建，之后返回同一条记录
	GetOrCreateUser(ctx context.Context, address string) (*model.User, error)
	UpdateUser(ctx context.Context, address string, upd model.UserUpdate) (*model.User, error)
}

// EventRepository 预测赛事读写
type EventRepository interface {
	ListEvents(ctx context.Context) ([]*model.PredictionEvent, error)
	GetEvent(ctx context.Context, id uint64) (*model.PredictionEvent, error)
	CreateEvent(ctx context.Context, ev *model.PredictionEvent) (*model.PredictionEvent, error)
	ResolveEvent(ctx context.Context, id uint64, winningOption int) (*model.PredictionEvent, error)
}

// BetRepository 下注读写
type BetRepository interface {
	ListBetsByEvent(ctx context.Context, eventID uint64) ([]*model.Bet, error)
	ListBetsByUser(ctx context.Context, address string) ([]*model.Bet, error)
	// PlaceBet 写入下注并在同一原子操作内累加赛事奖池与下注笔数
	PlaceBet(ctx context.Context, bet *model.Bet) (*model.Bet, *model.PredictionEvent, error)
	ClaimBet(ctx context.Context, id uint64) (*model.Bet, error)
}

// VideoRepository 视频读写
type VideoRepository interface {
	ListVideos(ctx context.Context) ([]*model.Video, error)
	GetVideo(ctx context.Context, id uint64) (*model.Video, error)
	CreateVideo(ctx context.Context, v *model.Video) (*model.Video, error)
	LikeVideo(ctx context.Context, id uint64) (*model.Video, error)
	ViewVideo(ctx context.Context, id uint64) (*model.Video, error)
	VerifyVideo(ctx context.Context, id uint64, verified bool) (*model.Video, error)
}

// ProposalRepository DAO 提案与投票读写
type ProposalRepository interface {
	ListProposals(ctx context.Context) ([]*model.DaoProposal, error)
	GetProposal(ctx context.Context, id uint64) (*model.DaoProposal, error)
	CreateProposal(ctx context.Context, p *model.DaoProposal) (*model.DaoProposal, error)
	// CastVote 写入投票并在同一原子操作内累加对应票数
	CastVote(ctx context.Context, vote *model.DaoVote) (*model.DaoVote, *model.DaoProposal, error)
	ListVotes(ctx context.Context, proposalID uint64) ([]*model.DaoVote, error)
	ExecuteProposal(ctx context.Context, id uint64) (*model.DaoProposal, error)
}

// CourseRepository 课程 NFT 读写
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]*model.CourseNft, error)
	GetCourse(ctx context.Context, id uint64) (*model.CourseNft, error)
	CreateCourse(ctx context.Context, c *model.CourseNft) (*model.CourseNft, error)
	PurchaseCourse(ctx context.Context, id uint64, purchaser string) (*model.CourseNft, error)
}

// MarketplaceRepository 市场挂单读写
type MarketplaceRepository interface {
	// ListItems 仅返回未售出的挂单
	ListItems(ctx context.Context) ([]*model.MarketplaceItem, error)
	GetItem(ctx context.Context, id uint64) (*model.MarketplaceItem, error)
	CreateItem(ctx context.Context, item *model.MarketplaceItem) (*model.MarketplaceItem, error)
	MarkItemSold(ctx context.Context, id uint64, buyer string) (*model.MarketplaceItem, error)
}

// Store 所有实体仓储的组合，由 main 注入到各 service
type Store interface {
	UserRepository
	EventRepository
	BetRepository
	VideoRepository
	ProposalRepository
	CourseRepository
	MarketplaceRepository

	// Ping 存储健康检查（/healthz 使用）
	Ping(ctx context.Context) error
}
