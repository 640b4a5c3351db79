package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 适配器模式
const (
	ModeMock = "mock"
	ModeLive = "live"
)

// BlockchainAdapter 五个合约的链上调用能力集合（mock/live 两种实现，启动时选定）
// 金额约定：bet 金额为 CHZ（内部转 wei 作为 msg.value）；price/value 参数均为 wei
type BlockchainAdapter interface {
	Mode() string

	// PredictionMarket
	CreateEvent(ctx context.Context, name, ipfsHash string, endTime time.Time) (txHash string, err error)
	PlaceBet(ctx context.Context, contractEventID int64, option int, amount decimal.Decimal) (txHash string, err error)
	ResolveEvent(ctx context.Context, contractEventID int64, winningOption int) (txHash string, err error)

	// SkillShowcase
	UploadVideo(ctx context.Context, ipfsHash, title, category string) (contractVideoID int64, txHash string, err error)
	LikeVideo(ctx context.Context, contractVideoID int64) (txHash string, err error)
	VerifyVideo(ctx context.Context, contractVideoID int64) (txHash string, err error)

	// FanTokenDAO
	CreateProposal(ctx context.Context, description string) (contractProposalID int64, txHash string, err error)
	Vote(ctx context.Context, contractProposalID int64, support bool) (txHash string, err error)
	ExecuteProposal(ctx context.Context, contractProposalID int64) (txHash string, err error)
	MintFanTokens(ctx context.Context, to string, amount decimal.Decimal) (txHash string, err error)

	// CourseNFT
	LazyMintCourse(ctx context.Context, uri string, priceWei decimal.Decimal) (tokenID int64, txHash string, err error)
	PurchaseCourse(ctx context.Context, tokenID int64, valueWei decimal.Decimal) (txHash string, err error)

	// Marketplace
	ListItem(ctx context.Context, tokenID int64, priceWei decimal.Decimal) (itemID int64, txHash string, err error)
	BuyItem(ctx context.Context, contractItemID int64, valueWei decimal.Decimal) (txHash string, err error)

	// 余额（CHZ 单位，字符串形式）
	ChzBalance(ctx context.Context, address string) (string, error)
	FanTokenBalance(ctx context.Context, address string) (string, error)
}
