package chain

import (
	"context"
	"math/rand/v2"
	"time"

	"EsportsHub/internal/interfaces"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MockTxHash mock 模式下所有交易类调用的返回值
const MockTxHash = "0x123...mock_tx"

// 固定余额
const (
	MockChzBalance      = "100.0"
	MockFanTokenBalance = "50.0"
)

// MockAdapter 未配置签名私钥时使用：只记录参数，不产生任何链上效果
type MockAdapter struct {
	logger *logrus.Logger
}

func NewMockAdapter(logger *logrus.Logger) *MockAdapter {
	return &MockAdapter{logger: logger}
}

var _ interfaces.BlockchainAdapter = (*MockAdapter)(nil)

func (m *MockAdapter) Mode() string { return interfaces.ModeMock }

// randomID 模拟合约侧 id，范围 [0,1000)
func (m *MockAdapter) randomID() int64 {
	return rand.Int64N(1000)
}

func (m *MockAdapter) log(method string, fields logrus.Fields) {
	m.logger.WithField("method", method).WithFields(fields).Info("Mock 链上调用")
}

func (m *MockAdapter) CreateEvent(_ context.Context, name, ipfsHash string, endTime time.Time) (string, error) {
	m.log("createEvent", logrus.Fields{"name": name, "ipfs_hash": ipfsHash, "end_time": endTime.Unix()})
	return MockTxHash, nil
}

func (m *MockAdapter) PlaceBet(_ context.Context, contractEventID int64, option int, amount decimal.Decimal) (string, error) {
	m.log("placeBet", logrus.Fields{"event_id": contractEventID, "option": option, "amount": amount.String()})
	return MockTxHash, nil
}

func (m *MockAdapter) ResolveEvent(_ context.Context, contractEventID int64, winningOption int) (string, error) {
	m.log("resolveEvent", logrus.Fields{"event_id": contractEventID, "winning_option": winningOption})
	return MockTxHash, nil
}

func (m *MockAdapter) UploadVideo(_ context.Context, ipfsHash, title, category string) (int64, string, error) {
	m.log("uploadVideo", logrus.Fields{"ipfs_hash": ipfsHash, "title": title, "category": category})
	return m.randomID(), MockTxHash, nil
}

func (m *MockAdapter) LikeVideo(_ context.Context, contractVideoID int64) (string, error) {
	m.log("likeVideo", logrus.Fields{"video_id": contractVideoID})
	return MockTxHash, nil
}

func (m *MockAdapter) VerifyVideo(_ context.Context, contractVideoID int64) (string, error) {
	m.log("verifyVideo", logrus.Fields{"video_id": contractVideoID})
	return MockTxHash, nil
}

func (m *MockAdapter) CreateProposal(_ context.Context, description string) (int64, string, error) {
	m.log("createProposal", logrus.Fields{"description": description})
	return m.randomID(), MockTxHash, nil
}

func (m *MockAdapter) Vote(_ context.Context, contractProposalID int64, support bool) (string, error) {
	m.log("vote", logrus.Fields{"proposal_id": contractProposalID, "support": support})
	return MockTxHash, nil
}

func (m *MockAdapter) ExecuteProposal(_ context.Context, contractProposalID int64) (string, error) {
	m.log("executeProposal", logrus.Fields{"proposal_id": contractProposalID})
	return MockTxHash, nil
}

func (m *MockAdapter) MintFanTokens(_ context.Context, to string, amount decimal.Decimal) (string, error) {
	m.log("mint", logrus.Fields{"to": to, "amount": amount.String()})
	return MockTxHash, nil
}

func (m *MockAdapter) LazyMintCourse(_ context.Context, uri string, priceWei decimal.Decimal) (int64, string, error) {
	m.log("lazyMint", logrus.Fields{"uri": uri, "price": priceWei.String()})
	return m.randomID(), MockTxHash, nil
}

func (m *MockAdapter) PurchaseCourse(_ context.Context, tokenID int64, valueWei decimal.Decimal) (string, error) {
	m.log("purchase", logrus.Fields{"token_id": tokenID, "value": valueWei.String()})
	return MockTxHash, nil
}

func (m *MockAdapter) ListItem(_ context.Context, tokenID int64, priceWei decimal.Decimal) (int64, string, error) {
	m.log("listItem", logrus.Fields{"token_id": tokenID, "price": priceWei.String()})
	return m.randomID(), MockTxHash, nil
}

func (m *MockAdapter) BuyItem(_ context.Context, contractItemID int64, valueWei decimal.Decimal) (string, error) {
	m.log("buyItem", logrus.Fields{"item_id": contractItemID, "value": valueWei.String()})
	return MockTxHash, nil
}

func (m *MockAdapter) ChzBalance(_ context.Context, address string) (string, error) {
	m.log("getChzBalance", logrus.Fields{"address": address})
	return MockChzBalance, nil
}

func (m *MockAdapter) FanTokenBalance(_ context.Context, address string) (string, error) {
	m.log("getFanTokenBalance", logrus.Fields{"address": address})
	return MockFanTokenBalance, nil
}
