package service

import (
	"context"
	"fmt"
	"time"

	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/model"
	"EsportsHub/internal/realtime"
	"EsportsHub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MarketService 预测赛事与下注
type MarketService struct {
	events repository.EventRepository
	bets   repository.BetRepository
	chain  interfaces.BlockchainAdapter
	pub    realtime.Publisher
	logger *logrus.Logger
}

// NewMarketService 创建 MarketService
func NewMarketService(store repository.Store, chain interfaces.BlockchainAdapter, pub realtime.Publisher, logger *logrus.Logger) *MarketService {
	return &MarketService{
		events: store,
		bets:   store,
		chain:  chain,
		pub:    pub,
		logger: logger,
	}
}

// EventDetail 赛事详情（含下注列表）
type EventDetail struct {
	Event *model.PredictionEvent `json:"event"`
	Bets  []*model.Bet           `json:"bets"`
}

// CreateEventInput 创建赛事参数
type CreateEventInput struct {
	ContractEventID int64
	Name            string
	Description     string
	Game            string
	IPFSHash        string
	EndTime         time.Time
}

// PlaceBetInput 下注参数；Odds 为零时按 1 处理
type PlaceBetInput struct {
	EventID     uint64
	Option      int
	Amount      decimal.Decimal
	UserAddress string
	Odds        decimal.Decimal
}

// PlaceBetResult 下注结果
type PlaceBetResult struct {
	Bet    *model.Bet             `json:"bet"`
	Event  *model.PredictionEvent `json:"event"`
	TxHash string                 `json:"txHash"`
}

func (s *MarketService) ListEvents(ctx context.Context) ([]*model.PredictionEvent, error) {
	return s.events.ListEvents(ctx)
}

func (s *MarketService) GetEvent(ctx context.Context, id uint64) (*EventDetail, error) {
	ev, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	bets, err := s.bets.ListBetsByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: ev, Bets: bets}, nil
}

// CreateEvent 先上链再入库
func (s *MarketService) CreateEvent(ctx context.Context, in CreateEventInput) (*model.PredictionEvent, string, error) {
	if in.Name == "" {
		return nil, "", invalidf("name is required")
	}
	if in.Game == "" {
		return nil, "", invalidf("game is required")
	}
	txHash, err := s.chain.CreateEvent(ctx, in.Name, in.IPFSHash, in.EndTime)
	if err != nil {
		return nil, "", fmt.Errorf("链上创建赛事失败: %w", err)
	}
	ev, err := s.events.CreateEvent(ctx, &model.PredictionEvent{
		ContractEventID: in.ContractEventID,
		Name:            in.Name,
		Description:     in.Description,
		Game:            in.Game,
		IPFSHash:        in.IPFSHash,
		EndTime:         in.EndTime,
		TotalPool:       decimal.Zero,
	})
	if err != nil {
		return nil, "", err
	}
	s.logger.WithFields(logrus.Fields{"event_id": ev.ID, "name": ev.Name, "tx_hash": txHash}).Info("赛事已创建")
	return ev, txHash, nil
}

// PlaceBet 链上下注 -> 原子写入下注并累加奖池 -> 推送 bet:placed
func (s *MarketService) PlaceBet(ctx context.Context, in PlaceBetInput) (*PlaceBetResult, error) {
	if !in.Amount.IsPositive() {
		return nil, invalidf("amount must be positive")
	}
	if in.Option < 0 {
		return nil, invalidf("option must be non-negative")
	}
	odds := in.Odds
	if odds.IsZero() {
		odds = decimal.NewFromInt(1)
	}
	if odds.IsNegative() {
		return nil, invalidf("odds must be positive")
	}

	ev, err := s.events.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	txHash, err := s.chain.PlaceBet(ctx, ev.ContractEventID, in.Option, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("链上下注失败: %w", err)
	}
	bet, updated, err := s.bets.PlaceBet(ctx, &model.Bet{
		EventID:     in.EventID,
		UserAddress: in.UserAddress,
		Option:      in.Option,
		Amount:      in.Amount,
		Odds:        odds,
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, s.pub, s.logger, realtime.EventBetPlaced, realtime.BetPlaced{
		EventID: in.EventID,
		Bettor:  in.UserAddress,
		Amount:  in.Amount,
		Option:  in.Option,
	})
	s.logger.WithFields(logrus.Fields{
		"event_id":   in.EventID,
		"bet_id":     bet.ID,
		"amount":     in.Amount.String(),
		"total_pool": updated.TotalPool.String(),
	}).Info("下注成功")
	return &PlaceBetResult{Bet: bet, Event: updated, TxHash: txHash}, nil
}

func (s *MarketService) ClaimBet(ctx context.Context, id uint64) (*model.Bet, error) {
	return s.bets.ClaimBet(ctx, id)
}

// ResolveEvent 结算赛事并推送 event:resolved
func (s *MarketService) ResolveEvent(ctx context.Context, id uint64, winningOption int) (*model.PredictionEvent, string, error) {
	if winningOption < 0 {
		return nil, "", invalidf("winningOption must be non-negative")
	}
	ev, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return nil, "", err
	}
	txHash, err := s.chain.ResolveEvent(ctx, ev.ContractEventID, winningOption)
	if err != nil {
		return nil, "", fmt.Errorf("链上结算失败: %w", err)
	}
	resolved, err := s.events.ResolveEvent(ctx, id, winningOption)
	if err != nil {
		return nil, "", err
	}
	notify(ctx, s.pub, s.logger, realtime.EventEventResolved, realtime.EventResolved{
		EventID:       id,
		WinningOption: winningOption,
	})
	return resolved, txHash, nil
}
