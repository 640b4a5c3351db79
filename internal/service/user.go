package service

import (
	"context"
	"fmt"

	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/model"
	"EsportsHub/internal/repository"

	"github.com/sirupsen/logrus"
)

// UserService 用户资料，首次访问时懒创建
type UserService struct {
	users  repository.UserRepository
	bets   repository.BetRepository
	chain  interfaces.BlockchainAdapter
	logger *logrus.Logger
}

func NewUserService(store repository.Store, chain interfaces.BlockchainAdapter, logger *logrus.Logger) *UserService {
	return &UserService{users: store, bets: store, chain: chain, logger: logger}
}

// Profile 用户与下注历史
type Profile struct {
	User *model.User  `json:"user"`
	Bets []*model.Bet `json:"bets"`
}

// Balances 链上余额
type Balances struct {
	Address         string `json:"address"`
	ChzBalance      string `json:"chzBalance"`
	FanTokenBalance string `json:"fanTokenBalance"`
	Mode            string `json:"mode"`
}

func (s *UserService) GetProfile(ctx context.Context, address string) (*Profile, error) {
	if address == "" {
		return nil, invalidf("address is required")
	}
	u, err := s.users.GetOrCreateUser(ctx, address)
	if err != nil {
		return nil, err
	}
	bets, err := s.bets.ListBetsByUser(ctx, address)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Bets: bets}, nil
}

// UpdateUser 不存在时先创建再更新
func (s *UserService) UpdateUser(ctx context.Context, address string, upd model.UserUpdate) (*model.User, error) {
	if upd.ChzBalance != nil && upd.ChzBalance.IsNegative() {
		return nil, invalidf("chzBalance must not be negative")
	}
	if upd.FanTokenBalance != nil && upd.FanTokenBalance.IsNegative() {
		return nil, invalidf("fanTokenBalance must not be negative")
	}
	if _, err := s.users.GetOrCreateUser(ctx, address); err != nil {
		return nil, err
	}
	return s.users.UpdateUser(ctx, address, upd)
}

func (s *UserService) Balances(ctx context.Context, address string) (*Balances, error) {
	chz, err := s.chain.ChzBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("查询 CHZ 余额失败: %w", err)
	}
	fan, err := s.chain.FanTokenBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("查询 Fan Token 余额失败: %w", err)
	}
	return &Balances{Address: address, ChzBalance: chz, FanTokenBalance: fan, Mode: s.chain.Mode()}, nil
}
