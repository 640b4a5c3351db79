package service

import (
	"context"
	"encoding/json"
	"fmt"

	"EsportsHub/internal/chain"
	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/model"
	"EsportsHub/internal/realtime"
	"EsportsHub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// MarketplaceService NFT 市场挂单与购买；价格以 wei 存储
type MarketplaceService struct {
	items  repository.MarketplaceRepository
	chain  interfaces.BlockchainAdapter
	pub    realtime.Publisher
	logger *logrus.Logger
}

func NewMarketplaceService(store repository.Store, chain interfaces.BlockchainAdapter, pub realtime.Publisher, logger *logrus.Logger) *MarketplaceService {
	return &MarketplaceService{items: store, chain: chain, pub: pub, logger: logger}
}

// ListItemInput Price 为 CHZ；Metadata 为任意 JSON 对象
type ListItemInput struct {
	TokenID  int64
	Seller   string
	Price    decimal.Decimal
	ItemType string
	Metadata map[string]any
}

func (s *MarketplaceService) ListItems(ctx context.Context) ([]*model.MarketplaceItem, error) {
	return s.items.ListItems(ctx)
}

func (s *MarketplaceService) ListItem(ctx context.Context, in ListItemInput) (*model.MarketplaceItem, string, error) {
	if in.Seller == "" {
		return nil, "", invalidf("seller is required")
	}
	if !in.Price.IsPositive() {
		return nil, "", invalidf("price must be positive")
	}
	if in.ItemType == "" {
		in.ItemType = model.ItemTypeCollectible
	}
	var meta datatypes.JSON
	if in.Metadata != nil {
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, "", invalidf("metadata: %v", err)
		}
		meta = datatypes.JSON(b)
	}

	priceWei := decimal.NewFromBigInt(chain.ToWei(in.Price), 0)
	itemID, txHash, err := s.chain.ListItem(ctx, in.TokenID, priceWei)
	if err != nil {
		return nil, "", fmt.Errorf("链上挂单失败: %w", err)
	}
	item, err := s.items.CreateItem(ctx, &model.MarketplaceItem{
		ContractItemID: itemID,
		TokenID:        in.TokenID,
		Seller:         in.Seller,
		Price:          priceWei,
		ItemType:       in.ItemType,
		Metadata:       meta,
	})
	if err != nil {
		return nil, "", err
	}
	s.logger.WithFields(logrus.Fields{"item_id": item.ID, "contract_item_id": itemID, "tx_hash": txHash}).Info("商品已挂单")
	return item, txHash, nil
}

// BuyItem 链上购买 -> 标记售出 -> 推送 marketplace:itemSold
func (s *MarketplaceService) BuyItem(ctx context.Context, id uint64, buyer string) (*model.MarketplaceItem, string, error) {
	if buyer == "" {
		return nil, "", invalidf("buyer is required")
	}
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, "", err
	}
	txHash, err := s.chain.BuyItem(ctx, item.ContractItemID, item.Price)
	if err != nil {
		return nil, "", fmt.Errorf("链上购买失败: %w", err)
	}
	sold, err := s.items.MarkItemSold(ctx, id, buyer)
	if err != nil {
		return nil, "", err
	}
	notify(ctx, s.pub, s.logger, realtime.EventItemSold, realtime.ItemSold{
		ItemID: item.ContractItemID,
		Buyer:  buyer,
		Price:  item.Price,
	})
	return sold, txHash, nil
}
