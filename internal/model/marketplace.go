package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 市场商品类型
const (
	ItemTypeCourse      = "course"
	ItemTypeCollectible = "collectible"
	ItemTypeMerchandise = "merchandise"
)

// MarketplaceItem 市场挂单，listed -> sold 单向
type MarketplaceItem struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	ContractItemID int64           `gorm:"column:contract_item_id;type:bigint;not null" json:"contractItemId"`
	TokenID        int64           `gorm:"column:token_id;type:bigint;not null" json:"tokenId"`
	Seller         string          `gorm:"column:seller;type:varchar(64);not null" json:"seller"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(38,8);not null;comment:价格(wei)" json:"price"`
	Sold           bool            `gorm:"column:sold;type:boolean;default:false;index" json:"sold"`
	Buyer          *string         `gorm:"column:buyer;type:varchar(64)" json:"buyer"`
	ItemType       string          `gorm:"column:item_type;type:varchar(32);not null" json:"itemType"`
	Metadata       datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamp;default:now()" json:"createdAt"`
}

func (MarketplaceItem) TableName() string { return "marketplace_items" }
