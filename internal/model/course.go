package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CourseNft 课程 NFT。重复购买会覆盖 Purchaser 并累加 Students
type CourseNft struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	ContractTokenID int64           `gorm:"column:contract_token_id;type:bigint;not null" json:"contractTokenId"`
	Title           string          `gorm:"column:title;type:varchar(256);not null" json:"title"`
	Description     string          `gorm:"column:description;type:text" json:"description"`
	Creator         string          `gorm:"column:creator;type:varchar(64);not null" json:"creator"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(38,8);not null;comment:价格(wei)" json:"price"`
	IPFSURI         string          `gorm:"column:ipfs_uri;type:varchar(256);not null" json:"ipfsUri"`
	Purchased       bool            `gorm:"column:purchased;type:boolean;default:false" json:"purchased"`
	Purchaser       *string         `gorm:"column:purchaser;type:varchar(64)" json:"purchaser"`
	Duration        string          `gorm:"column:duration;type:varchar(32)" json:"duration"`
	Rating          decimal.Decimal `gorm:"column:rating;type:numeric(2,1);default:0" json:"rating"`
	Students        int             `gorm:"column:students;type:int;default:0" json:"students"`
	CreatedAt       time.Time       `gorm:"column:created_at;type:timestamp;default:now()" json:"createdAt"`
}

func (CourseNft) TableName() string { return "course_nfts" }
