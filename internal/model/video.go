package model

import "time"

// Video 用户上传的比赛视频，unverified -> verified 单向
type Video struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	ContractVideoID int64     `gorm:"column:contract_video_id;type:bigint;not null;comment:合约侧视频ID" json:"contractVideoId"`
	Title           string    `gorm:"column:title;type:varchar(256);not null" json:"title"`
	Description     string    `gorm:"column:description;type:text" json:"description"`
	Category        string    `gorm:"column:category;type:varchar(64);not null" json:"category"`
	IPFSHash        string    `gorm:"column:ipfs_hash;type:varchar(256);not null;comment:内容地址" json:"ipfsHash"`
	Creator         string    `gorm:"column:creator;type:varchar(64);not null" json:"creator"`
	Verified        bool      `gorm:"column:verified;type:boolean;default:false" json:"verified"`
	Likes           int       `gorm:"column:likes;type:int;default:0" json:"likes"`
	Views           int       `gorm:"column:views;type:int;default:0" json:"views"`
	RewardClaimed   bool      `gorm:"column:reward_claimed;type:boolean;default:false" json:"rewardClaimed"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:now()" json:"createdAt"`
}

func (Video) TableName() string { return "videos" }
