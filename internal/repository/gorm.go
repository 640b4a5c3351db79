package repository

import (
	"context"
	"errors"
	"fmt"

	"EsportsHub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore PostgreSQL 存储
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// Models 需要迁移的表（按依赖顺序）
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.PredictionEvent{},
		&model.Bet{},
		&model.Video{},
		&model.DaoProposal{},
		&model.DaoVote{},
		&model.CourseNft{},
		&model.MarketplaceItem{},
	}
}

// AutoMigrate 库表不存在则自动创建
func (r *GormStore) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(Models()...)
}

func (r *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// wrapErr 把 gorm.ErrRecordNotFound 统一转成 ErrNotFound
func wrapErr(kind string, id any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	return fmt.Errorf("查询%s失败: %w", kind, err)
}

// ========== Users ==========

func (r *GormStore) GetUser(ctx context.Context, address string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("address = ?", address).First(&u).Error; err != nil {
		return nil, wrapErr("user", address, err)
	}
	return &u, nil
}

func (r *GormStore) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	next := *u
	if err := r.db.WithContext(ctx).Create(&next).Error; err != nil {
		return nil, fmt.Errorf("保存用户失败: %w, address: %s", err, next.Address)
	}
	return &next, nil
}

func (r *GormStore) GetOrCreateUser(ctx context.Context, address string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where(model.User{Address: address}).
		FirstOrCreate(&u).Error
	if err != nil {
		return nil, fmt.Errorf("创建用户失败: %w, address: %s", err, address)
	}
	return &u, nil
}

func (r *GormStore) UpdateUser(ctx context.Context, address string, upd model.UserUpdate) (*model.User, error) {
	updates := map[string]interface{}{}
	if upd.Username != nil {
		updates["username"] = *upd.Username
	}
	if upd.ChzBalance != nil {
		updates["chz_balance"] = *upd.ChzBalance
	}
	if upd.FanTokenBalance != nil {
		updates["fan_token_balance"] = *upd.FanTokenBalance
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.User{}).Where("address = ?", address).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("更新用户失败: %w, address: %s", res.Error, address)
		}
		if res.RowsAffected == 0 {
			return nil, notFound("user", address)
		}
	}
	return r.GetUser(ctx, address)
}

// ========== Prediction events & bets ==========

func (r *GormStore) ListEvents(ctx context.Context) ([]*model.PredictionEvent, error) {
	var list []*model.PredictionEvent
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询赛事列表失败: %w", err)
	}
	return list, nil
}

func (r *GormStore) GetEvent(ctx context.Context, id uint64) (*model.PredictionEvent, error) {
	var e model.PredictionEvent
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, wrapErr("event", id, err)
	}
	return &e, nil
}

func (r *GormStore) CreateEvent(ctx context.Context, ev *model.PredictionEvent) (*model.PredictionEvent, error) {
	e := *ev
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, fmt.Errorf("保存赛事失败: %w, name: %s", err, e.Name)
	}
	return &e, nil
}

func (r *GormStore) ResolveEvent(ctx context.Context, id uint64, winningOption int) (*model.PredictionEvent, error) {
	res := r.db.WithContext(ctx).Model(&model.PredictionEvent{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolved":       true,
			"winning_option": winningOption,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("结算赛事失败: %w, id: %d", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("event", id)
	}
	return r.GetEvent(ctx, id)
}

func (r *GormStore) ListBetsByEvent(ctx context.Context, eventID uint64) ([]*model.Bet, error) {
	var list []*model.Bet
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询下注失败: %w, event_id: %d", err, eventID)
	}
	return list, nil
}

func (r *GormStore) ListBetsByUser(ctx context.Context, address string) ([]*model.Bet, error) {
	var list []*model.Bet
	if err := r.db.WithContext(ctx).Where("user_address = ?", address).
		Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询下注失败: %w, address: %s", err, address)
	}
	return list, nil
}

// PlaceBet 行锁赛事后写入下注并累加奖池，整体在一个事务内
func (r *GormStore) PlaceBet(ctx context.Context, bet *model.Bet) (*model.Bet, *model.PredictionEvent, error) {
	b := *bet
	var ev model.PredictionEvent
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, b.EventID).Error; err != nil {
			return wrapErr("event", b.EventID, err)
		}
		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("保存下注失败: %w, event_id: %d", err, b.EventID)
		}
		if err := tx.Model(&model.PredictionEvent{}).Where("id = ?", ev.ID).
			Updates(map[string]interface{}{
				"total_pool": gorm.Expr("total_pool + ?", b.Amount),
				"bet_count":  gorm.Expr("bet_count + 1"),
			}).Error; err != nil {
			return fmt.Errorf("更新奖池失败: %w, event_id: %d", err, ev.ID)
		}
		return tx.First(&ev, ev.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &b, &ev, nil
}

func (r *GormStore) ClaimBet(ctx context.Context, id uint64) (*model.Bet, error) {
	res := r.db.WithContext(ctx).Model(&model.Bet{}).Where("id = ?", id).Update("claimed", true)
	if res.Error != nil {
		return nil, fmt.Errorf("领取失败: %w, bet_id: %d", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("bet", id)
	}
	var b model.Bet
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, wrapErr("bet", id, err)
	}
	return &b, nil
}

// ========== Videos ==========

func (r *GormStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	var list []*model.Video
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询视频列表失败: %w", err)
	}
	return list, nil
}

func (r *GormStore) GetVideo(ctx context.Context, id uint64) (*model.Video, error) {
	var v model.Video
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, wrapErr("video", id, err)
	}
	return &v, nil
}

func (r *GormStore) CreateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	next := *v
	if err := r.db.WithContext(ctx).Create(&next).Error; err != nil {
		return nil, fmt.Errorf("保存视频失败: %w, title: %s", err, next.Title)
	}
	return &next, nil
}

func (r *GormStore) updateVideo(ctx context.Context, id uint64, updates map[string]interface{}) (*model.Video, error) {
	res := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("更新视频失败: %w, id: %d", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("video", id)
	}
	return r.GetVideo(ctx, id)
}

func (r *GormStore) LikeVideo(ctx context.Context, id uint64) (*model.Video, error) {
	return r.updateVideo(ctx, id, map[string]interface{}{"likes": gorm.Expr("likes + 1")})
}

func (r *GormStore) ViewVideo(ctx context.Context, id uint64) (*model.Video, error) {
	return r.updateVideo(ctx, id, map[string]interface{}{"views": gorm.Expr("views + 1")})
}

func (r *GormStore) VerifyVideo(ctx context.Context, id uint64, verified bool) (*model.Video, error) {
	return r.updateVideo(ctx, id, map[string]interface{}{"verified": verified})
}

// ========== DAO ==========

func (r *GormStore) ListProposals(ctx context.Context) ([]*model.DaoProposal, error) {
	var list []*model.DaoProposal
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询提案列表失败: %w", err)
	}
	return list, nil
}

func (r *GormStore) GetProposal(ctx context.Context, id uint64) (*model.DaoProposal, error) {
	var p model.DaoProposal
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrapErr("proposal", id, err)
	}
	return &p, nil
}

func (r *GormStore) CreateProposal(ctx context.Context, p *model.DaoProposal) (*model.DaoProposal, error) {
	next := *p
	if err := r.db.WithContext(ctx).Create(&next).Error; err != nil {
		return nil, fmt.Errorf("保存提案失败: %w, title: %s", err, next.Title)
	}
	return &next, nil
}

// CastVote 写入投票并累加票数，整体在一个事务内
func (r *GormStore) CastVote(ctx context.Context, vote *model.DaoVote) (*model.DaoVote, *model.DaoProposal, error) {
	v := *vote
	var p model.DaoProposal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, v.ProposalID).Error; err != nil {
			return wrapErr("proposal", v.ProposalID, err)
		}
		if err := tx.Create(&v).Error; err != nil {
			return fmt.Errorf("保存投票失败: %w, proposal_id: %d", err, v.ProposalID)
		}
		column := "votes_against"
		if v.Support {
			column = "votes_for"
		}
		if err := tx.Model(&model.DaoProposal{}).Where("id = ?", p.ID).
			Update(column, gorm.Expr(column+" + ?", v.Weight)).Error; err != nil {
			return fmt.Errorf("更新票数失败: %w, proposal_id: %d", err, p.ID)
		}
		return tx.First(&p, p.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &v, &p, nil
}

func (r *GormStore) ListVotes(ctx context.Context, proposalID uint64) ([]*model.DaoVote, error) {
	var list []*model.DaoVote
	if err := r.db.WithContext(ctx).Where("proposal_id = ?", proposalID).
		Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询投票失败: %w, proposal_id: %d", err, proposalID)
	}
	return list, nil
}

func (r *GormStore) ExecuteProposal(ctx context.Context, id uint64) (*model.DaoProposal, error) {
	res := r.db.WithContext(ctx).Model(&model.DaoProposal{}).Where("id = ?", id).Update("executed", true)
	if res.Error != nil {
		return nil, fmt.Errorf("执行提案失败: %w, id: %d", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("proposal", id)
	}
	return r.GetProposal(ctx, id)
}

// ========== Course NFTs ==========

func (r *GormStore) ListCourses(ctx context.Context) ([]*model.CourseNft, error) {
	var list []*model.CourseNft
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询课程列表失败: %w", err)
	}
	return list, nil
}

func (r *GormStore) GetCourse(ctx context.Context, id uint64) (*model.CourseNft, error) {
	var c model.CourseNft
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrapErr("course", id, err)
	}
	return &c, nil
}

func (r *GormStore) CreateCourse(ctx context.Context, course *model.CourseNft) (*model.CourseNft, error) {
	next := *course
	if err := r.db.WithContext(ctx).Create(&next).Error; err != nil {
		return nil, fmt.Errorf("保存课程失败: %w, title: %s", err, next.Title)
	}
	return &next, nil
}

func (r *GormStore) PurchaseCourse(ctx context.Context, id uint64, purchaser string) (*model.CourseNft, error) {
	res := r.db.WithContext(ctx).Model(&model.CourseNft{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"purchased": true,
			"purchaser": purchaser,
			"students":  gorm.Expr("students + 1"),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("购买课程失败: %w, id: %d", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("course", id)
	}
	return r.GetCourse(ctx, id)
}

// ========== Marketplace ==========

func (r *GormStore) ListItems(ctx context.Context) ([]*model.MarketplaceItem, error) {
	var list []*model.MarketplaceItem
	if err := r.db.WithContext(ctx).Where("sold = ?", false).
		Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询挂单失败: %w", err)
	}
	return list, nil
}

func (r *GormStore) GetItem(ctx context.Context, id uint64) (*model.MarketplaceItem, error) {
	var it model.MarketplaceItem
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, wrapErr("item", id, err)
	}
	return &it, nil
}

func (r *GormStore) CreateItem(ctx context.Context, item *model.MarketplaceItem) (*model.MarketplaceItem, error) {
	next := *item
	if err := r.db.WithContext(ctx).Create(&next).Error; err != nil {
		return nil, fmt.Errorf("保存挂单失败: %w, token_id: %d", err, next.TokenID)
	}
	return &next, nil
}

func (r *GormStore) MarkItemSold(ctx context.Context, id uint64, buyer string) (*model.MarketplaceItem, error) {
	res := r.db.WithContext(ctx).Model(&model.MarketplaceItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"sold":  true,
			"buyer": buyer,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("更新挂单失败: %w, id: %d", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("item", id)
	}
	return r.GetItem(ctx, id)
}
