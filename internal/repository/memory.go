package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"EsportsHub/internal/model"

	"github.com/shopspring/decimal"
)

// MemoryStore 进程内存储：所有实体共用一个自增 id，重启即丢失
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint64
	now    func() time.Time

	users     map[string]*model.User
	events    map[uint64]*model.PredictionEvent
	bets      map[uint64]*model.Bet
	videos    map[uint64]*model.Video
	proposals map[uint64]*model.DaoProposal
	votes     map[uint64]*model.DaoVote
	courses   map[uint64]*model.CourseNft
	items     map[uint64]*model.MarketplaceItem
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:    1,
		now:       time.Now,
		users:     make(map[string]*model.User),
		events:    make(map[uint64]*model.PredictionEvent),
		bets:      make(map[uint64]*model.Bet),
		videos:    make(map[uint64]*model.Video),
		proposals: make(map[uint64]*model.DaoProposal),
		votes:     make(map[uint64]*model.DaoVote),
		courses:   make(map[uint64]*model.CourseNft),
		items:     make(map[uint64]*model.MarketplaceItem),
	}
}

var _ Store = (*MemoryStore)(nil)

// allocID 调用方须持有写锁
func (s *MemoryStore) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

// newestFirst 按创建时间倒序，时间相同按 id 倒序
func newestFirst[T any](list []*T, createdAt func(*T) time.Time, id func(*T) uint64) []*T {
	sort.Slice(list, func(i, j int) bool {
		ti, tj := createdAt(list[i]), createdAt(list[j])
		if ti.Equal(tj) {
			return id(list[i]) > id(list[j])
		}
		return ti.After(tj)
	})
	return list
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// ========== Users ==========

func (s *MemoryStore) GetUser(_ context.Context, address string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[address]
	if !ok {
		return nil, notFound("user", address)
	}
	c := *u
	return &c, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Address]; ok {
		return nil, fmt.Errorf("user %s already exists", u.Address)
	}
	next := *u
	next.ID = s.allocID()
	next.CreatedAt = s.stamp(next.CreatedAt)
	s.users[next.Address] = &next
	c := next
	return &c, nil
}

func (s *MemoryStore) GetOrCreateUser(_ context.Context, address string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[address]; ok {
		c := *u
		return &c, nil
	}
	u := &model.User{
		ID:              s.allocID(),
		Address:         address,
		ChzBalance:      decimal.Zero,
		FanTokenBalance: decimal.Zero,
		CreatedAt:       s.now(),
	}
	s.users[address] = u
	c := *u
	return &c, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, address string, upd model.UserUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[address]
	if !ok {
		return nil, notFound("user", address)
	}
	next := *u
	if upd.Username != nil {
		name := *upd.Username
		next.Username = &name
	}
	if upd.ChzBalance != nil {
		next.ChzBalance = *upd.ChzBalance
	}
	if upd.FanTokenBalance != nil {
		next.FanTokenBalance = *upd.FanTokenBalance
	}
	s.users[address] = &next
	c := next
	return &c, nil
}

// ========== Prediction events & bets ==========

func (s *MemoryStore) ListEvents(_ context.Context) ([]*model.PredictionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.PredictionEvent, 0, len(s.events))
	for _, e := range s.events {
		c := *e
		list = append(list, &c)
	}
	return newestFirst(list,
		func(e *model.PredictionEvent) time.Time { return e.CreatedAt },
		func(e *model.PredictionEvent) uint64 { return e.ID }), nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id uint64) (*model.PredictionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, notFound("event", id)
	}
	c := *e
	return &c, nil
}

func (s *MemoryStore) CreateEvent(_ context.Context, ev *model.PredictionEvent) (*model.PredictionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *ev
	e.ID = s.allocID()
	e.CreatedAt = s.stamp(e.CreatedAt)
	s.events[e.ID] = &e
	c := e
	return &c, nil
}

func (s *MemoryStore) ResolveEvent(_ context.Context, id uint64, winningOption int) (*model.PredictionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, notFound("event", id)
	}
	next := *e
	next.Resolved = true
	next.WinningOption = &winningOption
	s.events[id] = &next
	c := next
	return &c, nil
}

func (s *MemoryStore) ListBetsByEvent(_ context.Context, eventID uint64) ([]*model.Bet, error) {
	return s.filterBets(func(b *model.Bet) bool { return b.EventID == eventID }), nil
}

func (s *MemoryStore) ListBetsByUser(_ context.Context, address string) ([]*model.Bet, error) {
	return s.filterBets(func(b *model.Bet) bool { return b.UserAddress == address }), nil
}

func (s *MemoryStore) filterBets(keep func(*model.Bet) bool) []*model.Bet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.Bet, 0)
	for _, b := range s.bets {
		if keep(b) {
			c := *b
			list = append(list, &c)
		}
	}
	return newestFirst(list,
		func(b *model.Bet) time.Time { return b.CreatedAt },
		func(b *model.Bet) uint64 { return b.ID })
}

func (s *MemoryStore) PlaceBet(_ context.Context, bet *model.Bet) (*model.Bet, *model.PredictionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[bet.EventID]
	if !ok {
		return nil, nil, notFound("event", bet.EventID)
	}
	b := *bet
	b.ID = s.allocID()
	b.CreatedAt = s.stamp(b.CreatedAt)
	s.bets[b.ID] = &b

	next := *e
	next.TotalPool = e.TotalPool.Add(b.Amount)
	next.BetCount = e.BetCount + 1
	s.events[e.ID] = &next

	bc, ec := b, next
	return &bc, &ec, nil
}

func (s *MemoryStore) ClaimBet(_ context.Context, id uint64) (*model.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bets[id]
	if !ok {
		return nil, notFound("bet", id)
	}
	next := *b
	next.Claimed = true
	s.bets[id] = &next
	c := next
	return &c, nil
}

// ========== Videos ==========

func (s *MemoryStore) ListVideos(_ context.Context) ([]*model.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.Video, 0, len(s.videos))
	for _, v := range s.videos {
		c := *v
		list = append(list, &c)
	}
	return newestFirst(list,
		func(v *model.Video) time.Time { return v.CreatedAt },
		func(v *model.Video) uint64 { return v.ID }), nil
}

func (s *MemoryStore) GetVideo(_ context.Context, id uint64) (*model.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, notFound("video", id)
	}
	c := *v
	return &c, nil
}

func (s *MemoryStore) CreateVideo(_ context.Context, v *model.Video) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *v
	next.ID = s.allocID()
	next.CreatedAt = s.stamp(next.CreatedAt)
	s.videos[next.ID] = &next
	c := next
	return &c, nil
}

func (s *MemoryStore) updateVideo(id uint64, mutate func(*model.Video)) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, notFound("video", id)
	}
	next := *v
	mutate(&next)
	s.videos[id] = &next
	c := next
	return &c, nil
}

func (s *MemoryStore) LikeVideo(_ context.Context, id uint64) (*model.Video, error) {
	return s.updateVideo(id, func(v *model.Video) { v.Likes++ })
}

func (s *MemoryStore) ViewVideo(_ context.Context, id uint64) (*model.Video, error) {
	return s.updateVideo(id, func(v *model.Video) { v.Views++ })
}

func (s *MemoryStore) VerifyVideo(_ context.Context, id uint64, verified bool) (*model.Video, error) {
	return s.updateVideo(id, func(v *model.Video) { v.Verified = verified })
}

// ========== DAO ==========

func (s *MemoryStore) ListProposals(_ context.Context) ([]*model.DaoProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.DaoProposal, 0, len(s.proposals))
	for _, p := range s.proposals {
		c := *p
		list = append(list, &c)
	}
	return newestFirst(list,
		func(p *model.DaoProposal) time.Time { return p.CreatedAt },
		func(p *model.DaoProposal) uint64 { return p.ID }), nil
}

func (s *MemoryStore) GetProposal(_ context.Context, id uint64) (*model.DaoProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, notFound("proposal", id)
	}
	c := *p
	return &c, nil
}

func (s *MemoryStore) CreateProposal(_ context.Context, p *model.DaoProposal) (*model.DaoProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *p
	next.ID = s.allocID()
	next.CreatedAt = s.stamp(next.CreatedAt)
	s.proposals[next.ID] = &next
	c := next
	return &c, nil
}

func (s *MemoryStore) CastVote(_ context.Context, vote *model.DaoVote) (*model.DaoVote, *model.DaoProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[vote.ProposalID]
	if !ok {
		return nil, nil, notFound("proposal", vote.ProposalID)
	}
	v := *vote
	v.ID = s.allocID()
	v.CreatedAt = s.stamp(v.CreatedAt)
	s.votes[v.ID] = &v

	next := *p
	if v.Support {
		next.VotesFor = p.VotesFor.Add(v.Weight)
	} else {
		next.VotesAgainst = p.VotesAgainst.Add(v.Weight)
	}
	s.proposals[p.ID] = &next

	vc, pc := v, next
	return &vc, &pc, nil
}

func (s *MemoryStore) ListVotes(_ context.Context, proposalID uint64) ([]*model.DaoVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.DaoVote, 0)
	for _, v := range s.votes {
		if v.ProposalID == proposalID {
			c := *v
			list = append(list, &c)
		}
	}
	return newestFirst(list,
		func(v *model.DaoVote) time.Time { return v.CreatedAt },
		func(v *model.DaoVote) uint64 { return v.ID }), nil
}

func (s *MemoryStore) ExecuteProposal(_ context.Context, id uint64) (*model.DaoProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, notFound("proposal", id)
	}
	next := *p
	next.Executed = true
	s.proposals[id] = &next
	c := next
	return &c, nil
}

// ========== Course NFTs ==========

func (s *MemoryStore) ListCourses(_ context.Context) ([]*model.CourseNft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.CourseNft, 0, len(s.courses))
	for _, c := range s.courses {
		cp := *c
		list = append(list, &cp)
	}
	return newestFirst(list,
		func(c *model.CourseNft) time.Time { return c.CreatedAt },
		func(c *model.CourseNft) uint64 { return c.ID }), nil
}

func (s *MemoryStore) GetCourse(_ context.Context, id uint64) (*model.CourseNft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) CreateCourse(_ context.Context, course *model.CourseNft) (*model.CourseNft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *course
	next.ID = s.allocID()
	next.CreatedAt = s.stamp(next.CreatedAt)
	s.courses[next.ID] = &next
	cp := next
	return &cp, nil
}

func (s *MemoryStore) PurchaseCourse(_ context.Context, id uint64, purchaser string) (*model.CourseNft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	next := *c
	next.Purchased = true
	next.Purchaser = &purchaser
	next.Students = c.Students + 1
	s.courses[id] = &next
	cp := next
	return &cp, nil
}

// ========== Marketplace ==========

// cloneItem Metadata 与 Buyer 不与存储中的记录共享
func cloneItem(it *model.MarketplaceItem) *model.MarketplaceItem {
	c := *it
	c.Metadata = slices.Clone(it.Metadata)
	if it.Buyer != nil {
		buyer := *it.Buyer
		c.Buyer = &buyer
	}
	return &c
}

func (s *MemoryStore) ListItems(_ context.Context) ([]*model.MarketplaceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.MarketplaceItem, 0, len(s.items))
	for _, it := range s.items {
		if it.Sold {
			continue
		}
		list = append(list, cloneItem(it))
	}
	return newestFirst(list,
		func(it *model.MarketplaceItem) time.Time { return it.CreatedAt },
		func(it *model.MarketplaceItem) uint64 { return it.ID }), nil
}

func (s *MemoryStore) GetItem(_ context.Context, id uint64) (*model.MarketplaceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, notFound("item", id)
	}
	return cloneItem(it), nil
}

func (s *MemoryStore) CreateItem(_ context.Context, item *model.MarketplaceItem) (*model.MarketplaceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneItem(item)
	next.ID = s.allocID()
	next.CreatedAt = s.stamp(next.CreatedAt)
	s.items[next.ID] = next
	return cloneItem(next), nil
}

func (s *MemoryStore) MarkItemSold(_ context.Context, id uint64, buyer string) (*model.MarketplaceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, notFound("item", id)
	}
	next := cloneItem(it)
	next.Sold = true
	next.Buyer = &buyer
	s.items[id] = next
	return cloneItem(next), nil
}
