package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"EsportsHub/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestStore() *MemoryStore {
	s := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var tick int64
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestGetOrCreateUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.GetUser(ctx, "0xabc")
	require.ErrorIs(t, err, ErrNotFound)

	u1, err := s.GetOrCreateUser(ctx, "0xabc")
	require.NoError(t, err)
	assert.True(t, u1.ChzBalance.IsZero())
	assert.True(t, u1.FanTokenBalance.IsZero())

	u2, err := s.GetOrCreateUser(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)

	name := "faker"
	bal := decimal.RequireFromString("12.5")
	u3, err := s.UpdateUser(ctx, "0xabc", model.UserUpdate{Username: &name, ChzBalance: &bal})
	require.NoError(t, err)
	require.NotNil(t, u3.Username)
	assert.Equal(t, "faker", *u3.Username)
	assert.True(t, bal.Equal(u3.ChzBalance))

	_, err = s.UpdateUser(ctx, "0xmissing", model.UserUpdate{Username: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSharedIDCounter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	u, err := s.GetOrCreateUser(ctx, "0x1")
	require.NoError(t, err)
	ev, err := s.CreateEvent(ctx, &model.PredictionEvent{Name: "final", Game: "valorant"})
	require.NoError(t, err)
	v, err := s.CreateVideo(ctx, &model.Video{Title: "ace"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), u.ID)
	assert.Equal(t, uint64(2), ev.ID)
	assert.Equal(t, uint64(3), v.ID)
}

func TestPlaceBet(t *testing.T) {
	ctx := context.Background()

	t.Run("updates pool and count", func(t *testing.T) {
		s := newTestStore()
		ev, err := s.CreateEvent(ctx, &model.PredictionEvent{Name: "grand final", Game: "cs2"})
		require.NoError(t, err)

		bet, updated, err := s.PlaceBet(ctx, &model.Bet{
			EventID: ev.ID,
			Option:  1,
			Amount:  decimal.RequireFromString("2.5"),
			Odds:    decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		assert.NotZero(t, bet.ID)
		assert.Equal(t, "2.5", updated.TotalPool.String())
		assert.Equal(t, 1, updated.BetCount)

		stored, err := s.GetEvent(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, "2.5", stored.TotalPool.String())

		bets, err := s.ListBetsByEvent(ctx, ev.ID)
		require.NoError(t, err)
		assert.Len(t, bets, 1)
	})

	t.Run("unknown event writes nothing", func(t *testing.T) {
		s := newTestStore()
		_, _, err := s.PlaceBet(ctx, &model.Bet{EventID: 99, Amount: decimal.NewFromInt(1)})
		require.ErrorIs(t, err, ErrNotFound)
		bets, err := s.ListBetsByEvent(ctx, 99)
		require.NoError(t, err)
		assert.Empty(t, bets)
	})

	t.Run("concurrent bets are not lost", func(t *testing.T) {
		s := newTestStore()
		ev, err := s.CreateEvent(ctx, &model.PredictionEvent{Name: "semi", Game: "dota2"})
		require.NoError(t, err)

		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := s.PlaceBet(ctx, &model.Bet{EventID: ev.ID, Amount: decimal.NewFromInt(3)})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		stored, err := s.GetEvent(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, "150", stored.TotalPool.String())
		assert.Equal(t, n, stored.BetCount)
	})
}

func TestListBetsByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	ev, err := s.CreateEvent(ctx, &model.PredictionEvent{Name: "e", Game: "lol"})
	require.NoError(t, err)

	first, _, err := s.PlaceBet(ctx, &model.Bet{EventID: ev.ID, UserAddress: "0xu", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	second, _, err := s.PlaceBet(ctx, &model.Bet{EventID: ev.ID, UserAddress: "0xu", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)
	_, _, err = s.PlaceBet(ctx, &model.Bet{EventID: ev.ID, UserAddress: "0xother", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)

	bets, err := s.ListBetsByUser(ctx, "0xu")
	require.NoError(t, err)
	require.Len(t, bets, 2)
	assert.Equal(t, second.ID, bets[0].ID)
	assert.Equal(t, first.ID, bets[1].ID)

	claimed, err := s.ClaimBet(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, claimed.Claimed)
}

func TestVideoCounters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	v, err := s.CreateVideo(ctx, &model.Video{Title: "clutch", Creator: "0xc"})
	require.NoError(t, err)

	_, err = s.LikeVideo(ctx, v.ID)
	require.NoError(t, err)
	liked, err := s.LikeVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	viewed, err := s.ViewVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, viewed.Views)

	verified, err := s.VerifyVideo(ctx, v.ID, true)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	_, err = s.LikeVideo(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCastVoteAllowsRepeatVotes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	p, err := s.CreateProposal(ctx, &model.DaoProposal{Title: "new map pool", Description: "d"})
	require.NoError(t, err)

	_, _, err = s.CastVote(ctx, &model.DaoVote{ProposalID: p.ID, Voter: "0xv", Support: true, Weight: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, updated, err := s.CastVote(ctx, &model.DaoVote{ProposalID: p.ID, Voter: "0xv", Support: true, Weight: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "10", updated.VotesFor.String())
	assert.True(t, updated.VotesAgainst.IsZero())

	_, updated, err = s.CastVote(ctx, &model.DaoVote{ProposalID: p.ID, Voter: "0xw", Support: false, Weight: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.VotesAgainst.String())

	votes, err := s.ListVotes(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 3)

	_, _, err = s.CastVote(ctx, &model.DaoVote{ProposalID: 999, Weight: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	executed, err := s.ExecuteProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, executed.Executed)
}

func TestPurchaseCourseOverwritesPurchaser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	c, err := s.CreateCourse(ctx, &model.CourseNft{Title: "aim training", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)

	first, err := s.PurchaseCourse(ctx, c.ID, "0xa")
	require.NoError(t, err)
	assert.True(t, first.Purchased)
	assert.Equal(t, 1, first.Students)

	second, err := s.PurchaseCourse(ctx, c.ID, "0xb")
	require.NoError(t, err)
	require.NotNil(t, second.Purchaser)
	assert.Equal(t, "0xb", *second.Purchaser)
	assert.Equal(t, 2, second.Students)

	_, err = s.PurchaseCourse(ctx, 777, "0xa")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListItemsUnsoldOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	a, err := s.CreateItem(ctx, &model.MarketplaceItem{Seller: "0xs", ItemType: model.ItemTypeCollectible, Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	b, err := s.CreateItem(ctx, &model.MarketplaceItem{Seller: "0xs", ItemType: model.ItemTypeCourse, Price: decimal.NewFromInt(2)})
	require.NoError(t, err)

	sold, err := s.MarkItemSold(ctx, a.ID, "0xbuyer")
	require.NoError(t, err)
	assert.True(t, sold.Sold)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	got, err := s.GetItem(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Buyer)
	assert.Equal(t, "0xbuyer", *got.Buyer)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	ev, err := s.CreateEvent(ctx, &model.PredictionEvent{Name: "original"})
	require.NoError(t, err)

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)
}

func TestItemMetadataIsCopied(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	input := &model.MarketplaceItem{Seller: "0xseller", Metadata: datatypes.JSON(`{"a":1}`)}
	item, err := s.CreateItem(ctx, input)
	require.NoError(t, err)
	input.Metadata[len(input.Metadata)-1] = '9'

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	got.Metadata[len(got.Metadata)-1] = '9'

	listed, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Metadata[0] = '['

	sold, err := s.MarkItemSold(ctx, item.ID, "0xbuyer")
	require.NoError(t, err)
	*sold.Buyer = "0xother"
	sold.Metadata[0] = '['

	again, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(again.Metadata))
	require.NotNil(t, again.Buyer)
	assert.Equal(t, "0xbuyer", *again.Buyer)
}
