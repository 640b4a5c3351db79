//go:build integration

package repository

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"EsportsHub/internal/config"
	"EsportsHub/internal/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 运行方式：DATABASE_DSN=postgres://... go test -tags integration ./internal/repository/
func newGormTestStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN 未设置")
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	db, err := OpenPostgres(config.DatabaseConfig{DSN: dsn, MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: time.Minute}, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	store := NewGormStore(db)
	require.NoError(t, store.AutoMigrate(context.Background()))
	return store
}

func TestGormPlaceBetConcurrent(t *testing.T) {
	s := newGormTestStore(t)
	ctx := context.Background()
	ev, err := s.CreateEvent(ctx, &model.PredictionEvent{
		Name:    "grand final",
		Game:    "CS2",
		EndTime: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.PlaceBet(ctx, &model.Bet{
				EventID:     ev.ID,
				UserAddress: "0xbettor",
				Amount:      decimal.RequireFromString("0.5"),
				Odds:        decimal.NewFromInt(2),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPool.Equal(decimal.NewFromInt(10)), "pool %s", got.TotalPool)
	assert.Equal(t, n, got.BetCount)
	bets, err := s.ListBetsByEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, bets, n)

	_, _, err = s.PlaceBet(ctx, &model.Bet{EventID: ev.ID + 1_000_000, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)
	bets, err = s.ListBetsByEvent(ctx, ev.ID+1_000_000)
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestGormCastVoteConcurrent(t *testing.T) {
	s := newGormTestStore(t)
	ctx := context.Background()
	p, err := s.CreateProposal(ctx, &model.DaoProposal{
		Title:       "map pool",
		Description: "add Ancient",
		Creator:     "0xcreator",
		EndTime:     time.Now().Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.CastVote(ctx, &model.DaoVote{
				ProposalID: p.ID,
				Voter:      "0xvoter",
				Support:    i%2 == 0,
				Weight:     decimal.NewFromInt(3),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.VotesFor.Equal(decimal.NewFromInt(15)), "for %s", got.VotesFor)
	assert.True(t, got.VotesAgainst.Equal(decimal.NewFromInt(15)), "against %s", got.VotesAgainst)
	votes, err := s.ListVotes(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 10)

	_, _, err = s.CastVote(ctx, &model.DaoVote{ProposalID: p.ID + 1_000_000, Voter: "0xv", Weight: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}
