package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/types"
)

// fakeJournalStore is an in-memory double satisfying JournalStore, sized
// to what the scheduler's own operations exercise.
type fakeJournalStore struct {
	mu            sync.Mutex
	runningCalls  []bool
	activeConfigs map[string]*types.TradeConfig
	runningBots   []types.BotStatus
	tradeLogs     map[string]*types.TradeLog
	botStatus     types.BotStatus
	logCreated    int
	updates       []types.TerminalUpdate
}

func newFakeStore() *fakeJournalStore {
	return &fakeJournalStore{
		activeConfigs: map[string]*types.TradeConfig{},
		tradeLogs:     map[string]*types.TradeLog{},
	}
}

func (f *fakeJournalStore) SetRunning(ctx context.Context, userID string, network types.Network, running bool, configID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runningCalls = append(f.runningCalls, running)
	return nil
}

func (f *fakeJournalStore) GetActiveConfig(ctx context.Context, userID string, network types.Network) (*types.TradeConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.activeConfigs[userID+"/"+string(network)]
	if !ok {
		return nil, types.NewTradeError(types.NoActiveConfig, "no active config")
	}
	return cfg, nil
}

func (f *fakeJournalStore) ListRunningBots(ctx context.Context) ([]types.BotStatus, error) {
	return f.runningBots, nil
}

func (f *fakeJournalStore) CreateTradeLog(ctx context.Context, log *types.TradeLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCreated++
	log.ID = "log-1"
	f.tradeLogs[log.ID] = log
	return nil
}

func (f *fakeJournalStore) UpdateTradeLog(ctx context.Context, id string, update types.TerminalUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeJournalStore) GetBotStatus(ctx context.Context, userID string, network types.Network) (*types.BotStatus, error) {
	return &f.botStatus, nil
}

func (f *fakeJournalStore) RecordSnapshot(ctx context.Context, network types.Network, volumeUsd decimal.Decimal) error {
	return nil
}

func (f *fakeJournalStore) SetNextTradeAt(ctx context.Context, userID string, network types.Network, next *time.Time) error {
	return nil
}

type fakeTrader struct {
	outcome types.TradeOutcome
	calls   int
}

func (f *fakeTrader) ExecuteTrade(ctx context.Context, params types.TradeParams) types.TradeOutcome {
	f.calls++
	return f.outcome
}

func testConfig(userID string, network types.Network, interval types.TradeInterval) *types.TradeConfig {
	return &types.TradeConfig{
		ID:            "cfg-1",
		UserID:        userID,
		Network:       network,
		TradeInterval: interval,
	}
}

func TestStartBot_RestartIsIdempotent(t *testing.T) {
	store := newFakeStore()
	sched := New(&fakeTrader{}, store, nil, zap.NewNop().Sugar())

	cfg := testConfig("user-1", types.ETH, types.Interval1Hour)
	require.NoError(t, sched.StartBot(context.Background(), cfg))
	require.NoError(t, sched.StartBot(context.Background(), cfg))

	assert.True(t, sched.IsRunning("user-1", types.ETH))
	assert.Len(t, sched.bots, 1, "only one scheduler entry may exist per (userId, network)")
}

func TestStopBot_NoEntryIsNoop(t *testing.T) {
	store := newFakeStore()
	sched := New(&fakeTrader{}, store, nil, zap.NewNop().Sugar())

	require.NoError(t, sched.StopBot(context.Background(), "user-1", types.BNB))
	require.NoError(t, sched.StopBot(context.Background(), "user-1", types.BNB))

	assert.False(t, sched.IsRunning("user-1", types.BNB))
	assert.Equal(t, []bool{false, false}, store.runningCalls)
}

func TestStartBot_RejectsUnknownInterval(t *testing.T) {
	store := newFakeStore()
	sched := New(&fakeTrader{}, store, nil, zap.NewNop().Sugar())

	cfg := testConfig("user-1", types.ETH, types.TradeInterval("bogus"))
	err := sched.StartBot(context.Background(), cfg)

	require.Error(t, err)
	assert.Equal(t, types.InvalidInterval, types.KindOf(err))
}

func TestReconcile_OrphanedConfigForcesNotRunning(t *testing.T) {
	store := newFakeStore()
	store.runningBots = []types.BotStatus{
		{UserID: "user-1", Network: types.SOL, IsRunning: true, ActiveConfigID: strPtr("deleted-cfg")},
	}
	// No entry in store.activeConfigs for user-1/SOL: GetActiveConfig returns NoActiveConfig.

	sched := New(&fakeTrader{}, store, nil, zap.NewNop().Sugar())
	require.NoError(t, sched.Reconcile(context.Background()))

	assert.False(t, sched.IsRunning("user-1", types.SOL), "an orphaned bot must not get a reinstalled timer")
	require.NotEmpty(t, store.runningCalls)
	assert.False(t, store.runningCalls[len(store.runningCalls)-1], "orphaned bot's isRunning flag must be cleared")
}

func TestReconcile_ReinstallsTimerForConfiguredBot(t *testing.T) {
	store := newFakeStore()
	cfg := testConfig("user-1", types.ETH, types.Interval1Hour)
	store.activeConfigs["user-1/ETH"] = cfg
	store.runningBots = []types.BotStatus{
		{UserID: "user-1", Network: types.ETH, IsRunning: true, ActiveConfigID: &cfg.ID},
	}

	sched := New(&fakeTrader{}, store, nil, zap.NewNop().Sugar())
	require.NoError(t, sched.Reconcile(context.Background()))

	assert.True(t, sched.IsRunning("user-1", types.ETH))
}

func strPtr(s string) *string { return &s }
