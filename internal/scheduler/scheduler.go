// Package scheduler implements the Bot Scheduler (spec.md §4.6): one
// cron-driven entry per (userId, network) that, on each tick, pulls the
// active TradeConfig, hands it to the Trading Service, and records the
// outcome through the Trade Journal.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/types"
)

// tradeExecutionTimeout bounds a single scheduled trade attempt so a
// stuck RPC call cannot wedge a cron entry forever; SkipIfStillRunning
// only protects against overlap, not a hang.
const tradeExecutionTimeout = 2 * time.Minute

// Notifier is the narrow slice of internal/notify.Hub the scheduler needs.
// Declaring it here rather than importing internal/notify keeps the two
// packages from depending on each other; cmd/server wires a *notify.Hub
// in that satisfies this.
type Notifier interface {
	NotifyBotStatus(userID string, status types.BotStatus)
	NotifyTrade(userID string, log types.TradeLog)
}

// Trader is the slice of *trading.Service the scheduler calls — declared
// as an interface so tests can drive executeScheduledTrade without a real
// rpcpool/oracle wiring behind it.
type Trader interface {
	ExecuteTrade(ctx context.Context, params types.TradeParams) types.TradeOutcome
}

// JournalStore is the slice of *journal.Store the scheduler persists
// through. Declared as an interface, like Trader and Notifier, so tests
// can drive StartBot/StopBot/Reconcile/executeScheduledTrade without a
// real or sqlmock-backed gorm connection.
type JournalStore interface {
	SetRunning(ctx context.Context, userID string, network types.Network, running bool, configID *string) error
	GetActiveConfig(ctx context.Context, userID string, network types.Network) (*types.TradeConfig, error)
	ListRunningBots(ctx context.Context) ([]types.BotStatus, error)
	CreateTradeLog(ctx context.Context, log *types.TradeLog) error
	UpdateTradeLog(ctx context.Context, id string, update types.TerminalUpdate) error
	GetBotStatus(ctx context.Context, userID string, network types.Network) (*types.BotStatus, error)
	RecordSnapshot(ctx context.Context, network types.Network, volumeUsd decimal.Decimal) error
	SetNextTradeAt(ctx context.Context, userID string, network types.Network, next *time.Time) error
}

type botKey struct {
	UserID  string
	Network types.Network
}

// botEntry is one running bot's own cron.Cron, matching SPEC_FULL.md
// §4.6's "one cron.Cron per (userId, network) key" so a single bot can be
// stopped (cron.Stop) without touching any other bot's schedule.
type botEntry struct {
	cron     *cron.Cron
	entryID  cron.EntryID
	configID string
}

// Scheduler owns every running bot's cron schedule and the wiring from a
// tick to a Trading Service call to a Trade Journal write.
type Scheduler struct {
	mu   sync.Mutex
	bots map[botKey]*botEntry

	trading  Trader
	store    JournalStore
	notifier Notifier
	logger   *zap.SugaredLogger
}

// New builds a Scheduler. notifier may be nil, in which case bot-status
// and trade events simply aren't pushed over the websocket bus.
func New(tradingSvc Trader, store JournalStore, notifier Notifier, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		bots:     make(map[botKey]*botEntry),
		trading:  tradingSvc,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// StartBot installs (or replaces) the cron schedule for cfg's
// (userId, network) and marks it running in the journal. Starting a bot
// that is already running stops its prior schedule first, so picking up a
// newly-activated config never leaves two timers racing each other.
func (s *Scheduler) StartBot(ctx context.Context, cfg *types.TradeConfig) error {
	s.mu.Lock()
	if existing, ok := s.bots[botKey{cfg.UserID, cfg.Network}]; ok {
		existing.cron.Stop()
		delete(s.bots, botKey{cfg.UserID, cfg.Network})
	}
	s.mu.Unlock()

	if err := s.installCronEntry(cfg); err != nil {
		return err
	}
	return s.store.SetRunning(ctx, cfg.UserID, cfg.Network, true, &cfg.ID)
}

// installCronEntry wires cfg's cron entry without touching journal state —
// split out so Reconcile can restart an already-`isRunning=true` bot's
// timer without re-flipping a flag that is already set.
func (s *Scheduler) installCronEntry(cfg *types.TradeConfig) error {
	spec, err := cfg.TradeInterval.CronSpec()
	if err != nil {
		return err
	}

	key := botKey{cfg.UserID, cfg.Network}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})))
	entryID, err := c.AddFunc(spec, func() { s.executeScheduledTrade(key, cfg.ID) })
	if err != nil {
		return fmt.Errorf("scheduler: install cron entry: %w", err)
	}
	c.Start()

	s.mu.Lock()
	s.bots[key] = &botEntry{cron: c, entryID: entryID, configID: cfg.ID}
	s.mu.Unlock()
	return nil
}

// StopBot removes userId/network's cron entry, if any, and marks it
// stopped in the journal. Stopping a bot with no installed entry is not
// an error — it just clears the journal flag (e.g. after a crash left it
// stuck running with nothing actually scheduled).
func (s *Scheduler) StopBot(ctx context.Context, userID string, network types.Network) error {
	key := botKey{userID, network}

	s.mu.Lock()
	entry, ok := s.bots[key]
	delete(s.bots, key)
	s.mu.Unlock()

	if ok {
		entry.cron.Stop()
	}
	return s.store.SetRunning(ctx, userID, network, false, nil)
}

// IsRunning reports whether userId/network currently has an installed
// cron entry.
func (s *Scheduler) IsRunning(userID string, network types.Network) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bots[botKey{userID, network}]
	return ok
}

// Reconcile restarts cron entries for every bot the journal believes is
// running, matching spec.md §5's startup-reconciliation requirement. A
// BotStatus row with isRunning=true but no active config is orphaned —
// its config was deactivated or deleted without the bot being stopped —
// and is forced back to not-running rather than given a schedule.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	running, err := s.store.ListRunningBots(ctx)
	if err != nil {
		return fmt.Errorf("scheduler: reconcile: list running bots: %w", err)
	}

	for _, bs := range running {
		cfg, err := s.store.GetActiveConfig(ctx, bs.UserID, bs.Network)
		if err != nil {
			s.logger.Warnw("orphaned running bot has no active config, marking stopped",
				"userId", bs.UserID, "network", bs.Network)
			if err := s.store.SetRunning(ctx, bs.UserID, bs.Network, false, nil); err != nil {
				return fmt.Errorf("scheduler: reconcile: clear orphaned bot: %w", err)
			}
			continue
		}

		if err := s.installCronEntry(cfg); err != nil {
			s.logger.Errorw("failed to reinstall cron entry during reconciliation",
				"userId", bs.UserID, "network", bs.Network, "error", err)
		}
	}
	return nil
}

// executeScheduledTrade is one cron tick: reload the active config (it may
// have rotated or deactivated since the entry was installed), run the
// trade, and persist the outcome. It runs on the cron library's own
// goroutine, never the caller's.
func (s *Scheduler) executeScheduledTrade(key botKey, configID string) {
	ctx, cancel := context.WithTimeout(context.Background(), tradeExecutionTimeout)
	defer cancel()

	log := s.logger.With("userId", key.UserID, "network", key.Network)

	cfg, err := s.store.GetActiveConfig(ctx, key.UserID, key.Network)
	if err != nil {
		log.Warnw("skipping tick: no active config", "error", err)
		return
	}
	if cfg.ID != configID {
		log.Infow("skipping tick: active config rotated since entry was installed")
		return
	}

	tradeLog := types.TradeLog{
		UserID:       cfg.UserID,
		ConfigID:     &cfg.ID,
		Network:      cfg.Network,
		Dex:          cfg.Dex,
		TokenAddress: cfg.ContractAddress,
		TradeType:    types.TradeTypeAutomated,
		AmountUsd:    cfg.TradeAmountUsd,
		Status:       types.StatusPending,
	}
	if err := s.store.CreateTradeLog(ctx, &tradeLog); err != nil {
		log.Errorw("failed to create trade log", "error", err)
		return
	}

	outcome := s.trading.ExecuteTrade(ctx, types.TradeParams{
		UserID:            cfg.UserID,
		Network:           cfg.Network,
		ContractAddress:   cfg.ContractAddress,
		DexVersion:        cfg.DexVersion,
		AmountUsd:         cfg.TradeAmountUsd,
		SlippageTolerance: cfg.SlippageTolerance,
		MaxGasRatio:       cfg.MaxGasRatio,
	})

	update := types.TerminalUpdate{
		Status:      types.StatusFailed,
		TokenAmount: outcome.TokenAmount,
		GasFee:      outcome.GasFee,
		GasFeeUsd:   outcome.GasFeeUsd,
		TokenPrice:  outcome.TokenPrice,
		Slippage:    outcome.Slippage,
	}
	if outcome.Success {
		update.Status = types.StatusSuccess
	}
	if outcome.TxHash != "" {
		txHash := outcome.TxHash
		update.TxHash = &txHash
	}
	if outcome.ErrorMessage != "" {
		msg := outcome.ErrorMessage
		update.ErrorMessage = &msg
	}

	if err := s.store.UpdateTradeLog(ctx, tradeLog.ID, update); err != nil {
		log.Errorw("failed to update trade log", "error", err)
	}

	if outcome.Success {
		if status, err := s.store.GetBotStatus(ctx, key.UserID, key.Network); err == nil {
			if err := s.store.RecordSnapshot(ctx, key.Network, status.TotalVolumeUsd); err != nil {
				log.Warnw("failed to record volume snapshot", "error", err)
			}
		}
	}

	s.recordNextTradeAt(ctx, key)

	if s.notifier != nil {
		tradeLog.Status = update.Status
		tradeLog.TxHash = update.TxHash
		tradeLog.TokenAmount = update.TokenAmount
		tradeLog.GasFee = update.GasFee
		tradeLog.GasFeeUsd = update.GasFeeUsd
		tradeLog.TokenPrice = update.TokenPrice
		tradeLog.Slippage = update.Slippage
		tradeLog.ErrorMessage = update.ErrorMessage
		s.notifier.NotifyTrade(key.UserID, tradeLog)

		if status, err := s.store.GetBotStatus(ctx, key.UserID, key.Network); err == nil {
			s.notifier.NotifyBotStatus(key.UserID, *status)
		}
	}
}

// recordNextTradeAt surfaces when this bot's cron entry will next fire,
// purely informational (spec.md §6 status response).
func (s *Scheduler) recordNextTradeAt(ctx context.Context, key botKey) {
	s.mu.Lock()
	entry, ok := s.bots[key]
	s.mu.Unlock()
	if !ok {
		return
	}

	next := entry.cron.Entry(entry.entryID).Next
	if next.IsZero() {
		return
	}
	if err := s.store.SetNextTradeAt(ctx, key.UserID, key.Network, &next); err != nil {
		s.logger.Errorw("failed to record next trade time", "error", err)
	}
}
