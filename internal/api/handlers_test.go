package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is a minimal in-memory double implementing the Store
// interface, sized exactly to what the handlers under test exercise.
type fakeStore struct {
	activeConfigs map[string]*types.TradeConfig // keyed by userID+network
	createErr     error
	created       []*types.TradeConfig
	tradeLogs     []types.TradeLog
	updateErr     error
	botStatus     types.BotStatus
}

func key(userID string, network types.Network) string { return userID + "/" + string(network) }

func (f *fakeStore) ListBotStatuses(ctx context.Context, userID string) ([]types.BotStatus, error) {
	return []types.BotStatus{f.botStatus}, nil
}

func (f *fakeStore) GetActiveConfig(ctx context.Context, userID string, network types.Network) (*types.TradeConfig, error) {
	cfg, ok := f.activeConfigs[key(userID, network)]
	if !ok {
		return nil, types.NewTradeError(types.NoActiveConfig, "no active config")
	}
	return cfg, nil
}

func (f *fakeStore) GetAllActiveConfigs(ctx context.Context, userID string) ([]types.TradeConfig, error) {
	var out []types.TradeConfig
	for _, cfg := range f.activeConfigs {
		if cfg.UserID == userID {
			out = append(out, *cfg)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateConfig(ctx context.Context, cfg *types.TradeConfig) error {
	if f.createErr != nil {
		return f.createErr
	}
	cfg.ID = "cfg-1"
	f.created = append(f.created, cfg)
	if f.activeConfigs == nil {
		f.activeConfigs = map[string]*types.TradeConfig{}
	}
	f.activeConfigs[key(cfg.UserID, cfg.Network)] = cfg
	return nil
}

func (f *fakeStore) CreateTradeLog(ctx context.Context, log *types.TradeLog) error {
	log.ID = "log-1"
	f.tradeLogs = append(f.tradeLogs, *log)
	return nil
}

func (f *fakeStore) UpdateTradeLog(ctx context.Context, id string, update types.TerminalUpdate) error {
	return f.updateErr
}

func (f *fakeStore) GetRecentTradeLogs(ctx context.Context, userID string, limit int) ([]types.TradeLog, error) {
	return f.tradeLogs, nil
}

func (f *fakeStore) GetAllTradeLogs(ctx context.Context, userID string) ([]types.TradeLog, error) {
	return f.tradeLogs, nil
}

func (f *fakeStore) GetNetworkStats(ctx context.Context, userID string) ([]types.NetworkStats, error) {
	return []types.NetworkStats{}, nil
}

func (f *fakeStore) GetBotStatus(ctx context.Context, userID string, network types.Network) (*types.BotStatus, error) {
	return &f.botStatus, nil
}

type fakeScheduler struct {
	started   []*types.TradeConfig
	stopped   []types.Network
	isRunning bool
	startErr  error
}

func (f *fakeScheduler) StartBot(ctx context.Context, cfg *types.TradeConfig) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, cfg)
	return nil
}

func (f *fakeScheduler) StopBot(ctx context.Context, userID string, network types.Network) error {
	f.stopped = append(f.stopped, network)
	return nil
}

func (f *fakeScheduler) IsRunning(userID string, network types.Network) bool { return f.isRunning }

type fakeTrader struct {
	available bool
	outcome   types.TradeOutcome
}

func (f *fakeTrader) ExecuteTrade(ctx context.Context, params types.TradeParams) types.TradeOutcome {
	return f.outcome
}

func (f *fakeTrader) NetworkAvailable(network types.Network) bool { return f.available }

func newTestServer() (*Server, *fakeStore, *fakeScheduler, *fakeTrader) {
	store := &fakeStore{}
	sched := &fakeScheduler{}
	trader := &fakeTrader{available: true}
	s := New(store, sched, trader, nil, zap.NewNop().Sugar())
	return s, store, sched, trader
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUserID_MissingHeaderRejected(t *testing.T) {
	s, _, _, _ := newTestServer()
	w := doRequest(t, s.Router(), http.MethodGet, "/bot/statuses", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBotStart_NoActiveConfig(t *testing.T) {
	s, _, _, _ := newTestServer()
	w := doRequest(t, s.Router(), http.MethodPost, "/bot/start", botNetworkRequest{Network: types.ETH}, "user-1")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(types.NoActiveConfig), body["error"])
}

func TestBotStart_NetworkUnavailable(t *testing.T) {
	s, store, _, trader := newTestServer()
	trader.available = false
	store.activeConfigs = map[string]*types.TradeConfig{
		key("user-1", types.ETH): {ID: "cfg-1", UserID: "user-1", Network: types.ETH},
	}

	w := doRequest(t, s.Router(), http.MethodPost, "/bot/start", botNetworkRequest{Network: types.ETH}, "user-1")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBotStart_Success(t *testing.T) {
	s, store, sched, _ := newTestServer()
	store.activeConfigs = map[string]*types.TradeConfig{
		key("user-1", types.ETH): {ID: "cfg-1", UserID: "user-1", Network: types.ETH, TradeInterval: types.Interval5Min},
	}

	w := doRequest(t, s.Router(), http.MethodPost, "/bot/start", botNetworkRequest{Network: types.ETH}, "user-1")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sched.started, 1)
	assert.Equal(t, "cfg-1", sched.started[0].ID)
}

func TestBotStop_Idempotent(t *testing.T) {
	s, _, sched, _ := newTestServer()
	w := doRequest(t, s.Router(), http.MethodPost, "/bot/stop", botNetworkRequest{Network: types.BNB}, "user-1")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sched.stopped, 1)
	assert.Equal(t, types.BNB, sched.stopped[0])
}

func TestCreateConfig_RestartsRunningBot(t *testing.T) {
	s, _, sched, _ := newTestServer()
	sched.isRunning = true

	req := createConfigRequest{
		ContractAddress:   "0x1234567890123456789012345678901234567890",
		Network:           types.ETH,
		TradeInterval:     types.Interval10Min,
		TradeAmountUsd:    decimal.NewFromInt(10),
		MaxGasRatio:       decimal.NewFromFloat(0.5),
		SlippageTolerance: decimal.NewFromFloat(1.0),
	}
	w := doRequest(t, s.Router(), http.MethodPost, "/configs", req, "user-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, sched.started, 1, "a reconfiguration while running must restart the bot")
}

func TestManualTrade_GasTooHighReturnsStructuredOutcome(t *testing.T) {
	s, _, _, trader := newTestServer()
	trader.outcome = types.TradeOutcome{
		Success:      false,
		ErrorKind:    types.GasTooHigh,
		ErrorMessage: "gas too high",
	}

	req := manualTradeRequest{
		ContractAddress:   "0x1234567890123456789012345678901234567890",
		Network:           types.ETH,
		AmountUsd:         decimal.NewFromInt(5),
		SlippageTolerance: decimal.NewFromFloat(1.0),
	}
	w := doRequest(t, s.Router(), http.MethodPost, "/trades/manual", req, "user-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var log types.TradeLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &log))
	assert.Equal(t, types.StatusFailed, log.Status)
	assert.Nil(t, log.TxHash, "a rejected trade must not carry a txHash")
}

func TestManualTrade_Success(t *testing.T) {
	s, _, _, trader := newTestServer()
	trader.outcome = types.TradeOutcome{
		Success:    true,
		Dex:        types.Uniswap,
		TxHash:     "0xabc",
		TokenPrice: decimal.NewFromFloat(2.5),
	}

	req := manualTradeRequest{
		ContractAddress:   "0x1234567890123456789012345678901234567890",
		Network:           types.ETH,
		AmountUsd:         decimal.NewFromInt(10),
		SlippageTolerance: decimal.NewFromFloat(1.0),
	}
	w := doRequest(t, s.Router(), http.MethodPost, "/trades/manual", req, "user-1")
	assert.Equal(t, http.StatusOK, w.Code)

	var log types.TradeLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &log))
	assert.Equal(t, types.StatusSuccess, log.Status)
	require.NotNil(t, log.TxHash)
	assert.Equal(t, "0xabc", *log.TxHash)
}
