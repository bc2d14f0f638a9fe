package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/flowdex/tradecore/internal/types"
)

// kindStatus maps a types.Kind to the HTTP status the command surface
// reports it as. Kinds not listed default to 422 Unprocessable Entity —
// spec.md §7's taxonomy is about classifying the failure, not about HTTP
// semantics, so this mapping is a presentation-layer concern only.
func kindStatus(kind types.Kind) int {
	switch kind {
	case types.NetworkUnavailable:
		return http.StatusServiceUnavailable
	case types.NoActiveConfig:
		return http.StatusNotFound
	case types.InvalidAddress, types.ValidationError, types.InvalidInterval:
		return http.StatusBadRequest
	case types.NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusUnprocessableEntity
	}
}

func respondTradeError(c *gin.Context, err error) {
	var te *types.TradeError
	if errors.As(err, &te) {
		c.JSON(kindStatus(te.Kind), gin.H{"error": te.Kind, "message": te.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": err.Error()})
}

// handleBotStatuses serves `GET bot.statuses` (spec.md §6): every
// supported network's BotStatus for the caller, zero-valued where the
// user has no history.
func (s *Server) handleBotStatuses(c *gin.Context) {
	statuses, err := s.store.ListBotStatuses(c.Request.Context(), userIDOf(c))
	if err != nil {
		respondTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

type botNetworkRequest struct {
	Network types.Network `json:"network" binding:"required"`
}

// handleBotStart serves `POST bot.start`: fails NoActiveConfig if the
// network has no active config, NetworkUnavailable if the network has no
// dialed RPC client — both checked before the scheduler ever installs a
// timer (spec.md §6).
func (s *Server) handleBotStart(c *gin.Context) {
	var req botNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": types.ValidationError, "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := userIDOf(c)

	if !s.trading.NetworkAvailable(req.Network) {
		respondTradeError(c, types.NewTradeError(types.NetworkUnavailable, "network %s has no configured RPC client", req.Network))
		return
	}

	cfg, err := s.store.GetActiveConfig(ctx, userID, req.Network)
	if err != nil {
		respondTradeError(c, err)
		return
	}

	if err := s.scheduler.StartBot(ctx, cfg); err != nil {
		respondTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleBotStop serves `POST bot.stop`. Idempotent per spec.md §8.6.
func (s *Server) handleBotStop(c *gin.Context) {
	var req botNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": types.ValidationError, "message": err.Error()})
		return
	}

	if err := s.scheduler.StopBot(c.Request.Context(), userIDOf(c), req.Network); err != nil {
		respondTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleConfigsActive serves `GET configs.active`: a single config when
// `network` is given, the full active set otherwise (spec.md §6).
func (s *Server) handleConfigsActive(c *gin.Context) {
	ctx := c.Request.Context()
	userID := userIDOf(c)

	if networkParam := c.Query("network"); networkParam != "" {
		cfg, err := s.store.GetActiveConfig(ctx, userID, types.Network(networkParam))
		if err != nil {
			respondTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
		return
	}

	cfgs, err := s.store.GetAllActiveConfigs(ctx, userID)
	if err != nil {
		respondTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfgs)
}

type createConfigRequest struct {
	ContractAddress   string            `json:"contractAddress" binding:"required"`
	WalletAddress     string            `json:"walletAddress"`
	Network           types.Network     `json:"network" binding:"required"`
	Dex               types.DEX         `json:"dex"`
	DexVersion        types.DexVersion  `json:"dexVersion"`
	TradeInterval     types.TradeInterval `json:"tradeInterval" binding:"required"`
	TradeAmountUsd    decimal.Decimal   `json:"tradeAmountUsd" binding:"required"`
	MaxGasRatio       decimal.Decimal   `json:"maxGasRatio" binding:"required"`
	SlippageTolerance decimal.Decimal   `json:"slippageTolerance" binding:"required"`
}

// handleCreateConfig serves `POST configs`: persists a new config as the
// sole active row for (userId, network), atomically deactivating any
// prior active row for that key (spec.md §3, enforced by
// journal.Store.CreateConfig). If a bot is currently running on this
// network, it is restarted with the new config — spec.md §4.6's
// reconfiguration rule.
func (s *Server) handleCreateConfig(c *gin.Context) {
	var req createConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": types.ValidationError, "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := userIDOf(c)

	cfg := &types.TradeConfig{
		UserID:            userID,
		ContractAddress:   req.ContractAddress,
		WalletAddress:     req.WalletAddress,
		Network:           req.Network,
		Dex:               req.Dex,
		DexVersion:        req.DexVersion,
		TradeInterval:     req.TradeInterval,
		TradeAmountUsd:    req.TradeAmountUsd,
		MaxGasRatio:       req.MaxGasRatio,
		SlippageTolerance: req.SlippageTolerance,
		IsActive:          true,
	}

	if err := s.store.CreateConfig(ctx, cfg); err != nil {
		respondTradeError(c, err)
		return
	}

	if s.scheduler.IsRunning(userID, req.Network) {
		if err := s.scheduler.StartBot(ctx, cfg); err != nil {
			s.logger.Errorw("failed to restart bot after reconfiguration", "error", err)
		}
	}

	c.JSON(http.StatusCreated, cfg)
}

type manualTradeRequest struct {
	ContractAddress   string           `json:"contractAddress" binding:"required"`
	Network           types.Network    `json:"network" binding:"required"`
	DexVersion        types.DexVersion `json:"dexVersion"`
	AmountUsd         decimal.Decimal  `json:"amountUsd" binding:"required"`
	SlippageTolerance decimal.Decimal  `json:"slippageTolerance" binding:"required"`
}

// handleManualTrade serves `POST trades.manual`: synchronously runs the
// Trading Service and journals the terminal result — no scheduler
// involvement, configId stays nil (spec.md §6). Manual trades update
// BotStatus counters too, per SPEC_FULL.md's resolved Open Question.
func (s *Server) handleManualTrade(c *gin.Context) {
	var req manualTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": types.ValidationError, "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := userIDOf(c)

	tradeLog := types.TradeLog{
		UserID:       userID,
		Network:      req.Network,
		TokenAddress: req.ContractAddress,
		TradeType:    types.TradeTypeManual,
		AmountUsd:    req.AmountUsd,
		Status:       types.StatusPending,
	}
	if err := s.store.CreateTradeLog(ctx, &tradeLog); err != nil {
		respondTradeError(c, err)
		return
	}

	outcome := s.trading.ExecuteTrade(ctx, types.TradeParams{
		UserID:            userID,
		Network:           req.Network,
		ContractAddress:   req.ContractAddress,
		DexVersion:        req.DexVersion,
		AmountUsd:         req.AmountUsd,
		SlippageTolerance: req.SlippageTolerance,
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
		tradeLog.Dex = outcome.Dex
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
		respondTradeError(c, err)
		return
	}

	tradeLog.Status = update.Status
	tradeLog.TxHash = update.TxHash
	tradeLog.TokenAmount = update.TokenAmount
	tradeLog.GasFee = update.GasFee
	tradeLog.GasFeeUsd = update.GasFeeUsd
	tradeLog.TokenPrice = update.TokenPrice
	tradeLog.Slippage = update.Slippage
	tradeLog.ErrorMessage = update.ErrorMessage

	if s.hub != nil {
		s.hub.NotifyTrade(userID, tradeLog)
		if status, err := s.store.GetBotStatus(ctx, userID, req.Network); err == nil {
			s.hub.NotifyBotStatus(userID, *status)
		}
	}

	status := http.StatusOK
	if !outcome.Success {
		status = kindStatus(outcome.ErrorKind)
	}
	c.JSON(status, tradeLog)
}

// handleTradesRecent serves `GET trades.recent` (default limit 10).
func (s *Server) handleTradesRecent(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	logs, err := s.store.GetRecentTradeLogs(c.Request.Context(), userIDOf(c), limit)
	if err != nil {
		respondTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// handleTradesAll serves `GET trades`.
func (s *Server) handleTradesAll(c *gin.Context) {
	logs, err := s.store.GetAllTradeLogs(c.Request.Context(), userIDOf(c))
	if err != nil {
		respondTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// handleNetworkStats serves `GET trades.networkStats`.
func (s *Server) handleNetworkStats(c *gin.Context) {
	stats, err := s.store.GetNetworkStats(c.Request.Context(), userIDOf(c))
	if err != nil {
		respondTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
