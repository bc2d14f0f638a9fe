// Package api is the Request Boundary (spec.md §6): a thin gin-gonic/gin
// command surface in front of the Bot Scheduler, Trading Service, and
// Trade Journal, plus the websocket upgrade endpoint the Notification Bus
// serves through. OIDC session-cookie auth is out of scope per spec.md §1
// — Server wires a placeholder middleware reading an X-User-Id header so
// the command surface stays exercisable end-to-end without the external
// auth layer.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/notify"
	"github.com/flowdex/tradecore/internal/types"
)

// Store is the slice of journal.Store the command surface reads and
// writes through. Declared as an interface, like scheduler.Trader, so
// handler tests can run against a fake without a live MySQL/sqlmock
// connection.
type Store interface {
	ListBotStatuses(ctx context.Context, userID string) ([]types.BotStatus, error)
	GetActiveConfig(ctx context.Context, userID string, network types.Network) (*types.TradeConfig, error)
	GetAllActiveConfigs(ctx context.Context, userID string) ([]types.TradeConfig, error)
	CreateConfig(ctx context.Context, cfg *types.TradeConfig) error
	CreateTradeLog(ctx context.Context, log *types.TradeLog) error
	UpdateTradeLog(ctx context.Context, id string, update types.TerminalUpdate) error
	GetRecentTradeLogs(ctx context.Context, userID string, limit int) ([]types.TradeLog, error)
	GetAllTradeLogs(ctx context.Context, userID string) ([]types.TradeLog, error)
	GetNetworkStats(ctx context.Context, userID string) ([]types.NetworkStats, error)
	GetBotStatus(ctx context.Context, userID string, network types.Network) (*types.BotStatus, error)
}

// Scheduler is the slice of *scheduler.Scheduler the command surface
// drives directly (tick execution is internal to the scheduler).
type Scheduler interface {
	StartBot(ctx context.Context, cfg *types.TradeConfig) error
	StopBot(ctx context.Context, userID string, network types.Network) error
	IsRunning(userID string, network types.Network) bool
}

// Trader is the slice of *trading.Service the manual-trade and bot-start
// handlers call.
type Trader interface {
	ExecuteTrade(ctx context.Context, params types.TradeParams) types.TradeOutcome
	NetworkAvailable(network types.Network) bool
}

// Server wires the command surface's dependencies and exposes the router
// cmd/server listens with.
type Server struct {
	store     Store
	scheduler Scheduler
	trading   Trader
	hub       *notify.Hub
	logger    *zap.SugaredLogger
	upgrader  websocket.Upgrader
}

// New builds a Server. hub may be nil in tests that don't exercise the
// websocket path.
func New(store Store, sched Scheduler, tradingSvc Trader, hub *notify.Hub, logger *zap.SugaredLogger) *Server {
	return &Server{
		store:     store,
		scheduler: sched,
		trading:   tradingSvc,
		hub:       hub,
		logger:    logger,
		upgrader:  websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// Router builds the gin engine with every spec.md §6 route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/ws", s.handleWebsocket)

	authed := r.Group("/", s.requireUserID())
	authed.GET("/bot/statuses", s.handleBotStatuses)
	authed.POST("/bot/start", s.handleBotStart)
	authed.POST("/bot/stop", s.handleBotStop)
	authed.GET("/configs/active", s.handleConfigsActive)
	authed.POST("/configs", s.handleCreateConfig)
	authed.POST("/trades/manual", s.handleManualTrade)
	authed.GET("/trades/recent", s.handleTradesRecent)
	authed.GET("/trades", s.handleTradesAll)
	authed.GET("/trades/network-stats", s.handleNetworkStats)

	return r
}

// requestLogger mirrors the teacher's zap-everywhere logging idiom at the
// HTTP boundary.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}

const userIDContextKey = "userId"

// requireUserID stands in for the external OIDC session-cookie layer
// (spec.md §1's "out of scope, treated as external collaborator") — it
// trusts an X-User-Id header, which only belongs behind a real auth
// layer in production. Every other handler reads the resolved user id
// back out of gin.Context rather than the header directly.
func (s *Server) requireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id"})
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func userIDOf(c *gin.Context) string {
	return c.GetString(userIDContextKey)
}

func (s *Server) handleWebsocket(c *gin.Context) {
	if s.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification bus not configured"})
		return
	}
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	s.hub.Serve(ws)
}
