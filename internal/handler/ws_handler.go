package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/config"
	"github.com/LOAD-13/boc-forms-backend/internal/service"
	ws "github.com/LOAD-13/boc-forms-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const wsKeepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live grading results to form owners.
type WSHandler struct {
	rdb         *redis.Client
	formService *service.FormService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, formService *service.FormService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:         rdb,
		formService: formService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// ResultsStream godoc
// WS /ws/v1/admin/forms/:form_id/results
// Upgrades to WebSocket and forwards graded-result events for the form.
// Events originate from the submit path via Redis Pub/Sub, so every
// server instance sees every result.
func (h *WSHandler) ResultsStream(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	formID, err := uuid.Parse(c.Param("form_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form ID"})
		return
	}

	if _, err := h.formService.GetOwned(c.Request.Context(), formID, ownerID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this form"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	reqCtx := c.Request.Context()
	channel := config.CacheKey.FormResultsChannel(formID.String())
	pubsub := h.rdb.Subscribe(reqCtx, channel)
	defer pubsub.Close()

	wsLog := h.log.With().
		Str("form_id", formID.String()).
		Str("owner_id", ownerID.String()).
		Logger()
	wsLog.Info().Msg("Owner attached to live results stream")

	// Reader goroutine: consume pings and surface disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	keepAlive := time.NewTicker(wsKeepAliveInterval)
	defer keepAlive.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-reqCtx.Done():
			wsLog.Info().Msg("Owner disconnected from live results stream")
			return
		case <-done:
			wsLog.Debug().Msg("Connection closed by client")
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			// Forward raw JSON directly, no deserialization needed.
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				wsLog.Warn().Err(err).Msg("Forward result event failed")
				return
			}
		case <-keepAlive.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
