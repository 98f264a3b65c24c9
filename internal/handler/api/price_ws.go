package api

import (
	"context"
	"sync"
	"time"

	"TradeSentry/internal/domain/models"
	svcmetrics "TradeSentry/internal/service/metrics"
	xhttp "TradeSentry/pkg/http"
	xlogger "TradeSentry/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// wsSubscriber adapts a websocket connection to usecase.Subscriber.
// Only the poller writes; a reader goroutine detects the peer leaving.
type wsSubscriber struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	done         chan struct{}
	once         sync.Once
}

func newWSSubscriber(conn *websocket.Conn, writeTimeout time.Duration) *wsSubscriber {
	s := &wsSubscriber{conn: conn, writeTimeout: writeTimeout, done: make(chan struct{})}
	go s.readLoop()
	return s
}

func (s *wsSubscriber) readLoop() {
	defer s.close()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *wsSubscriber) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *wsSubscriber) Push(_ context.Context, tick models.PriceTick) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(PriceFrame{Price: tick.Price, Symbol: tick.Symbol})
}

func (s *wsSubscriber) Done() <-chan struct{} {
	return s.done
}

// PriceStream upgrades to a websocket and pushes {price, symbol} frames until
// the client disconnects.
func (h *AnalysisHandler) PriceStream(c echo.Context) error {
	req := &models.PriceStreamRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already replied
		h.logger.Warn("websocket upgrade failed", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		h.metrics.IncError(svcmetrics.EndpointLive, "upgrade")
		return nil
	}
	defer conn.Close()

	sub := newWSSubscriber(conn, h.wsWrite)
	defer sub.close()

	h.logger.Info("live stream opened", xlogger.String("ticker", req.Ticker), xlogger.String("remote", c.RealIP()))
	if err := h.live.Run(c.Request().Context(), req.Ticker, sub); err != nil {
		h.logger.Warn("live stream ended", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		h.metrics.IncError(svcmetrics.EndpointLive, "stream")
	} else {
		h.logger.Info("live stream closed", xlogger.String("ticker", req.Ticker))
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return nil
}
