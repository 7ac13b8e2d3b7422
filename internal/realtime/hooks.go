package realtime

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/metrics"
)

// Hooks observes connection lifecycle. err is nil on a clean close.
type Hooks interface {
	OnConnect(ctx context.Context, s *Session)
	OnDisconnect(ctx context.Context, s *Session, err error)
}

type NopHooks struct{}

func (NopHooks) OnConnect(context.Context, *Session)           {}
func (NopHooks) OnDisconnect(context.Context, *Session, error) {}

type MultiHooks []Hooks

func (m MultiHooks) OnConnect(ctx context.Context, s *Session) {
	for _, h := range m {
		h.OnConnect(ctx, s)
	}
}

func (m MultiHooks) OnDisconnect(ctx context.Context, s *Session, err error) {
	for _, h := range m {
		h.OnDisconnect(ctx, s, err)
	}
}

type LogHooks struct{}

func (LogHooks) OnConnect(ctx context.Context, s *Session) {
	logutil.GetLogger(ctx).Info("client connected",
		zap.String("session_id", s.ID),
		zap.String("remote_addr", s.RemoteAddr),
		zap.String("user_agent", s.UserAgent),
	)
}

func (LogHooks) OnDisconnect(ctx context.Context, s *Session, err error) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("session_id", s.ID),
		zap.String("remote_addr", s.RemoteAddr),
		zap.Duration("duration", time.Since(s.ConnectedAt)),
	)
	if err != nil {
		logger.Info("client disconnected", zap.Error(err))
		return
	}
	logger.Info("client disconnected")
}

type MetricsHooks struct{}

func (MetricsHooks) OnConnect(context.Context, *Session) {
	metrics.RealtimeConnected()
}

func (MetricsHooks) OnDisconnect(context.Context, *Session, error) {
	metrics.RealtimeDisconnected()
}

func DefaultHooks() Hooks {
	return MultiHooks{LogHooks{}, MetricsHooks{}}
}
