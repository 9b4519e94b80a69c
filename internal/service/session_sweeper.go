package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper 定期清理过期会话
type SessionSweeper struct {
	auth     AuthService
	interval time.Duration
	logger   *zap.Logger
}

// NewSessionSweeper 创建清理器，interval <= 0 时使用 1 小时
func NewSessionSweeper(auth AuthService, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionSweeper{auth: auth, interval: interval, logger: logger}
}

// Run 阻塞运行直至 ctx 取消；启动时立即执行一次
func (s *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("会话清理任务已停止")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	n, err := s.auth.CleanupExpiredSessions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("清理过期会话失败", zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.logger.Info("已清理过期会话", zap.Int64("count", n))
	}
}
