package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
)

// Notifier 运维告警通知接口
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NewNotifier 根据配置创建通知器，未配置 Slack token 时返回空实现
func NewNotifier(cfg *config.NotifyConfig, logger *zap.Logger) Notifier {
	if cfg.SlackToken == "" || cfg.SlackChannel == "" {
		logger.Info("未配置 Slack，告警通知已禁用")
		return Nop{}
	}
	return &SlackNotifier{
		client:  slack.New(cfg.SlackToken),
		channel: cfg.SlackChannel,
	}
}

// SlackNotifier 通过 Slack Bot 发送消息
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	_, _, err := s.client.PostMessageContext(
		ctx,
		s.channel,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("发送 Slack 消息失败: %w", err)
	}
	return nil
}

// Nop 不发送任何消息
type Nop struct{}

func (Nop) Notify(context.Context, string) error { return nil }
