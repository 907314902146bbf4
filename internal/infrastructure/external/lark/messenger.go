// Package lark delivers workflow notifications as Lark direct messages.
package lark

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/domain/entity"
)

// Config holds Lark messenger configuration
type Config struct {
	AppID     string
	AppSecret string
}

// Messenger implements port.Notifier by sending a text message to the
// notification's recipient, addressed by their Lark user id.
type Messenger struct {
	client *lark.Client
	logger *zap.Logger
}

// NewMessenger creates a new Lark messenger
func NewMessenger(cfg Config, logger *zap.Logger) *Messenger {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)

	return &Messenger{
		client: client,
		logger: logger,
	}
}

// Notify sends the notification message to its recipient
func (m *Messenger) Notify(ctx context.Context, n *entity.StatusNotification) error {
	if n.Recipient == "" {
		return fmt.Errorf("notification for memo %s has no recipient", n.MemoID)
	}

	content, err := json.Marshal(map[string]string{"text": n.Message})
	if err != nil {
		return fmt.Errorf("encode message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("user_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(n.Recipient).
			MsgType("text").
			Content(string(content)).
			Build()).
		Build()

	resp, err := m.client.Im.Message.Create(ctx, req)
	if err != nil {
		m.logger.Error("Failed to send Lark message",
			zap.String("recipient", n.Recipient),
			zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		m.logger.Error("Lark API returned failure",
			zap.String("recipient", n.Recipient),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("lark API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	m.logger.Info("Lark message sent",
		zap.String("recipient", n.Recipient),
		zap.String("memo_id", n.MemoID))

	return nil
}

// Verify interface compliance
var _ port.Notifier = (*Messenger)(nil)
