package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

var errQueueUnavailable = errors.New("消息队列不可用")

func (h *Handler) publish(queue string, v any) error {
	if h.queueChannel == nil {
		return errQueueUnavailable
	}

	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.queueChannel.PublishWithContext(
		ctx,
		"",
		queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (h *Handler) publishMail(msg domain.MailMessage) error {
	return h.publish("email_queue", msg)
}

// publishAdvisory 把草稿步骤变化发给解说服务。解说只是参考信息，
// 发布失败只记录日志，绝不阻塞或影响步骤本身
func (h *Handler) publishAdvisory(userID int64, transition string) {
	msg := domain.AdvisoryMessage{
		UserID:       userID,
		RulesSummary: h.rules.RestrictionSummary(),
		Transition:   transition,
	}

	go func() {
		if err := h.publish("advisory_queue", msg); err != nil {
			slog.Warn("无法发布解说消息", "error", err)
		}
	}()
}
