package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/careport-dev/duty-manager/backend/internal/config"
	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

// advisory worker 消费草稿步骤变化的消息，请求外部解说服务生成一段说明文字，
// 并缓存到 redis 供 API 返回。解说只是参考信息，任何失败都只丢弃消息，不会重试

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	if cfg.Advisory.URL == "" {
		logger.Error("未配置解说服务地址，advisory worker 无需启动")
		return
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		"advisory_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Advisory.RequestTimeout) * time.Second,
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				advisoryMessage := domain.AdvisoryMessage{}
				if err := json.Unmarshal(msg.Body, &advisoryMessage); err != nil {
					logger.Error("解说消息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				text, err := requestAdvisory(httpClient, cfg.Advisory.URL, &advisoryMessage)
				if err != nil {
					logger.Error("无法生成解说", slog.Int64("userID", advisoryMessage.UserID), slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				key := fmt.Sprintf("advisory:user:%d", advisoryMessage.UserID)
				expiration := time.Duration(cfg.Advisory.Expiration) * time.Second
				if err := rdb.Set(ctx, key, text, expiration).Err(); err != nil {
					logger.Error("无法缓存解说", slog.Int64("userID", advisoryMessage.UserID), slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				logger.Info("解说已更新", slog.Int64("userID", advisoryMessage.UserID))
				_ = msg.Ack(false)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 advisory worker...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("advisory worker 已成功关闭")
}

func requestAdvisory(client *http.Client, url string, advisoryMessage *domain.AdvisoryMessage) (string, error) {
	body, err := json.Marshal(advisoryMessage)
	if err != nil {
		return "", err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("解说服务返回了非预期的状态码 %d", resp.StatusCode)
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(text), nil
}
