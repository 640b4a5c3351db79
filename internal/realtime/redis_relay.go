package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultChannel 多实例共享的推送频道
const DefaultChannel = "esports_hub_broadcast"

// RedisRelay 把消息发布到 Redis Pub/Sub，由每个实例的订阅协程转交本机 hub。
// 启用后本机 hub 只经由中继收到消息，每次变更每个客户端恰好收到一次
type RedisRelay struct {
	client  *redis.Client
	channel string
	logger  *logrus.Logger
}

func NewRedisRelay(client *redis.Client, channel string, logger *logrus.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{client: client, channel: channel, logger: logger}
}

var _ Publisher = (*RedisRelay)(nil)

func (r *RedisRelay) Publish(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, b).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// relayed 中继消息原样转发，data 不做二次解析
type relayed struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Start 订阅确认后启动转发协程，ctx 结束时退订
func (r *RedisRelay) Start(ctx context.Context, hub *Hub) error {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg == nil {
					continue
				}
				var m relayed
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					r.logger.WithError(err).Warn("中继消息解析失败")
					continue
				}
				if err := hub.Broadcast(Message{Event: m.Event, Data: m.Data}); err != nil {
					r.logger.WithError(err).WithField("event", m.Event).Warn("中继消息广播失败")
				}
			}
		}
	}()
	r.logger.WithField("channel", r.channel).Info("Redis 推送中继已启动")
	return nil
}
