package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// DefaultTopic 推送消息审计 topic
const DefaultTopic = "esports-hub.events"

// NewKafkaWriter brokers 为逗号分隔列表；异步写入，不阻塞请求
func NewKafkaWriter(brokers, topic string, logger *logrus.Logger) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.WithError(err).WithField("count", len(messages)).Warn("Kafka 写入失败")
			}
		},
	}
}

// messageWriter *kafka.Writer 的写入子集
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink 把每条推送写入 Kafka，key 为事件标签
type KafkaSink struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaSink(w *kafka.Writer) *KafkaSink {
	return &KafkaSink{writer: w, now: time.Now}
}

var _ Publisher = (*KafkaSink)(nil)

func (k *KafkaSink) Publish(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Event),
		Value: b,
		Time:  k.now(),
	})
}
