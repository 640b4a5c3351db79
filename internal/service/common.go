package service

import (
	"context"
	"errors"
	"fmt"

	"EsportsHub/internal/realtime"

	"github.com/sirupsen/logrus"
)

// ErrInvalidInput 请求参数不合法（handler 映射为 400）
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notify 推送失败只记录日志，不影响已完成的写入
func notify(ctx context.Context, pub realtime.Publisher, logger *logrus.Logger, event string, data any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, realtime.Message{Event: event, Data: data}); err != nil {
		logger.WithError(err).WithField("event", event).Warn("实时推送失败")
	}
}
