package common

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// IsTemporary 判断是否为临时性错误
func IsTemporary(err error) bool {
	if temp, ok := err.(interface{ Temporary() bool }); ok {
		return temp.Temporary()
	}
	return false
}

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	return IsTemporary(err) || err == sql.ErrConnDone || err == sql.ErrTxDone
}

// WithRetry 通用重试机制，重试间隔线性递增
func WithRetry(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		zap.L().Warn("操作失败，准备重试",
			zap.Int("attempt", i+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err))
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return err
}
