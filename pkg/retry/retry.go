package retry

import (
	"time"

	"github.com/labstack/gommon/log"
)

const (
	maxRetries        = 5
	retryMultiplier   = 2
	retryInitialDelay = time.Millisecond * 200
)

// Retry выполняет операцию с экспоненциальной задержкой между попытками.
// Возвращает nil, если операция успешна, или последнюю ошибку, если все попытки завершились неудачей.
func Retry(operation func() error) error {
	retryCounter := 0
	for {
		err := operation()
		if err == nil {
			return nil
		}
		if retryCounter >= maxRetries {
			return err
		}
		log.Errorf("попытка %d завершилась ошибкой: %v", retryCounter, err)
		time.Sleep(retryInitialDelay * time.Duration(retryCounter*retryMultiplier+1))
		retryCounter++
	}
}
