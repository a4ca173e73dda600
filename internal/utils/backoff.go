package utils

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times, sleeping base, 2*base, 4*base ...
// between tries. It returns the last error, or the context's error if
// it is cancelled while waiting.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(time.Duration(1<<i) * base):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
