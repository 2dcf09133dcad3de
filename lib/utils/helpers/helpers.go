package helpers

import (
	"context"
	"strings"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// TrimPtr nil se mantiene nil
func TrimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func PtrValue[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}
	return *value
}
