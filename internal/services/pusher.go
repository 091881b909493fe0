package services

import (
	"context"
	"time"
)

// RealtimePusher - канал доставки событий на живые соединения.
// Реализуется ws.Manager; доставка best-effort, офлайн-получатель
// не является ошибкой.
type RealtimePusher interface {
	SendToUser(userID string, event string, data interface{})
	IsOnline(userID string) bool
}

// DedupeMarker - короткоживущий маркер окна дедупликации (redis SET NX EX)
type DedupeMarker interface {
	Key(recipientID, notificationType, referenceID string) string
	Acquire(ctx context.Context, key string, window time.Duration) (bool, error)
}
