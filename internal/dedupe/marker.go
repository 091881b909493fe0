// Package dedupe реализует короткоживущий маркер окна дедупликации
// поверх redis (SET NX EX). Маркер дает жесткую гарантию "не чаще
// одного раза в окно" в пределах одного redis; без него диспетчер
// уведомлений откатывается на мягкую check-then-create проверку по БД.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Marker struct {
	client *redis.Client
	prefix string
}

// New подключается к redis по URL и проверяет соединение
func New(redisURL string) (*Marker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Marker{client: client, prefix: "notif:"}, nil
}

// NewWithClient создает маркер поверх готового клиента (тесты)
func NewWithClient(client *redis.Client) *Marker {
	return &Marker{client: client, prefix: "notif:"}
}

// Key собирает ключ дедупликации для тройки (recipient, type, reference)
func (m *Marker) Key(recipientID, notificationType, referenceID string) string {
	return fmt.Sprintf("%s%s:%s:%s", m.prefix, recipientID, notificationType, referenceID)
}

// Acquire пытается захватить маркер на длительность окна.
// true - маркер захвачен (уведомление первое в окне),
// false - маркер уже существует (дубликат в пределах окна).
func (m *Marker) Acquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	return m.client.SetNX(ctx, key, 1, window).Result()
}

func (m *Marker) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *Marker) Close() error {
	return m.client.Close()
}
