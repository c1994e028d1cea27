// Package redis provides a Redis-backed implementation of the repository
// interfaces, shared with the out-of-scope CRUD services.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduhub/classroom/internal/config"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/repository"
)

// Repository implements MeetingRepository, NotificationRepository,
// UserDirectory and TokenStore on top of Redis.
type Repository struct {
	client    *redis.Client
	keyPrefix string
}

func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) meetingKey(id domain.MeetingID) string {
	return fmt.Sprintf("%smeetings:%s", r.keyPrefix, id)
}

func (r *Repository) notificationKey(recipient domain.UserID) string {
	return fmt.Sprintf("%snotifications:%s", r.keyPrefix, recipient)
}

func (r *Repository) userKey(id domain.UserID) string {
	return fmt.Sprintf("%susers:%s", r.keyPrefix, id)
}

func (r *Repository) tokenKey(token string) string {
	return fmt.Sprintf("%stokens:%s", r.keyPrefix, token)
}

func (r *Repository) SaveMeeting(ctx context.Context, meeting *domain.Meeting) error {
	data, err := json.Marshal(meeting)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting: %w", err)
	}
	if err := r.client.Set(ctx, r.meetingKey(meeting.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save meeting: %w", err)
	}
	return nil
}

func (r *Repository) GetMeeting(ctx context.Context, id domain.MeetingID) (*domain.Meeting, error) {
	data, err := r.client.Get(ctx, r.meetingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	var meeting domain.Meeting
	if err := json.Unmarshal(data, &meeting); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meeting: %w", err)
	}
	return &meeting, nil
}

func (r *Repository) ListMeetings(ctx context.Context) ([]*domain.Meeting, error) {
	keys, err := r.client.Keys(ctx, r.meetingKey("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	if len(keys) == 0 {
		return []*domain.Meeting{}, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting data: %w", err)
	}

	meetings := make([]*domain.Meeting, 0, len(values))
	for _, v := range values {
		strData, ok := v.(string)
		if !ok {
			continue
		}
		var meeting domain.Meeting
		if err := json.Unmarshal([]byte(strData), &meeting); err != nil {
			continue
		}
		meetings = append(meetings, &meeting)
	}
	return meetings, nil
}

func (r *Repository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := r.client.RPush(ctx, r.notificationKey(n.Recipient), data).Err(); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *Repository) ListNotifications(ctx context.Context, recipient domain.UserID) ([]*domain.Notification, error) {
	values, err := r.client.LRange(ctx, r.notificationKey(recipient), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]*domain.Notification, 0, len(values))
	for _, v := range values {
		var n domain.Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}

func (r *Repository) GetUser(ctx context.Context, id domain.UserID) (*domain.Identity, error) {
	data, err := r.client.Get(ctx, r.userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	var identity domain.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &identity, nil
}

func (r *Repository) ResolveToken(ctx context.Context, token string) (domain.UserID, error) {
	uid, err := r.client.Get(ctx, r.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve token: %w", err)
	}
	return domain.UserID(uid), nil
}
