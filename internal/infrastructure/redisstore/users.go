package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/redis/go-redis/v9"
)

func userKey(userID string) string {
	return "user:" + userID
}

func userEmailKey(email string) string {
	return "user:email:" + email
}

// userDoc is the stored form of domain.User. domain.User hides the hash from JSON.
type userDoc struct {
	UserID       string    `json:"user_id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	AppCode      string    `json:"code"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRepo stores users as JSON with a secondary email -> user_id key.
type UserRepo struct {
	client *redis.Client
	now    func() time.Time
}

func NewUserRepo(client *redis.Client) *UserRepo {
	return &UserRepo{client: client, now: time.Now}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(userDoc(*u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, userKey(u.UserID), data, 0)
		p.Set(ctx, userEmailKey(u.Email), u.UserID, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	userID, err := r.client.Get(ctx, userEmailKey(email)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}
	return r.get(ctx, userID)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	u, err := r.get(ctx, userID)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.now().UTC()
	data, err := json.Marshal(userDoc(*u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := r.client.Set(ctx, userKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, userID string) (*domain.User, error) {
	data, err := r.client.Get(ctx, userKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	var doc userDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	u := domain.User(doc)
	return &u, nil
}
