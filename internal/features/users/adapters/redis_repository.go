package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"apotek-store/internal/features/users/domain"

	"github.com/redis/go-redis/v9"
)

func userKey(id string) string {
	return "user:" + id
}

func emailKey(email string) string {
	return "user:email:" + strings.ToLower(email)
}

// RedisUserRepository implements ports.UserRepository on the shared store.
type RedisUserRepository struct {
	client *redis.Client
}

// NewRedisUserRepository creates a new RedisUserRepository.
func NewRedisUserRepository(client *redis.Client) *RedisUserRepository {
	return &RedisUserRepository{client: client}
}

// Create stores a new user. The email index is claimed with SETNX so two
// concurrent registrations of the same email cannot both succeed.
func (r *RedisUserRepository) Create(ctx context.Context, user *domain.User) error {
	claimed, err := r.client.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return domain.ErrEmailTaken
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := r.client.Set(ctx, userKey(user.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID.
func (r *RedisUserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	data, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail resolves the email index and loads the user.
func (r *RedisUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := r.client.Get(ctx, emailKey(email)).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve email: %w", err)
	}
	return r.Get(ctx, id)
}
