package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	stderrors "errors"

	"github.com/swapdeal/swapdeal-api/internal/infrastructure/redis"
	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}

func (s *marketService) RegisterUser(ctx context.Context, user *models.User) (string, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "RegisterUser")
	defer span.End()

	if user.Email == "" {
		span.SetStatus(codes.Error, "empty email")
		return "", pkgerrors.ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}
	if !user.Role.Valid() {
		span.SetStatus(codes.Error, "invalid role")
		return "", pkgerrors.ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	if existing != nil {
		span.SetStatus(codes.Error, "email already exists")
		slog.Warn("email already registered", "email", user.Email, "existing_id", existing.ID)
		return "", pkgerrors.ErrUserAlreadyExists
	}
	if err != nil && !stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user check failed")
		slog.Error("failed to check user existence", "email", user.Email, "error", err)
		return "", fmt.Errorf("%w: failed to check user existence", pkgerrors.ErrInternal)
	}

	user.Status = models.StatusUnverified
	user.CreatedAt = time.Now().UTC()

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			return "", err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user creation failed")
		slog.Error("failed to create user", "email", user.Email, "error", err)
		return "", fmt.Errorf("%w: failed to create user", pkgerrors.ErrInternal)
	}

	s.publish(ctx, "user_registered", user.Email, map[string]interface{}{
		"user_id": id,
		"email":   user.Email,
		"role":    string(user.Role),
	})

	slog.Info("user registered", "user_id", id, "email", user.Email, "role", user.Role)
	return id, nil
}

// ResolveRole is a read-through cache over the user collection: role checks
// sit on the hot path of every guarded request.
func (s *marketService) ResolveRole(ctx context.Context, email string) (*models.User, error) {
	key := userCacheKey(email)
	cached, err := s.redisClient.Get(ctx, key)
	if err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
		slog.Error("failed to unmarshal cached user", "email", email, "error", err)
	} else if !stderrors.Is(err, redis.ErrKeyNotFound) {
		slog.Error("failed to get user from cache", "email", email, "error", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if userBytes, err := json.Marshal(user); err == nil {
		if err := s.redisClient.Set(ctx, key, string(userBytes), userCacheTTL); err != nil {
			slog.Error("failed to cache user", "email", email, "error", err)
		}
	}
	return user, nil
}

func (s *marketService) Profile(ctx context.Context, email string) (*models.User, error) {
	return s.ResolveRole(ctx, email)
}

func (s *marketService) UsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.userRepo.ListByRole(ctx, role)
}

func (s *marketService) VerifySeller(ctx context.Context, id string) error {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "VerifySeller")
	defer span.End()

	user, err := s.userRepo.SetVerified(ctx, id)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to verify seller", "id", id, "error", err)
		return err
	}

	if err := s.redisClient.Del(ctx, userCacheKey(user.Email)); err != nil {
		slog.Error("failed to invalidate user cache", "email", user.Email, "error", err)
	}

	slog.Info("seller verified", "id", id, "email", user.Email)
	return nil
}

func (s *marketService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		slog.Error("failed to delete user", "id", id, "error", err)
		return err
	}

	if err := s.redisClient.Del(ctx, userCacheKey(user.Email)); err != nil {
		slog.Error("failed to invalidate user cache", "email", user.Email, "error", err)
	}

	slog.Info("user deleted", "id", id, "email", user.Email)
	return nil
}

// Token issues a credential only for an email already present in the user
// collection; unknown emails get ErrUserNotFound, which the handler maps to
// a forbidden response.
func (s *marketService) Token(ctx context.Context, email string) (string, error) {
	if _, err := s.ResolveRole(ctx, email); err != nil {
		slog.Warn("token requested for unknown email", "email", email)
		return "", err
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		slog.Error("failed to issue token", "email", email, "error", err)
		return "", fmt.Errorf("%w: failed to issue token", pkgerrors.ErrInternal)
	}
	return token, nil
}
