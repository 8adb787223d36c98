package ports

import (
	"context"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// ResourceClient performs backend calls for one list-typed resource.
// Mutations require the actor's bearer token.
type ResourceClient[T any, In any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, token string, in In) (T, error)
	Update(ctx context.Context, token, id string, in In) (T, error)
	Delete(ctx context.Context, token, id string) error
}

// AuthClient exchanges credentials for a session.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error)
}

// UserClient manages accounts on the backend.
type UserClient interface {
	List(ctx context.Context, token string) ([]domain.User, error)
	Update(ctx context.Context, token, id string, in domain.UserUpdate) (domain.User, error)
	UpdateProfile(ctx context.Context, token string, in domain.ProfileUpdate) (domain.User, error)
}

// StrategyClient calls the backend strategy generator and its response cache.
type StrategyClient interface {
	Generate(ctx context.Context, token, industry, objective string) (*domain.Strategy, error)
	CacheStats(ctx context.Context, token string) (domain.StrategyCacheStats, error)
	ClearCache(ctx context.Context, token string) (domain.StrategyCacheCleared, error)
	CacheHealth(ctx context.Context) (domain.StrategyCacheHealth, error)
}

// ContactClient stores and lists contact form submissions.
type ContactClient interface {
	Submit(ctx context.Context, in domain.ContactInput) (domain.Contact, error)
	List(ctx context.Context, token string) ([]domain.Contact, error)
}

// HealthChecker reports backend reachability.
type HealthChecker interface {
	Health(ctx context.Context) error
}
