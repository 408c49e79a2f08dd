package service

import (
	"context"
	"time"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
)

// AccountStore is the persistence contract the account service depends on.
// Finds return (nil, nil) when nothing matches; store failures come back as
// STORE_FAILURE errors.
type AccountStore interface {
	FindAll(ctx context.Context, limit int64) ([]*entity.Account, error)
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	FindByUID(ctx context.Context, uid string) (*entity.Account, error)
	Insert(ctx context.Context, a *entity.Account) (string, error)
	Update(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error)
	SetPlan(ctx context.Context, id string, version int64, plan entity.Plan, remaining int64, exp *time.Time) (*entity.Account, error)
	SetFavPools(ctx context.Context, id string, version int64, pools []entity.Pool) (*entity.Account, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type PositionStore interface {
	FindAll(ctx context.Context) ([]*entity.Position, error)
	FindByUID(ctx context.Context, uid string) ([]*entity.Position, error)
	FindByID(ctx context.Context, id string) (*entity.Position, error)
	Insert(ctx context.Context, p *entity.Position) (string, error)
	Update(ctx context.Context, id string, token string, totalValue float64, protocol string) (*entity.Position, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type WaitlistStore interface {
	Insert(ctx context.Context, e *entity.WaitlistEntry) (string, error)
}
