package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/domain"
	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
	"github.com/linlinbupt123-crypto/lumos_service/metrics"
)

const (
	// DefaultListLimit caps ListAccounts.
	DefaultListLimit int64 = 100
	// maxWriteAttempts bounds the read-modify-write retries on version conflicts.
	maxWriteAttempts = 5
)

type AccountService struct {
	store AccountStore
	log   *zap.Logger
	now   func() time.Time
}

type AccountOption func(*AccountService)

// WithClock replaces time.Now for plan expiration computation.
func WithClock(now func() time.Time) AccountOption {
	return func(s *AccountService) { s.now = now }
}

func NewAccountService(store AccountStore, log *zap.Logger, opts ...AccountOption) *AccountService {
	s := &AccountService{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateAccountInput struct {
	Email    string
	UID      string
	FavPools []entity.Pool
	Plan     string // 为空时使用 FREE
}

// PlanChange is the result of ChangePlan.
type PlanChange struct {
	UID               string      `json:"uId"`
	UserType          entity.Plan `json:"user_type"`
	RemainingRequests int64       `json:"remaining_requests"`
	PlanExpDate       *time.Time  `json:"plan_exp_date"`
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	return s.store.FindAll(ctx, DefaultListLimit)
}

func (s *AccountService) GetAccountByUID(ctx context.Context, uid string) (*entity.Account, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "GetAccountByUID", "missing user id")
	}
	a, err := s.store.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "GetAccountByUID", "user not found")
	}
	return a, nil
}

// CreateAccount inserts a new account, or returns the id of the account that
// already owns in.UID. created is false in the latter case.
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (id string, created bool, err error) {
	const op = "CreateAccount"
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.UID) == "" {
		return "", false, wrapErrors.New(wrapErrors.CodeInvalidInput, op, "missing or invalid required fields (email, uId, user_type)")
	}
	plan := entity.PlanFree
	if in.Plan != "" {
		if !domain.IsValidPlan(in.Plan) {
			return "", false, wrapErrors.New(wrapErrors.CodeInvalidPlan, op, "invalid user_type "+in.Plan)
		}
		plan = entity.Plan(in.Plan)
	}

	existing, err := s.store.FindByUID(ctx, in.UID)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID.Hex(), false, nil
	}

	remaining, exp := domain.Grant(plan, s.now())
	a := &entity.Account{
		UID:               in.UID,
		Email:             in.Email,
		UserType:          plan,
		RemainingRequests: remaining,
		PlanExpDate:       exp,
		FavPools:          domain.DedupePools(in.FavPools),
	}
	if a.FavPools == nil {
		a.FavPools = []entity.Pool{}
	}

	id, err = s.store.Insert(ctx, a)
	if wrapErrors.Is(err, wrapErrors.CodeConflict) {
		// 并发创建: unique index 拒绝了这次写入, 返回先写入的那条
		existing, findErr := s.store.FindByUID(ctx, in.UID)
		if findErr != nil {
			return "", false, findErr
		}
		if existing != nil {
			return existing.ID.Hex(), false, nil
		}
		return "", false, err
	}
	if err != nil {
		return "", false, err
	}
	s.log.Info("account created", zap.String("uId", a.UID), zap.String("plan", string(plan)))
	return id, true, nil
}

// UpdateAccount merges patch onto the account with id. The plan cannot be
// changed here; ChangePlan owns it together with quota and expiration.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	const op = "UpdateAccount"
	if strings.TrimSpace(id) == "" {
		return nil, wrapErrors.New(wrapErrors.CodeInvalidInput, op, "missing required field (_id)")
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return nil, wrapErrors.New(wrapErrors.CodeInvalidInput, op, "email cannot be empty")
	}
	if patch.UID != nil && strings.TrimSpace(*patch.UID) == "" {
		return nil, wrapErrors.New(wrapErrors.CodeInvalidInput, op, "uId cannot be empty")
	}
	if patch.FavPools != nil {
		patch.FavPools = domain.DedupePools(patch.FavPools)
	}
	return s.store.Update(ctx, id, patch)
}

// ChangePlan moves the account owning uid to the plan named by planText and
// grants that plan's quota and expiration afresh.
func (s *AccountService) ChangePlan(ctx context.Context, uid, planText string) (*PlanChange, error) {
	const op = "ChangePlan"
	if strings.TrimSpace(uid) == "" {
		return nil, wrapErrors.New(wrapErrors.CodeInvalidInput, op, "missing or invalid required fields (uId, newPlanText)")
	}
	plan, ok := domain.ParsePlan(planText)
	if !ok {
		return nil, wrapErrors.New(wrapErrors.CodeInvalidPlan, op, "invalid plan "+planText)
	}

	var updated *entity.Account
	err := s.mutate(ctx, op, uid, func(a *entity.Account) error {
		remaining, exp := domain.Grant(plan, s.now())
		var err error
		updated, err = s.store.SetPlan(ctx, a.ID.Hex(), a.Version, plan, remaining, exp)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.PlanChanges.WithLabelValues(string(plan)).Inc()
	s.log.Info("plan changed", zap.String("uId", uid), zap.String("plan", string(plan)))
	return &PlanChange{
		UID:               updated.UID,
		UserType:          updated.UserType,
		RemainingRequests: updated.RemainingRequests,
		PlanExpDate:       updated.PlanExpDate,
	}, nil
}

// AddFavoritePool adds pool to the favorites of uid. Adding a pool that is
// already present succeeds with added == false and leaves the set unchanged.
func (s *AccountService) AddFavoritePool(ctx context.Context, uid string, pool entity.Pool) (pools []entity.Pool, added bool, err error) {
	const op = "AddFavoritePool"
	if err := validatePool(op, uid, pool); err != nil {
		return nil, false, err
	}
	err = s.mutate(ctx, op, uid, func(a *entity.Account) error {
		next, ok := domain.AddPool(a.FavPools, pool)
		if !ok {
			pools, added = orEmpty(a.FavPools), false
			return nil
		}
		updated, err := s.store.SetFavPools(ctx, a.ID.Hex(), a.Version, next)
		if err != nil {
			return err
		}
		pools, added = updated.FavPools, true
		return nil
	})
	metrics.FavoritePoolMutations.WithLabelValues("add", resultLabel(err, added)).Inc()
	if err != nil {
		return nil, false, err
	}
	return pools, added, nil
}

// RemoveFavoritePool removes every favorite equal to pool. A pool that is not
// in the favorites yields POOL_NOT_IN_FAVORITES.
func (s *AccountService) RemoveFavoritePool(ctx context.Context, uid string, pool entity.Pool) ([]entity.Pool, error) {
	const op = "RemoveFavoritePool"
	if err := validatePool(op, uid, pool); err != nil {
		return nil, err
	}
	var pools []entity.Pool
	err := s.mutate(ctx, op, uid, func(a *entity.Account) error {
		next, removed := domain.RemovePool(a.FavPools, pool)
		if !removed {
			return wrapErrors.New(wrapErrors.CodePoolNotInFavorites, op, "pool not found in favorites")
		}
		updated, err := s.store.SetFavPools(ctx, a.ID.Hex(), a.Version, next)
		if err != nil {
			return err
		}
		pools = orEmpty(updated.FavPools)
		return nil
	})
	metrics.FavoritePoolMutations.WithLabelValues("remove", resultLabel(err, true)).Inc()
	if err != nil {
		return nil, err
	}
	return pools, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, wrapErrors.New(wrapErrors.CodeInvalidInput, "DeleteAccount", "missing required field (_id)")
	}
	ok, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("account deleted", zap.String("id", id))
	}
	return ok, nil
}

// mutate loads the account owning uid and runs apply against that snapshot.
// apply performs a conditional write; on VERSION_CONFLICT the account is
// re-read and apply runs again, up to maxWriteAttempts times.
func (s *AccountService) mutate(ctx context.Context, op, uid string, apply func(a *entity.Account) error) error {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		a, err := s.store.FindByUID(ctx, uid)
		if err != nil {
			return err
		}
		if a == nil {
			return wrapErrors.New(wrapErrors.CodeNotFound, op, "user not found")
		}
		err = apply(a)
		if !wrapErrors.Is(err, wrapErrors.CodeVersionConflict) {
			return err
		}
		s.log.Debug("concurrent account write, retrying",
			zap.String("op", op), zap.String("uId", uid), zap.Int("attempt", attempt))
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return wrapErrors.New(wrapErrors.CodeConflict, op, "account is being modified concurrently, try again")
}

func validatePool(op, uid string, pool entity.Pool) error {
	if strings.TrimSpace(uid) == "" {
		return wrapErrors.New(wrapErrors.CodeInvalidInput, op, "missing required field (uId)")
	}
	if strings.TrimSpace(pool.Token0) == "" || strings.TrimSpace(pool.Token1) == "" {
		return wrapErrors.New(wrapErrors.CodeInvalidInput, op, "pool requires token0 and token1")
	}
	return nil
}

func orEmpty(pools []entity.Pool) []entity.Pool {
	if pools == nil {
		return []entity.Pool{}
	}
	return pools
}

func resultLabel(err error, changed bool) string {
	switch {
	case err == nil && changed:
		return "changed"
	case err == nil:
		return "noop"
	case wrapErrors.Is(err, wrapErrors.CodeNotFound), wrapErrors.Is(err, wrapErrors.CodePoolNotInFavorites):
		return metrics.ResultNotFound
	case wrapErrors.Is(err, wrapErrors.CodeConflict):
		return metrics.ResultConflict
	default:
		return metrics.ResultError
	}
}
