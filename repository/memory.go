package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

// MemoryAccountStore keeps accounts in process memory with the same unique
// uId and version semantics as AccountRepo. Used for local runs and tests.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]*entity.Account
	now      func() time.Time
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[primitive.ObjectID]*entity.Account),
		now:      time.Now,
	}
}

func (s *MemoryAccountStore) FindAll(_ context.Context, limit int64) ([]*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AddDate.Equal(out[j].AddDate) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].AddDate.After(out[j].AddDate)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryAccountStore) FindByID(_ context.Context, id string) (*entity.Account, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[oid].Clone(), nil
}

func (s *MemoryAccountStore) FindByUID(_ context.Context, uid string) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byUID(uid).Clone(), nil
}

func (s *MemoryAccountStore) byUID(uid string) *entity.Account {
	for _, a := range s.accounts {
		if a.UID == uid {
			return a
		}
	}
	return nil
}

func (s *MemoryAccountStore) Insert(_ context.Context, a *entity.Account) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byUID(a.UID) != nil {
		return "", wrapErrors.New(wrapErrors.CodeConflict, "users.insert", "duplicate uId "+a.UID)
	}
	a.ID = primitive.NewObjectID()
	a.AddDate = s.now().UTC()
	a.Version = 0
	s.accounts[a.ID] = a.Clone()
	return a.ID.Hex(), nil
}

func (s *MemoryAccountStore) Update(_ context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.lookup(id)
	if a == nil {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "users.update", "user not found")
	}
	if patch.UID != nil && *patch.UID != a.UID {
		if s.byUID(*patch.UID) != nil {
			return nil, wrapErrors.New(wrapErrors.CodeConflict, "users.update", "duplicate uId "+*patch.UID)
		}
		a.UID = *patch.UID
	}
	if patch.Email != nil {
		a.Email = *patch.Email
	}
	if patch.FavPools != nil {
		a.FavPools = append([]entity.Pool(nil), patch.FavPools...)
	}
	if patch.RemainingRequests != nil {
		a.RemainingRequests = *patch.RemainingRequests
	}
	a.Version++
	return a.Clone(), nil
}

func (s *MemoryAccountStore) SetPlan(_ context.Context, id string, version int64, plan entity.Plan, remaining int64, exp *time.Time) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.lookupVersion(id, version, "users.setPlan")
	if err != nil {
		return nil, err
	}
	a.UserType = plan
	a.RemainingRequests = remaining
	a.PlanExpDate = nil
	if exp != nil {
		e := *exp
		a.PlanExpDate = &e
	}
	a.Version++
	return a.Clone(), nil
}

func (s *MemoryAccountStore) SetFavPools(_ context.Context, id string, version int64, pools []entity.Pool) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.lookupVersion(id, version, "users.setFavPools")
	if err != nil {
		return nil, err
	}
	a.FavPools = append([]entity.Pool{}, pools...)
	a.Version++
	return a.Clone(), nil
}

func (s *MemoryAccountStore) DeleteByID(_ context.Context, id string) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[oid]; !ok {
		return false, nil
	}
	delete(s.accounts, oid)
	return true, nil
}

func (s *MemoryAccountStore) lookup(id string) *entity.Account {
	oid, ok := parseID(id)
	if !ok {
		return nil
	}
	return s.accounts[oid]
}

func (s *MemoryAccountStore) lookupVersion(id string, version int64, op string) (*entity.Account, error) {
	a := s.lookup(id)
	if a == nil || a.Version != version {
		return nil, wrapErrors.New(wrapErrors.CodeVersionConflict, op, "account changed or removed")
	}
	return a, nil
}

// MemoryPositionStore is the in-memory counterpart of PositionRepo.
type MemoryPositionStore struct {
	mu        sync.Mutex
	positions map[primitive.ObjectID]*entity.Position
	now       func() time.Time
}

func NewMemoryPositionStore() *MemoryPositionStore {
	return &MemoryPositionStore{
		positions: make(map[primitive.ObjectID]*entity.Position),
		now:       time.Now,
	}
}

func (s *MemoryPositionStore) FindAll(_ context.Context) ([]*entity.Position, error) {
	return s.filter(func(*entity.Position) bool { return true }), nil
}

func (s *MemoryPositionStore) FindByUID(_ context.Context, uid string) ([]*entity.Position, error) {
	return s.filter(func(p *entity.Position) bool { return p.UID == uid }), nil
}

func (s *MemoryPositionStore) filter(keep func(*entity.Position) bool) []*entity.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.Position, 0)
	for _, p := range s.positions {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AddDate.Equal(out[j].AddDate) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].AddDate.After(out[j].AddDate)
	})
	return out
}

func (s *MemoryPositionStore) FindByID(_ context.Context, id string) (*entity.Position, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[oid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryPositionStore) Insert(_ context.Context, p *entity.Position) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.AddDate = s.now().UTC()
	cp := *p
	s.positions[p.ID] = &cp
	return p.ID.Hex(), nil
}

func (s *MemoryPositionStore) Update(_ context.Context, id string, token string, totalValue float64, protocol string) (*entity.Position, error) {
	oid, ok := parseID(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.positions[oid]
	if !ok || !found {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "positions.update", "position not found")
	}
	p.Token = token
	p.TotalValue = totalValue
	p.Protocol = protocol
	cp := *p
	return &cp, nil
}

func (s *MemoryPositionStore) DeleteByID(_ context.Context, id string) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[oid]; !ok {
		return false, nil
	}
	delete(s.positions, oid)
	return true, nil
}

// MemoryWaitlistStore is the in-memory counterpart of WaitlistRepo.
type MemoryWaitlistStore struct {
	mu      sync.Mutex
	entries map[string]*entity.WaitlistEntry
	now     func() time.Time
}

func NewMemoryWaitlistStore() *MemoryWaitlistStore {
	return &MemoryWaitlistStore{
		entries: make(map[string]*entity.WaitlistEntry),
		now:     time.Now,
	}
}

func (s *MemoryWaitlistStore) Insert(_ context.Context, e *entity.WaitlistEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(e.Email)
	if _, ok := s.entries[key]; ok {
		return "", wrapErrors.New(wrapErrors.CodeConflict, "waitlist.insert", "email already on waitlist")
	}
	e.ID = primitive.NewObjectID()
	e.AddDate = s.now().UTC()
	cp := *e
	s.entries[key] = &cp
	return e.ID.Hex(), nil
}

func (s *MemoryWaitlistStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
