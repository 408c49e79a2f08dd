package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

type PositionService struct {
	store PositionStore
	log   *zap.Logger
}

func NewPositionService(store PositionStore, log *zap.Logger) *PositionService {
	return &PositionService{store: store, log: log}
}

type PositionInput struct {
	UID        string
	Token      string
	TotalValue float64
	Protocol   string
}

func (s *PositionService) ListPositions(ctx context.Context) ([]*entity.Position, error) {
	return s.store.FindAll(ctx)
}

func (s *PositionService) ListPositionsByUID(ctx context.Context, uid string) ([]*entity.Position, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, wrapErrors.New(wrapErrors.CodeInvalidInput, "ListPositionsByUID", "missing position owner (uId)")
	}
	return s.store.FindByUID(ctx, uid)
}

func (s *PositionService) GetPosition(ctx context.Context, id string) (*entity.Position, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "GetPosition", "position not found")
	}
	return p, nil
}

func (s *PositionService) CreatePosition(ctx context.Context, in PositionInput) (string, error) {
	if strings.TrimSpace(in.UID) == "" || !validPositionFields(in.Token, in.TotalValue, in.Protocol) {
		return "", wrapErrors.New(wrapErrors.CodeInvalidInput, "CreatePosition",
			"missing or invalid required fields (uId, token, total_value, protocol)")
	}
	p := &entity.Position{
		UID:        in.UID,
		Token:      in.Token,
		TotalValue: in.TotalValue,
		Protocol:   in.Protocol,
	}
	id, err := s.store.Insert(ctx, p)
	if err != nil {
		return "", err
	}
	s.log.Info("position created", zap.String("uId", in.UID), zap.String("id", id))
	return id, nil
}

func (s *PositionService) UpdatePosition(ctx context.Context, id string, in PositionInput) (*entity.Position, error) {
	if strings.TrimSpace(id) == "" || !validPositionFields(in.Token, in.TotalValue, in.Protocol) {
		return nil, wrapErrors.New(wrapErrors.CodeInvalidInput, "UpdatePosition",
			"missing or invalid required fields (_id, token, total_value, protocol)")
	}
	return s.store.Update(ctx, id, in.Token, in.TotalValue, in.Protocol)
}

func (s *PositionService) DeletePosition(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, wrapErrors.New(wrapErrors.CodeInvalidInput, "DeletePosition", "missing required field (_id)")
	}
	return s.store.DeleteByID(ctx, id)
}

func validPositionFields(token string, totalValue float64, protocol string) bool {
	return strings.TrimSpace(token) != "" && totalValue > 0 && strings.TrimSpace(protocol) != ""
}
