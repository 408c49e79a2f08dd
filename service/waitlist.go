package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

var validate = validator.New()

type WaitlistService struct {
	store WaitlistStore
	log   *zap.Logger
}

func NewWaitlistService(store WaitlistStore, log *zap.Logger) *WaitlistService {
	return &WaitlistService{store: store, log: log}
}

// JoinWaitlist records email. An email that is already listed is not an
// error; created reports whether a new entry was written.
func (s *WaitlistService) JoinWaitlist(ctx context.Context, email string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, wrapErrors.New(wrapErrors.CodeInvalidInput, "JoinWaitlist", "missing or invalid required fields (email)")
	}
	if err := validate.Var(email, "email"); err != nil {
		return false, wrapErrors.New(wrapErrors.CodeInvalidInput, "JoinWaitlist", "invalid email")
	}
	_, err = s.store.Insert(ctx, &entity.WaitlistEntry{Email: email})
	if wrapErrors.Is(err, wrapErrors.CodeConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Info("waitlist email added")
	return true, nil
}
