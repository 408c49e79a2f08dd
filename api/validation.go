package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/linlinbupt123-crypto/lumos_service/domain"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding tags used by request bodies to
// gin's validator. Safe to call more than once; the first error is returned
// on every call.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("gin validator engine is %T, want *validator.Validate", binding.Validator.Engine())
			return
		}
		// plan: user_type must name a catalog plan
		if err := v.RegisterValidation("plan", validPlan); err != nil {
			registerErr = fmt.Errorf("register plan validation: %w", err)
		}
	})
	return registerErr
}

func validPlan(fl validator.FieldLevel) bool {
	return domain.IsValidPlan(fl.Field().String())
}
