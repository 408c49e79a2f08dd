package request

import (
	"bytes"
	"encoding/json"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
)

// --- users ---

type CreateUserReq struct {
	Email    string        `json:"email" binding:"required"`
	UID      string        `json:"uId" binding:"required"`
	FavPools []entity.Pool `json:"ekubo_fav_pools" binding:"omitempty,dive"`
	UserType string        `json:"user_type" binding:"required,plan"`
}

// UserBodyProbe is decoded first to decide which PUT/DELETE operation a body asks for.
type UserBodyProbe struct {
	NewPlanText *string         `json:"newPlanText"`
	NewUserType *string         `json:"newUserType"` // 旧字段名
	Protocol    *string         `json:"protocol"`
	Pool        json.RawMessage `json:"pool"`
}

// PlanText returns the requested plan and whether the body is a plan change.
func (p UserBodyProbe) PlanText() (string, bool) {
	if p.NewPlanText != nil {
		return *p.NewPlanText, true
	}
	if p.NewUserType != nil {
		return *p.NewUserType, true
	}
	return "", false
}

func (p UserBodyProbe) IsPoolRequest() bool {
	return p.Protocol != nil || (len(p.Pool) > 0 && !bytes.Equal(bytes.TrimSpace(p.Pool), []byte("null")))
}

type ChangePlanReq struct {
	UID         string `json:"uId" binding:"required"`
	NewPlanText string `json:"newPlanText"`
	NewUserType string `json:"newUserType"`
}

type FavoritePoolReq struct {
	UID      string      `json:"uId" binding:"required"`
	Protocol string      `json:"protocol" binding:"required"`
	Pool     entity.Pool `json:"pool"`
}

type UpdateUserReq struct {
	ID                string        `json:"_id" binding:"required"`
	Email             *string       `json:"email"`
	UID               *string       `json:"uId"`
	FavPools          []entity.Pool `json:"ekubo_fav_pools" binding:"omitempty,dive"`
	RemainingRequests *int64        `json:"remaining_requests"`
	UserType          *string       `json:"user_type"`
}

func (r UpdateUserReq) Patch() entity.AccountPatch {
	patch := entity.AccountPatch{
		Email:             r.Email,
		UID:               r.UID,
		RemainingRequests: r.RemainingRequests,
	}
	if r.FavPools != nil {
		patch.FavPools = r.FavPools
	}
	return patch
}

type DeleteByIDReq struct {
	ID string `json:"_id" binding:"required"`
}

// --- positions ---

type CreatePositionReq struct {
	UID        string  `json:"uId" binding:"required"`
	Token      string  `json:"token" binding:"required"`
	TotalValue float64 `json:"total_value" binding:"required,gt=0"`
	Protocol   string  `json:"protocol" binding:"required"`
}

type UpdatePositionReq struct {
	ID         string  `json:"_id" binding:"required"`
	Token      string  `json:"token" binding:"required"`
	TotalValue float64 `json:"total_value" binding:"required,gt=0"`
	Protocol   string  `json:"protocol" binding:"required"`
}

// --- waitlist ---

type WaitlistReq struct {
	Email string `json:"email" binding:"required,email"`
}
