package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account 对应 users collection 中的一条记录
type Account struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UID               string             `bson:"uId" json:"uId"` // 调用方的用户 ID, 唯一
	Email             string             `bson:"email" json:"email"`
	UserType          Plan               `bson:"user_type" json:"user_type"`
	RemainingRequests int64              `bson:"remaining_requests" json:"remaining_requests"` // -1 表示无限
	PlanExpDate       *time.Time         `bson:"plan_exp_date" json:"plan_exp_date"`           // nil 表示不过期
	FavPools          []Pool             `bson:"ekubo_fav_pools" json:"ekubo_fav_pools"`
	AddDate           time.Time          `bson:"add_date" json:"add_date"`
	Version           int64              `bson:"version" json:"-"`
}

// Clone returns a copy that shares no slices or pointers with a.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	if a.PlanExpDate != nil {
		exp := *a.PlanExpDate
		out.PlanExpDate = &exp
	}
	if a.FavPools != nil {
		out.FavPools = append(make([]Pool, 0, len(a.FavPools)), a.FavPools...)
	}
	return &out
}

// AccountPatch holds the fields a generic update may touch. Plan fields are
// deliberately absent: they only change through a plan change.
type AccountPatch struct {
	Email             *string
	UID               *string
	FavPools          []Pool
	RemainingRequests *int64
}

func (p AccountPatch) Empty() bool {
	return p.Email == nil && p.UID == nil && p.FavPools == nil && p.RemainingRequests == nil
}
