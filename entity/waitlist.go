package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WaitlistEntry 等待名单中的邮箱
type WaitlistEntry struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email   string             `bson:"email" json:"email"`
	AddDate time.Time          `bson:"add_date" json:"add_date"`
}
