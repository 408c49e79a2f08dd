package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Position struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UID        string             `bson:"uId" json:"uId"`
	Token      string             `bson:"token" json:"token"`
	TotalValue float64            `bson:"total_value" json:"total_value"`
	Protocol   string             `bson:"protocol" json:"protocol"`
	AddDate    time.Time          `bson:"add_date" json:"add_date"`
}
