package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

type WaitlistRepo struct {
	col *mongo.Collection
	op  storeOp
	now func() time.Time
}

func NewWaitlistRepo(col *mongo.Collection, log *zap.Logger) *WaitlistRepo {
	return &WaitlistRepo{
		col: col,
		op:  storeOp{log: log, collection: col.Name()},
		now: time.Now,
	}
}

// Insert adds an email. An email already on the list yields CONFLICT.
func (r *WaitlistRepo) Insert(ctx context.Context, e *entity.WaitlistEntry) (string, error) {
	e.AddDate = r.now().UTC()
	res, err := r.col.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return "", r.op.conflict("insert", wrapErrors.CodeConflict, err)
	}
	if err != nil {
		return "", r.op.fail("insert", err)
	}
	r.op.ok("insert")
	return insertedHex(res), nil
}
