package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

type PositionRepo struct {
	col *mongo.Collection
	op  storeOp
	now func() time.Time
}

func NewPositionRepo(col *mongo.Collection, log *zap.Logger) *PositionRepo {
	return &PositionRepo{
		col: col,
		op:  storeOp{log: log, collection: col.Name()},
		now: time.Now,
	}
}

func (r *PositionRepo) FindAll(ctx context.Context) ([]*entity.Position, error) {
	return r.find(ctx, "find", bson.M{})
}

func (r *PositionRepo) FindByUID(ctx context.Context, uid string) ([]*entity.Position, error) {
	return r.find(ctx, "findByUId", bson.M{"uId": uid})
}

func (r *PositionRepo) find(ctx context.Context, op string, filter bson.M) ([]*entity.Position, error) {
	opts := options.Find().SetSort(bson.D{{Key: "add_date", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.op.fail(op, err)
	}
	defer cur.Close(ctx)

	out := make([]*entity.Position, 0)
	for cur.Next(ctx) {
		var p entity.Position
		if err := cur.Decode(&p); err == nil {
			out = append(out, &p)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, r.op.fail(op, err)
	}
	r.op.ok(op)
	return out, nil
}

func (r *PositionRepo) FindByID(ctx context.Context, id string) (*entity.Position, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	var p entity.Position
	err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		r.op.notFound("findById")
		return nil, nil
	}
	if err != nil {
		return nil, r.op.fail("findById", err)
	}
	r.op.ok("findById")
	return &p, nil
}

func (r *PositionRepo) Insert(ctx context.Context, p *entity.Position) (string, error) {
	p.AddDate = r.now().UTC()
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return "", r.op.fail("insert", err, zap.String("uId", p.UID))
	}
	r.op.ok("insert")
	id := insertedHex(res)
	if oid, ok := parseID(id); ok {
		p.ID = oid
	}
	return id, nil
}

// Update sets token, total_value and protocol on the position with id.
func (r *PositionRepo) Update(ctx context.Context, id string, token string, totalValue float64, protocol string) (*entity.Position, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "positions.update", "position not found")
	}
	update := bson.M{"$set": bson.M{
		"token":       token,
		"total_value": totalValue,
		"protocol":    protocol,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p entity.Position
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		r.op.notFound("update")
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "positions.update", "position not found")
	}
	if err != nil {
		return nil, r.op.fail("update", err)
	}
	r.op.ok("update")
	return &p, nil
}

func (r *PositionRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, r.op.fail("delete", err)
	}
	if res.DeletedCount == 0 {
		r.op.notFound("delete")
		return false, nil
	}
	r.op.ok("delete")
	return true, nil
}
