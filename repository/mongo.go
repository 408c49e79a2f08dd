package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
	"github.com/linlinbupt123-crypto/lumos_service/metrics"
)

// storeOp records one operation against a collection: it counts the outcome
// and, for store failures, logs the diagnostic and wraps err as STORE_FAILURE.
type storeOp struct {
	log        *zap.Logger
	collection string
}

func (s storeOp) ok(op string) {
	metrics.StoreOperations.WithLabelValues(s.collection, op, metrics.ResultOK).Inc()
}

func (s storeOp) notFound(op string) {
	metrics.StoreOperations.WithLabelValues(s.collection, op, metrics.ResultNotFound).Inc()
}

func (s storeOp) conflict(op string, code wrapErrors.Code, err error) error {
	metrics.StoreOperations.WithLabelValues(s.collection, op, metrics.ResultConflict).Inc()
	return wrapErrors.WrapWithCode(code, s.collection+"."+op, err)
}

func (s storeOp) fail(op string, err error, fields ...zap.Field) error {
	metrics.StoreOperations.WithLabelValues(s.collection, op, metrics.ResultError).Inc()
	s.log.Error("store operation failed",
		append([]zap.Field{zap.String("collection", s.collection), zap.String("op", op), zap.Error(err)}, fields...)...)
	return wrapErrors.WrapWithCode(wrapErrors.CodeStoreFailure, s.collection+"."+op, err)
}

// parseID converts a hex id; a malformed id can never match a document.
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

// versionFilter matches documents whose version equals v. Documents written
// before the version field existed are treated as version 0.
func versionFilter(id primitive.ObjectID, v int64) bson.M {
	if v == 0 {
		return bson.M{"_id": id, "version": bson.M{"$in": bson.A{int64(0), nil}}}
	}
	return bson.M{"_id": id, "version": v}
}
