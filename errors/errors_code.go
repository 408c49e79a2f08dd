package errors

type Code string

const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidPlan        Code = "INVALID_PLAN"
	CodeInvalidProtocol    Code = "INVALID_PROTOCOL"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodePoolNotInFavorites Code = "POOL_NOT_IN_FAVORITES"
	CodeConflict           Code = "CONFLICT"
	CodeVersionConflict    Code = "VERSION_CONFLICT"
	CodeStoreFailure       Code = "STORE_FAILURE"
)
