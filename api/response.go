package api

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

func statusFor(err error) int {
	switch wrapErrors.CodeOf(err) {
	case wrapErrors.CodeInvalidInput, wrapErrors.CodeInvalidPlan, wrapErrors.CodeInvalidProtocol:
		return http.StatusBadRequest
	case wrapErrors.CodeNotFound, wrapErrors.CodePoolNotInFavorites:
		return http.StatusNotFound
	case wrapErrors.CodeConflict, wrapErrors.CodeVersionConflict:
		return http.StatusConflict
	case wrapErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Server errors are logged and
// answered with failed only.
func respondError(c *gin.Context, log *zap.Logger, err error, failed string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(failed,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String(requestIDKey, c.GetString(requestIDKey)),
		)
		c.JSON(status, gin.H{"message": failed})
		return
	}
	c.JSON(status, gin.H{"message": publicMessage(err)})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

// publicMessage is the error cause in sentence case.
func publicMessage(err error) string {
	msg := strings.TrimSpace(wrapErrors.Message(err))
	if msg == "" {
		return http.StatusText(statusFor(err))
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
