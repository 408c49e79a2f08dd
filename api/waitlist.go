package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/request"
	"github.com/linlinbupt123-crypto/lumos_service/service"
)

type WaitlistHandler struct {
	waitlist *service.WaitlistService
	log      *zap.Logger
}

func NewWaitlistHandler(waitlist *service.WaitlistService, log *zap.Logger) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist, log: log}
}

func (h *WaitlistHandler) Join(c *gin.Context) {
	var req request.WaitlistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Missing or invalid required fields (email)")
		return
	}
	created, err := h.waitlist.JoinWaitlist(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.log, err, "Failed to save email")
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Email already on the waitlist"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Email added successfully"})
}
