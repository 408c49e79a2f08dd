package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/request"
	"github.com/linlinbupt123-crypto/lumos_service/service"
)

type PositionHandler struct {
	positions *service.PositionService
	log       *zap.Logger
}

func NewPositionHandler(positions *service.PositionService, log *zap.Logger) *PositionHandler {
	return &PositionHandler{positions: positions, log: log}
}

// List serves GET /api/positions, filtered by ?_id= or ?uId=.
func (h *PositionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if id, ok := c.GetQuery("_id"); ok {
		if id == "" {
			respondBadRequest(c, "Missing position ID")
			return
		}
		p, err := h.positions.GetPosition(ctx, id)
		if err != nil {
			respondError(c, h.log, err, "Failed to fetch position")
			return
		}
		c.JSON(http.StatusOK, gin.H{"position": p})
		return
	}

	if uid, ok := c.GetQuery("uId"); ok {
		positions, err := h.positions.ListPositionsByUID(ctx, uid)
		if err != nil {
			respondError(c, h.log, err, "Failed to fetch positions")
			return
		}
		c.JSON(http.StatusOK, gin.H{"positions": positions})
		return
	}

	positions, err := h.positions.ListPositions(ctx)
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch positions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

func (h *PositionHandler) Create(c *gin.Context) {
	var req request.CreatePositionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Missing or invalid required fields (uId, token, total_value, protocol)")
		return
	}
	id, err := h.positions.CreatePosition(c.Request.Context(), service.PositionInput{
		UID:        req.UID,
		Token:      req.Token,
		TotalValue: req.TotalValue,
		Protocol:   req.Protocol,
	})
	if err != nil {
		respondError(c, h.log, err, "Failed to create position")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Position created successfully",
		"positionId": id,
	})
}

func (h *PositionHandler) Update(c *gin.Context) {
	var req request.UpdatePositionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Missing or invalid required fields (_id, token, total_value, protocol)")
		return
	}
	p, err := h.positions.UpdatePosition(c.Request.Context(), req.ID, service.PositionInput{
		Token:      req.Token,
		TotalValue: req.TotalValue,
		Protocol:   req.Protocol,
	})
	if err != nil {
		respondError(c, h.log, err, "Failed to update position")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Position updated successfully",
		"position": p,
	})
}

func (h *PositionHandler) Delete(c *gin.Context) {
	var req request.DeleteByIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Missing required field (_id)")
		return
	}
	ok, err := h.positions.DeletePosition(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, h.log, err, "Failed to delete position")
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Position not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position deleted successfully"})
}
