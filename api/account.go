package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/domain"
	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
	"github.com/linlinbupt123-crypto/lumos_service/request"
	"github.com/linlinbupt123-crypto/lumos_service/service"
)

type AccountHandler struct {
	accounts *service.AccountService
	log      *zap.Logger
}

func NewAccountHandler(accounts *service.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log}
}

// accountSummary is the list view of an account.
type accountSummary struct {
	ID                primitive.ObjectID `json:"_id"`
	Email             string             `json:"email"`
	FavPools          []entity.Pool      `json:"ekubo_fav_pools"`
	UserType          entity.Plan        `json:"user_type"`
	RemainingRequests int64              `json:"remaining_requests"`
	UID               string             `json:"uId"`
	PlanExpDate       *time.Time         `json:"plan_exp_date"`
}

func summarize(a *entity.Account) accountSummary {
	pools := a.FavPools
	if pools == nil {
		pools = []entity.Pool{}
	}
	return accountSummary{
		ID:                a.ID,
		Email:             a.Email,
		FavPools:          pools,
		UserType:          a.UserType,
		RemainingRequests: a.RemainingRequests,
		UID:               a.UID,
		PlanExpDate:       a.PlanExpDate,
	}
}

// List serves GET /api/users, or the single account named by ?uId=.
func (h *AccountHandler) List(c *gin.Context) {
	if uid, ok := c.GetQuery("uId"); ok {
		a, err := h.accounts.GetAccountByUID(c.Request.Context(), uid)
		if err != nil {
			respondError(c, h.log, err, "Failed to fetch users")
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": []*entity.Account{a}})
		return
	}

	accounts, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch users")
		return
	}
	users := make([]accountSummary, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, summarize(a))
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req request.CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Missing or invalid required fields (email, uId, user_type)")
		return
	}

	id, created, err := h.accounts.CreateAccount(c.Request.Context(), service.CreateAccountInput{
		Email:    req.Email,
		UID:      req.UID,
		FavPools: req.FavPools,
		Plan:     req.UserType,
	})
	if err != nil {
		respondError(c, h.log, err, "Failed to create user")
		return
	}

	status, msg := http.StatusCreated, "User created successfully"
	if !created {
		status, msg = http.StatusOK, "User already exists"
	}
	c.JSON(status, gin.H{
		"message": msg,
		"users": []gin.H{{
			"_id":   id,
			"email": req.Email,
			"uId":   req.UID,
		}},
	})
}

// Update dispatches PUT /api/users on the body shape: a plan change, a
// favorite pool add, or a generic field update.
func (h *AccountHandler) Update(c *gin.Context) {
	var probe request.UserBodyProbe
	if err := c.ShouldBindBodyWith(&probe, binding.JSON); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if _, ok := probe.PlanText(); ok {
		h.changePlan(c)
		return
	}
	if probe.IsPoolRequest() {
		h.addFavoritePool(c)
		return
	}
	h.updateAccount(c)
}

// Delete dispatches DELETE /api/users: a favorite pool removal, or account
// deletion by _id.
func (h *AccountHandler) Delete(c *gin.Context) {
	var probe request.UserBodyProbe
	if err := c.ShouldBindBodyWith(&probe, binding.JSON); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if probe.IsPoolRequest() {
		h.removeFavoritePool(c)
		return
	}

	var req request.DeleteByIDReq
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondBadRequest(c, "Missing required field (_id)")
		return
	}
	ok, err := h.accounts.DeleteAccount(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, h.log, err, "Failed to delete user")
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *AccountHandler) changePlan(c *gin.Context) {
	var req request.ChangePlanReq
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondBadRequest(c, "Missing or invalid required fields (uId, newPlanText)")
		return
	}
	text := req.NewPlanText
	if text == "" {
		text = req.NewUserType
	}

	change, err := h.accounts.ChangePlan(c.Request.Context(), req.UID, text)
	if err != nil {
		respondError(c, h.log, err, "Failed to update user plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User type updated successfully",
		"users":   []*service.PlanChange{change},
	})
}

func (h *AccountHandler) addFavoritePool(c *gin.Context) {
	req, ok := h.bindPoolRequest(c)
	if !ok {
		return
	}
	pools, added, err := h.accounts.AddFavoritePool(c.Request.Context(), req.UID, req.Pool)
	if err != nil {
		respondError(c, h.log, err, "Failed to add favorite pool")
		return
	}
	msg := "Pool added to favorites"
	if !added {
		msg = "Pool already in favorites"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "ekubo_fav_pools": pools})
}

func (h *AccountHandler) removeFavoritePool(c *gin.Context) {
	req, ok := h.bindPoolRequest(c)
	if !ok {
		return
	}
	pools, err := h.accounts.RemoveFavoritePool(c.Request.Context(), req.UID, req.Pool)
	if err != nil {
		respondError(c, h.log, err, "Failed to remove favorite pool")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pool removed from favorites", "ekubo_fav_pools": pools})
}

func (h *AccountHandler) bindPoolRequest(c *gin.Context) (request.FavoritePoolReq, bool) {
	var req request.FavoritePoolReq
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondBadRequest(c, "Missing or invalid required fields (uId, protocol, pool)")
		return req, false
	}
	if !domain.IsSupportedProtocol(req.Protocol) {
		respondError(c, h.log, wrapErrors.New(wrapErrors.CodeInvalidProtocol, "favoritePool",
			"unsupported protocol "+req.Protocol), "")
		return req, false
	}
	return req, true
}

func (h *AccountHandler) updateAccount(c *gin.Context) {
	var req request.UpdateUserReq
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondBadRequest(c, "Missing or invalid required fields (_id)")
		return
	}
	if req.UserType != nil {
		respondBadRequest(c, "user_type cannot be updated here, send uId and newPlanText instead")
		return
	}
	patch := req.Patch()
	if patch.Empty() {
		respondBadRequest(c, "No fields to update (email, uId, ekubo_fav_pools, remaining_requests)")
		return
	}

	updated, err := h.accounts.UpdateAccount(c.Request.Context(), req.ID, patch)
	if err != nil {
		if wrapErrors.Is(err, wrapErrors.CodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found or update failed"})
			return
		}
		respondError(c, h.log, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"users":   []accountSummary{summarize(updated)},
	})
}
