package api

import (
	"net/http"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Referrals struct {
	server *Server
}

func (r Referrals) router(server *Server) {
	r.server = server

	serverGroupV1 := server.router.Group("/api/v1/referrals")
	serverGroupV1.GET("code", AuthenticatedMiddleware(), r.getCode)
	serverGroupV1.GET("team", AuthenticatedMiddleware(), r.getTeam)
	serverGroupV1.POST("track", AuthenticatedMiddleware(), r.track)
}

func (r *Referrals) getCode(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	code, err := r.server.referralService.CodeFor(activeUser.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Referral Code Fetched Successfully", gin.H{"code": code}))
}

func (r *Referrals) getTeam(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	team, err := r.server.referralService.Team(ctx, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Referral Team Fetched Successfully", team))
}

func (r *Referrals) track(ctx *gin.Context) {
	request := struct {
		Code string `json:"code" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidReferralInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	edge, err := r.server.referralService.Track(ctx, request.Code, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Referral Tracked Successfully", edge))
}
