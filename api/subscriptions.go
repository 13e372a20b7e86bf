package api

import (
	"net/http"
	"strconv"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Subscriptions struct {
	server *Server
}

func (s Subscriptions) router(server *Server) {
	s.server = server

	serverGroupV1 := server.router.Group("/api/v1/subscriptions")
	serverGroupV1.GET("", s.getTiers)
	serverGroupV1.GET("active", AuthenticatedMiddleware(), s.getActive)
	serverGroupV1.POST(":id/subscribe", AuthenticatedMiddleware(), s.subscribe)
}

func (s *Subscriptions) getTiers(ctx *gin.Context) {
	tiers, err := s.server.subscriptionService.Catalog(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Subscription Tiers Fetched Successfully", tiers))
}

func (s *Subscriptions) getActive(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	sub, err := s.server.subscriptionService.ActiveFor(ctx, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Active Subscription Fetched Successfully", sub))
}

func (s *Subscriptions) subscribe(ctx *gin.Context) {
	tierID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTierID))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	sub, err := s.server.subscriptionService.Subscribe(ctx, activeUser.UserID, tierID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Subscription Activated Successfully", sub))
}
