package api

import (
	"net/http"
	"strconv"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/services/dispute"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Disputes struct {
	server *Server
}

func (d Disputes) router(server *Server) {
	d.server = server

	serverGroupV1 := server.router.Group("/api/v1/disputes")
	serverGroupV1.POST("", AuthenticatedMiddleware(), d.openDispute)
	serverGroupV1.GET("", AuthenticatedMiddleware(), d.getUserDisputes)
	serverGroupV1.GET("all", AuthenticatedMiddleware(), AdminMiddleware(), d.getAllDisputes)
	serverGroupV1.PATCH(":id/review", AuthenticatedMiddleware(), AdminMiddleware(), d.beginReview)
	serverGroupV1.PATCH(":id/resolve", AuthenticatedMiddleware(), AdminMiddleware(), d.resolveDispute)
	serverGroupV1.PATCH(":id/close", AuthenticatedMiddleware(), d.closeDispute)
}

func (d *Disputes) openDispute(ctx *gin.Context) {
	request := struct {
		OrderID     int64  `json:"order_id" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
		Description string `json:"description" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidDisputeInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	created, err := d.server.disputeService.Open(ctx, request.OrderID, activeUser.UserID, request.Reason, request.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Dispute Opened Successfully", created))
}

func (d *Disputes) getUserDisputes(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	disputes, err := d.server.disputeService.ListMine(ctx, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("User Disputes Fetched Successfully", disputes))
}

func (d *Disputes) getAllDisputes(ctx *gin.Context) {
	disputes, err := d.server.disputeService.List(ctx, dispute.Status(ctx.Query("status")))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Disputes Fetched Successfully", disputes))
}

func (d *Disputes) beginReview(ctx *gin.Context) {
	disputeID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidDisputeID))
		return
	}

	updated, err := d.server.disputeService.BeginReview(ctx, disputeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Dispute Moved To Review", updated))
}

func (d *Disputes) resolveDispute(ctx *gin.Context) {
	disputeID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidDisputeID))
		return
	}

	request := struct {
		Resolution string `json:"resolution" binding:"required"`
		Favor      string `json:"favor" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidResolution))
		return
	}

	updated, err := d.server.disputeService.Resolve(ctx, disputeID, request.Resolution, dispute.Favor(request.Favor))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Dispute Resolved Successfully", updated))
}

func (d *Disputes) closeDispute(ctx *gin.Context) {
	disputeID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidDisputeID))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	updated, err := d.server.disputeService.Close(ctx, disputeID, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Dispute Closed Successfully", updated))
}
