package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/services/payment"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Payments struct {
	server *Server
}

func (p Payments) router(server *Server) {
	p.server = server

	serverGroupV1 := server.router.Group("/api/v1/payments/methods")
	serverGroupV1.POST("", AuthenticatedMiddleware(), p.createMethod)
	serverGroupV1.GET("", AuthenticatedMiddleware(), p.getMethods)
	serverGroupV1.PUT(":id", AuthenticatedMiddleware(), p.updateMethod)
	serverGroupV1.DELETE(":id", AuthenticatedMiddleware(), p.deleteMethod)
}

func (p *Payments) createMethod(ctx *gin.Context) {
	request := struct {
		Name    string          `json:"name" binding:"required"`
		Kind    string          `json:"type" binding:"required"`
		Details json.RawMessage `json:"details" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidMethodInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	method, err := p.server.paymentService.Create(ctx, activeUser.UserID, request.Name, payment.Kind(request.Kind), request.Details)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Payment Method Created Successfully", method))
}

func (p *Payments) getMethods(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	methods, err := p.server.paymentService.List(ctx, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Payment Methods Fetched Successfully", methods))
}

func (p *Payments) updateMethod(ctx *gin.Context) {
	methodID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidMethodID))
		return
	}

	request := struct {
		Name    string          `json:"name"`
		Details json.RawMessage `json:"details"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidMethodInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	method, err := p.server.paymentService.Update(ctx, activeUser.UserID, methodID, request.Name, request.Details)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Payment Method Updated Successfully", method))
}

func (p *Payments) deleteMethod(ctx *gin.Context) {
	methodID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidMethodID))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	if err := p.server.paymentService.Delete(ctx, activeUser.UserID, methodID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Payment Method Deleted Successfully", nil))
}
