package api

import (
	"net/http"
	"strconv"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/services/order"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Orders struct {
	server *Server
}

func (o Orders) router(server *Server) {
	o.server = server

	serverGroupV1 := server.router.Group("/api/v1/orders")
	serverGroupV1.POST("", AuthenticatedMiddleware(), o.createOrder)
	serverGroupV1.GET("", AuthenticatedMiddleware(), o.getUserOrders)
	serverGroupV1.GET("open", AuthenticatedMiddleware(), o.getOpenOrders)
	serverGroupV1.GET(":id", AuthenticatedMiddleware(), o.getOrder)
	serverGroupV1.POST(":id/confirm", AuthenticatedMiddleware(), o.confirmOrder)
	serverGroupV1.POST(":id/complete", AuthenticatedMiddleware(), o.completeOrder)
	serverGroupV1.POST(":id/cancel", AuthenticatedMiddleware(), o.cancelOrder)
}

func (o *Orders) createOrder(ctx *gin.Context) {
	request := struct {
		PairID int64           `json:"pair_id" binding:"required"`
		Side   string          `json:"side" binding:"required"`
		Amount decimal.Decimal `json:"amount" binding:"required"`
		Price  decimal.Decimal `json:"price" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidOrderInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	created, err := o.server.orderService.Create(ctx, activeUser.UserID, request.PairID, order.Side(request.Side), request.Amount, request.Price)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Order Created Successfully", created))
}

func (o *Orders) getUserOrders(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	orders, err := o.server.orderService.ListMine(ctx, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("User Orders Fetched Successfully", orders))
}

func (o *Orders) getOpenOrders(ctx *gin.Context) {
	pairID, err := strconv.ParseInt(ctx.Query("pair_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidPairID))
		return
	}

	orders, err := o.server.orderService.ListOpen(ctx, pairID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Open Orders Fetched Successfully", orders))
}

func (o *Orders) getOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidOrderID))
		return
	}

	found, err := o.server.orderService.Get(ctx, orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil || (!found.Party(activeUser.UserID) && activeUser.Role != "admin" && found.Status != order.StatusPending) {
		ctx.JSON(http.StatusForbidden, basemodels.NewError(order.ErrNotAuthorizedParty.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Order Fetched Successfully", found))
}

func (o *Orders) transition(ctx *gin.Context, message string, do func(orderID, callerID int64) (*order.Order, error)) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidOrderID))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	updated, err := do(orderID, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess(message, updated))
}

func (o *Orders) confirmOrder(ctx *gin.Context) {
	o.transition(ctx, "Order Confirmed Successfully", func(orderID, callerID int64) (*order.Order, error) {
		return o.server.orderService.Confirm(ctx, orderID, callerID)
	})
}

func (o *Orders) completeOrder(ctx *gin.Context) {
	o.transition(ctx, "Order Completed Successfully", func(orderID, callerID int64) (*order.Order, error) {
		return o.server.orderService.Complete(ctx, orderID, callerID)
	})
}

func (o *Orders) cancelOrder(ctx *gin.Context) {
	o.transition(ctx, "Order Cancelled Successfully", func(orderID, callerID int64) (*order.Order, error) {
		return o.server.orderService.Cancel(ctx, orderID, callerID)
	})
}
