package api

import (
	"net/http"
	"strconv"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/services/order"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Trading struct {
	server *Server
}

func (t Trading) router(server *Server) {
	t.server = server

	serverGroupV1 := server.router.Group("/api/v1/trading")
	serverGroupV1.GET("pairs", t.getPairs)
	serverGroupV1.POST("pairs", AuthenticatedMiddleware(), AdminMiddleware(), t.createPair)
	serverGroupV1.GET("orderbook/:pairId", t.getOrderBook)
	serverGroupV1.GET("stats/:pairId", t.getStats)
	serverGroupV1.GET("history/:pairId", t.getHistory)
}

func (t *Trading) getPairs(ctx *gin.Context) {
	pairs, err := t.server.orderService.Pairs(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Trading Pairs Fetched Successfully", pairs))
}

func (t *Trading) createPair(ctx *gin.Context) {
	request := struct {
		BaseCurrencyID  string          `json:"base_currency_id" binding:"required"`
		QuoteCurrencyID string          `json:"quote_currency_id" binding:"required"`
		Symbol          string          `json:"symbol" binding:"required"`
		MinOrderAmount  decimal.Decimal `json:"min_order_amount"`
		MaxOrderAmount  decimal.Decimal `json:"max_order_amount"`
		TradingFee      decimal.Decimal `json:"trading_fee"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidPairInput))
		return
	}

	created, err := t.server.orderService.CreatePair(ctx, order.TradingPair{
		BaseCurrencyID:  request.BaseCurrencyID,
		QuoteCurrencyID: request.QuoteCurrencyID,
		Symbol:          request.Symbol,
		MinOrderAmount:  request.MinOrderAmount,
		MaxOrderAmount:  request.MaxOrderAmount,
		TradingFee:      request.TradingFee,
	})
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Trading Pair Created Successfully", created))
}

func (t *Trading) pairID(ctx *gin.Context) (int64, bool) {
	pairID, err := strconv.ParseInt(ctx.Param("pairId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidPairID))
		return 0, false
	}
	return pairID, true
}

func (t *Trading) getOrderBook(ctx *gin.Context) {
	pairID, ok := t.pairID(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Order Book Fetched Successfully", t.server.orderbookService.OrderBook(pairID)))
}

func (t *Trading) getStats(ctx *gin.Context) {
	pairID, ok := t.pairID(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Market Stats Fetched Successfully", t.server.orderbookService.Stats(pairID)))
}

func (t *Trading) getHistory(ctx *gin.Context) {
	pairID, ok := t.pairID(ctx)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	trades, err := t.server.orderbookService.History(ctx, pairID, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Trade History Fetched Successfully", trades))
}
