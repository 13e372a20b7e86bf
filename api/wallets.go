package api

import (
	"net/http"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	server *Server
}

func (w Wallet) router(server *Server) {
	w.server = server

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.GET("", AuthenticatedMiddleware(), w.getUserWallets)
	serverGroupV1.POST("deposit", AuthenticatedMiddleware(), AdminMiddleware(), w.deposit)
}

func (w *Wallet) getUserWallets(ctx *gin.Context) {
	// Fetch user details
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	wallets, err := w.server.ledgerService.Wallets(ctx, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("User Wallets Fetched Successfully", wallets))
}

// deposit is the funding hook. Off-core payment confirmation calls in through
// an operator credential; this is the only way funds enter the ledger.
func (w *Wallet) deposit(ctx *gin.Context) {
	request := struct {
		UserID   int64           `json:"user_id" binding:"required"`
		Currency string          `json:"currency" binding:"required"`
		Amount   decimal.Decimal `json:"amount" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidDepositInput))
		return
	}

	wallet, err := w.server.ledgerService.Credit(ctx, request.UserID, request.Currency, request.Amount, uuid.New())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Credited Successfully", wallet))
}
