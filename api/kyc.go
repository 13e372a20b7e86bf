package api

import (
	"net/http"
	"strconv"

	"github.com/PeerTrade/PeerTrade-Backend/api/apistrings"
	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/services/kyc"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
)

type KYC struct {
	server *Server
}

func (k KYC) router(server *Server) {
	k.server = server

	serverGroupV1 := server.router.Group("/api/v1/kyc")
	serverGroupV1.GET("status", AuthenticatedMiddleware(), k.getStatus)
	serverGroupV1.POST("submit", AuthenticatedMiddleware(), k.submit)
	serverGroupV1.GET("pending", AuthenticatedMiddleware(), AdminMiddleware(), k.getPending)
	serverGroupV1.PATCH(":id/review", AuthenticatedMiddleware(), AdminMiddleware(), k.review)
}

func (k *KYC) getStatus(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	record, err := k.server.kycService.Status(ctx, activeUser.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("KYC Status Fetched Successfully", record))
}

func (k *KYC) submit(ctx *gin.Context) {
	request := struct {
		DocumentType  string `json:"document_type" binding:"required"`
		Country       string `json:"country" binding:"required"`
		DocumentFront string `json:"document_front" binding:"required"`
		DocumentBack  string `json:"document_back"`
		Selfie        string `json:"selfie" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidKYCInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	record, err := k.server.kycService.Submit(ctx, activeUser.UserID, kyc.Submission{
		DocumentType:  request.DocumentType,
		Country:       request.Country,
		DocumentFront: request.DocumentFront,
		DocumentBack:  request.DocumentBack,
		Selfie:        request.Selfie,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("KYC Submission Received", record))
}

func (k *KYC) getPending(ctx *gin.Context) {
	records, err := k.server.kycService.Pending(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Pending KYC Records Fetched Successfully", records))
}

func (k *KYC) review(ctx *gin.Context) {
	recordID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidKYCRecordID))
		return
	}

	request := struct {
		Approve         *bool  `json:"approve" binding:"required"`
		Level           int    `json:"level"`
		RejectionReason string `json:"rejection_reason"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidReviewInput))
		return
	}

	record, err := k.server.kycService.Review(ctx, recordID, kyc.Review{
		Approve:         *request.Approve,
		Level:           request.Level,
		RejectionReason: request.RejectionReason,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("KYC Record Reviewed Successfully", record))
}
