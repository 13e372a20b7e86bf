package api

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/db/store"
	"github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/services/dispute"
	"github.com/PeerTrade/PeerTrade-Backend/services/kyc"
	"github.com/PeerTrade/PeerTrade-Backend/services/ledger"
	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/PeerTrade/PeerTrade-Backend/services/notification"
	"github.com/PeerTrade/PeerTrade-Backend/services/order"
	"github.com/PeerTrade/PeerTrade-Backend/services/orderbook"
	"github.com/PeerTrade/PeerTrade-Backend/services/payment"
	"github.com/PeerTrade/PeerTrade-Backend/services/referral"
	"github.com/PeerTrade/PeerTrade-Backend/services/subscription"
	"github.com/PeerTrade/PeerTrade-Backend/services/trust"
	"github.com/PeerTrade/PeerTrade-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
)

// / If there's a better place to access this
// / TODO, I feel the config should be the one accessible like this
var TokenController *utils.JWTToken

// stalePendingAge is how long an unconfirmed order may sit on the book before
// the background sweep cancels it and releases its escrow.
const stalePendingAge = 24 * time.Hour

type Server struct {
	router *gin.Engine
	store  *store.Store
	config *utils.Config
	logger *logging.Logger

	ledgerService       *ledger.Service
	trustGate           *trust.Gate
	orderService        *order.Service
	disputeService      *dispute.Service
	orderbookService    *orderbook.Service
	kycService          *kyc.Service
	subscriptionService *subscription.Service
	paymentService      *payment.Service
	referralService     *referral.Service
	notificationService *notification.Service
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	s := store.NewStore(conn)
	g := gin.Default()
	l := logging.NewLogger(c)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     utils.GetRedisAddr(c),
		Password: c.RedisPassword,
	})

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	TokenController = utils.NewJWTToken(c)

	ledgerService := ledger.NewService(s, l)
	volumeTracker := trust.NewRedisVolumeTracker(redisClient)
	trustGate := trust.NewGate(s, volumeTracker, l)
	notificationService := notification.NewService(l)

	book := orderbook.NewBook()
	orderService := order.NewService(s, ledgerService, trustGate, book, notificationService, l)
	orderbookService := orderbook.NewService(book, s, l)

	referralService, err := referral.NewService(s, c.ReferralSalt, l)
	if err != nil {
		panic(fmt.Sprintf("Could not initialise referral service: %v", err))
	}

	return &Server{
		router:              g,
		store:               s,
		config:              c,
		logger:              l,
		ledgerService:       ledgerService,
		trustGate:           trustGate,
		orderService:        orderService,
		disputeService:      dispute.NewService(s, orderService, l),
		orderbookService:    orderbookService,
		kycService:          kyc.NewService(s, l),
		subscriptionService: subscription.NewService(s, ledgerService, l),
		paymentService:      payment.NewService(s, l),
		referralService:     referralService,
		notificationService: notificationService,
	}
}

func (s *Server) Start() {

	if err := s.orderbookService.Rebuild(context.Background()); err != nil {
		log.Fatalf("Unable to rebuild the order book from storage - %v", err)
	}

	go s.sweepStaleOrders()

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to PeerTrade!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Wallet{}.router(s)
	Orders{}.router(s)
	Disputes{}.router(s)
	Trading{}.router(s)
	KYC{}.router(s)
	Subscriptions{}.router(s)
	Payments{}.router(s)
	Referrals{}.router(s)

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}

func (s *Server) sweepStaleOrders() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := s.orderService.CancelStale(context.Background(), stalePendingAge); err != nil {
			s.logger.Error(fmt.Sprintf("stale order sweep failed: %v", err))
		}
	}
}
