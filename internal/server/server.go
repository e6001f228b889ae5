package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/audit"
	auditdomain "github.com/khasm-app/khasm/internal/audit/domain"
	"github.com/khasm-app/khasm/internal/auth"
	authdomain "github.com/khasm-app/khasm/internal/auth/domain"
	"github.com/khasm-app/khasm/internal/auth/session"
	"github.com/khasm-app/khasm/internal/authorization"
	"github.com/khasm-app/khasm/internal/cache"
	"github.com/khasm-app/khasm/internal/category"
	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
	"github.com/khasm-app/khasm/internal/clock"
	"github.com/khasm-app/khasm/internal/config"
	"github.com/khasm-app/khasm/internal/favorite"
	favoritedomain "github.com/khasm-app/khasm/internal/favorite/domain"
	"github.com/khasm-app/khasm/internal/ledger"
	ledgerdomain "github.com/khasm-app/khasm/internal/ledger/domain"
	"github.com/khasm-app/khasm/internal/observability"
	obsmiddleware "github.com/khasm-app/khasm/internal/observability/logger"
	obsmetrics "github.com/khasm-app/khasm/internal/observability/metrics"
	obstracing "github.com/khasm-app/khasm/internal/observability/tracing"
	"github.com/khasm-app/khasm/internal/place"
	placedomain "github.com/khasm-app/khasm/internal/place/domain"
	"github.com/khasm-app/khasm/internal/ratelimit"
	"github.com/khasm-app/khasm/internal/store"
	storedomain "github.com/khasm-app/khasm/internal/store/domain"
	"github.com/khasm-app/khasm/internal/subscription"
	subscriptiondomain "github.com/khasm-app/khasm/internal/subscription/domain"
	"github.com/khasm-app/khasm/internal/user"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	auth.Module,
	session.Module,
	user.Module,
	place.Module,
	category.Module,
	store.Module,
	subscription.Module,
	favorite.Module,
	ledger.Module,
	ratelimit.Module,
	cache.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	authsvc         authdomain.Service
	sessions        *session.Manager
	authzSvc        authorization.Service
	userSvc         userdomain.Service
	placeSvc        placedomain.Service
	categorySvc     categorydomain.Service
	storeSvc        storedomain.Service
	subscriptionSvc subscriptiondomain.Service
	favoriteSvc     favoritedomain.Service
	ledgerSvc       ledgerdomain.Service
	auditSvc        auditdomain.Service
	storeGroups     *cache.StoreGroupCache
	clk             clock.Clock
	obsMetrics      *obsmetrics.Metrics
	redeemLimiter   *ratelimit.RedeemLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	AuthzSvc        authorization.Service
	UserSvc         userdomain.Service
	PlaceSvc        placedomain.Service
	CategorySvc     categorydomain.Service
	StoreSvc        storedomain.Service
	SubscriptionSvc subscriptiondomain.Service
	FavoriteSvc     favoritedomain.Service
	LedgerSvc       ledgerdomain.Service
	AuditSvc        auditdomain.Service
	StoreGroups     *cache.StoreGroupCache
	Clock           clock.Clock
	ObsMetrics      *obsmetrics.Metrics      `optional:"true"`
	RedeemLimiter   *ratelimit.RedeemLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		genID:           p.GenID,
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		authzSvc:        p.AuthzSvc,
		userSvc:         p.UserSvc,
		placeSvc:        p.PlaceSvc,
		categorySvc:     p.CategorySvc,
		storeSvc:        p.StoreSvc,
		subscriptionSvc: p.SubscriptionSvc,
		favoriteSvc:     p.FavoriteSvc,
		ledgerSvc:       p.LedgerSvc,
		auditSvc:        p.AuditSvc,
		storeGroups:     p.StoreGroups,
		clk:             p.Clock,
		obsMetrics:      p.ObsMetrics,
		redeemLimiter:   p.RedeemLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerAdminRoutes()
	svc.registerCardRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	group := s.engine.Group("/auth")
	group.POST("/login", s.Login)
	group.POST("/logout", s.Logout)
	group.GET("/me", s.AuthRequired(), s.Me)
	group.GET("/check", s.AuthRequired(), s.CheckSession)
	group.POST("/change-password", s.AuthRequired(), s.ChangePassword)
}

func (s *Server) registerAdminRoutes() {
	group := s.engine.Group("/admin", s.AuthRequired())

	places := group.Group("/places")
	places.GET("", s.requireAuthz(authorization.ObjectPlace, authorization.ActionView), s.ListPlaces)
	places.POST("", s.requireAuthz(authorization.ObjectPlace, authorization.ActionCreate), s.CreatePlace)
	places.GET("/:id", s.requireAuthz(authorization.ObjectPlace, authorization.ActionView), s.GetPlaceByID)
	places.PATCH("/:id", s.requireAuthz(authorization.ObjectPlace, authorization.ActionUpdate), s.UpdatePlace)
	places.DELETE("/:id", s.requireAuthz(authorization.ObjectPlace, authorization.ActionDelete), s.DeletePlace)

	categories := group.Group("/categories")
	categories.GET("", s.requireAuthz(authorization.ObjectCategory, authorization.ActionView), s.ListCategories)
	categories.POST("", s.requireAuthz(authorization.ObjectCategory, authorization.ActionCreate), s.CreateCategory)
	categories.GET("/:id", s.requireAuthz(authorization.ObjectCategory, authorization.ActionView), s.GetCategoryByID)
	categories.PATCH("/:id", s.requireAuthz(authorization.ObjectCategory, authorization.ActionUpdate), s.UpdateCategory)
	categories.DELETE("/:id", s.requireAuthz(authorization.ObjectCategory, authorization.ActionDelete), s.DeleteCategory)

	stores := group.Group("/stores")
	stores.GET("", s.requireAuthz(authorization.ObjectStore, authorization.ActionView), s.ListStores)
	stores.POST("", s.requireAuthz(authorization.ObjectStore, authorization.ActionCreate), s.CreateStore)
	stores.GET("/:id", s.requireAuthz(authorization.ObjectStore, authorization.ActionView), s.GetStoreByID)
	stores.PATCH("/:id", s.requireAuthz(authorization.ObjectStore, authorization.ActionUpdate), s.UpdateStore)
	stores.DELETE("/:id", s.requireAuthz(authorization.ObjectStore, authorization.ActionDelete), s.DeleteStore)

	customers := group.Group("/customers")
	customers.GET("", s.requireAuthz(authorization.ObjectCustomer, authorization.ActionView), s.ListCustomers)
	customers.POST("", s.requireAuthz(authorization.ObjectCustomer, authorization.ActionCreate), s.CreateCustomer)
	customers.GET("/:id", s.requireAuthz(authorization.ObjectCustomer, authorization.ActionView), s.GetCustomerByID)
	customers.PATCH("/:id", s.requireAuthz(authorization.ObjectCustomer, authorization.ActionUpdate), s.UpdateCustomer)
	customers.DELETE("/:id", s.requireAuthz(authorization.ObjectCustomer, authorization.ActionDelete), s.DeleteCustomer)
	customers.GET("/:id/usage", s.requireAuthz(authorization.ObjectCustomer, authorization.ActionView), s.ListCustomerUsage)

	group.GET("/admins", s.requireAuthz(authorization.ObjectCustomer, authorization.ActionView), s.ListAdmins)

	group.GET("/audit-logs", s.requireAuthz(authorization.ObjectAudit, authorization.ActionView), s.ListAuditLogs)

	subscriptions := group.Group("/subscriptions")
	subscriptions.GET("", s.requireAuthz(authorization.ObjectSubscription, authorization.ActionView), s.ListSubscriptions)
	subscriptions.POST("", s.requireAuthz(authorization.ObjectSubscription, authorization.ActionCreate), s.CreateSubscription)
	subscriptions.GET("/user/:userId", s.requireAuthz(authorization.ObjectSubscription, authorization.ActionView), s.GetSubscriptionByUser)
	subscriptions.GET("/:id", s.requireAuthz(authorization.ObjectSubscription, authorization.ActionView), s.GetSubscriptionByID)
	subscriptions.PATCH("/:id/status", s.requireAuthz(authorization.ObjectSubscription, authorization.ActionUpdate), s.UpdateSubscriptionStatus)
}

func (s *Server) registerCardRoutes() {
	group := s.engine.Group("/api/card", s.AuthRequired())
	group.GET("/stores", s.GetStoresGroupedByPlace)
	group.GET("/:userId", s.requireAuthz(authorization.ObjectCard, authorization.ActionView), s.GetCardData)
	group.GET("/allowance", s.requireAuthz(authorization.ObjectCard, authorization.ActionView), s.CheckAllowance)
	group.POST("/redeem", s.requireAuthz(authorization.ObjectCard, authorization.ActionRedeem), s.redeemRateLimit(), s.Redeem)
	group.GET("/usage", s.requireAuthz(authorization.ObjectCard, authorization.ActionView), s.ListUsageHistory)
	group.GET("/favorites", s.ListFavorites)
	group.POST("/favorites/toggle", s.ToggleFavorite)
}
