package api

import (
	"net/http"
	"slices"
	"time"

	"EsportsHub/internal/config"
	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/realtime"
	"EsportsHub/internal/repository"
	"EsportsHub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps 路由依赖，由 main 组装
type Deps struct {
	Config   *config.Config
	Store    repository.Store
	Chain    interfaces.BlockchainAdapter
	Content  interfaces.ContentAdapter
	Hub      *realtime.Hub
	Gatherer prometheus.Gatherer
	Logger   *logrus.Logger

	Market      *service.MarketService
	Video       *service.VideoService
	DAO         *service.DAOService
	Course      *service.CourseService
	Marketplace *service.MarketplaceService
	User        *service.UserService
	Admin       *service.AdminService
}

// NewRouter 注册全部路由
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	if cfg.Server.EnablePprof {
		pprof.Register(r)
	}

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/healthz", healthHandler(d))
	r.GET("/ws", gin.WrapF(d.Hub.HandleWS))

	marketHandler := NewMarketHandler(d.Market, d.Logger)
	videoHandler := NewVideoHandler(d.Video, cfg.Server.MaxUploadMB, cfg.Content.Gateway, d.Logger)
	daoHandler := NewDAOHandler(d.DAO, d.Logger)
	courseHandler := NewCourseHandler(d.Course, d.Marketplace, d.Logger)
	userHandler := NewUserHandler(d.User, d.Logger)
	adminHandler := NewAdminHandler(d.Admin, d.Logger)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/events", marketHandler.ListEvents)
		apiGroup.GET("/events/:id", marketHandler.GetEvent)
		apiGroup.POST("/bet", marketHandler.PlaceBet)
		apiGroup.POST("/bets/:id/claim", marketHandler.ClaimBet)

		apiGroup.GET("/videos", videoHandler.ListVideos)
		apiGroup.POST("/videos/upload", videoHandler.UploadVideo)
		apiGroup.POST("/videos/:id/like", videoHandler.LikeVideo)
		apiGroup.POST("/videos/:id/view", videoHandler.ViewVideo)

		apiGroup.GET("/dao/proposals", daoHandler.ListProposals)
		apiGroup.GET("/dao/proposals/:id/votes", daoHandler.ListVotes)
		apiGroup.POST("/dao/proposal", daoHandler.CreateProposal)
		apiGroup.POST("/dao/vote", daoHandler.Vote)

		apiGroup.GET("/courses", courseHandler.ListCourses)
		apiGroup.POST("/courses", courseHandler.CreateCourse)
		apiGroup.POST("/courses/:id/purchase", courseHandler.PurchaseCourse)

		apiGroup.GET("/marketplace", courseHandler.ListItems)
		apiGroup.POST("/marketplace/list", courseHandler.ListItem)
		apiGroup.POST("/marketplace/buy", courseHandler.BuyItem)

		apiGroup.GET("/user/:address", userHandler.GetUser)
		apiGroup.PUT("/user/:address", userHandler.UpdateUser)
		apiGroup.GET("/user/:address/balances", userHandler.Balances)
	}

	admin := apiGroup.Group("/admin")
	admin.Use(AdminAuth(cfg.Admin.JWTSecret, cfg.Admin.Address))
	{
		admin.POST("/deploy-contract", adminHandler.DeployContract)
		admin.GET("/deployment-status", adminHandler.DeploymentStatus)

		admin.POST("/test/create-event", adminHandler.TestCreateEvent)
		admin.POST("/test/mint-tokens", adminHandler.TestMintTokens)
		admin.POST("/test/upload-video", adminHandler.TestUploadVideo)
		admin.POST("/test/create-course", adminHandler.TestCreateCourse)
		admin.POST("/test/list-item", adminHandler.TestListItem)

		admin.POST("/events/:id/resolve", marketHandler.ResolveEvent)
		admin.POST("/videos/:id/verify", videoHandler.VerifyVideo)
		admin.POST("/proposals/:id/execute", daoHandler.ExecuteProposal)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// healthHandler 存储可用时 200，否则 503
func healthHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"chainMode":     d.Chain.Mode(),
			"contentMocked": d.Content.Mocked(),
			"wsClients":     d.Hub.ClientCount(),
		}
		if err := d.Store.Ping(c.Request.Context()); err != nil {
			d.Logger.WithError(err).Warn("存储健康检查失败")
			body["status"] = "unavailable"
			body["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ok"
		c.JSON(http.StatusOK, body)
	}
}
