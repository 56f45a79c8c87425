package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dramaverse/internal/auth"
	"dramaverse/internal/catalog"
	"dramaverse/internal/feeds"
	"dramaverse/internal/history"
	"dramaverse/internal/importer"
	"dramaverse/internal/live"
	"dramaverse/internal/notify"
	"dramaverse/internal/ops"
	"dramaverse/internal/reviews"
	"dramaverse/internal/social"
	"dramaverse/internal/watchlist"
	"dramaverse/pkg/database"
	"dramaverse/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	srvCfg := utils.LoadServerConfig()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Live event fan-out: raw TCP plus /ws
	hub := live.NewHub()
	router.GET("/ws", live.WSHandler(hub, logger))
	tcpSrv := live.NewServer(srvCfg.TCPAddr, hub, logger)

	// UDP content announcements
	registry := notify.NewRegistry()
	udpSrv := notify.NewServer(srvCfg.UDPAddr, registry, logger)

	// Operational endpoints
	opsHandler := ops.NewHandler(db, dbCfg.Path, hub)
	opsHandler.RegisterPublicRoutes(router)

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokens := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokens)
	authHandler.RegisterRoutes(router.Group("/auth"))

	seedCfg := utils.LoadAdminSeedConfig()
	if err := auth.SeedAdmin(context.Background(), authRepo, seedCfg.Username, seedCfg.Password); err != nil {
		logger.Fatal("admin seed failed", zap.Error(err))
	}

	// Catalog (public)
	catalogRepo := catalog.NewRepo(db)
	catalogHandler := catalog.NewHandler(catalogRepo)
	catalogHandler.RegisterPublicRoutes(router.Group("/content"))
	catalogHandler.RegisterMetaRoutes(router.Group("/meta"))

	// Reviews (public listing)
	reviewRepo := reviews.NewRepo(db)
	reviewHandler := reviews.NewHandler(reviewRepo)
	reviewHandler.RegisterPublicRoutes(router.Group(""))

	// Protected routes
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokens, authRepo))

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
			"is_admin": claims.IsAdmin,
		})
	})

	watchlist.NewHandler(watchlist.NewRepo(db), hub).RegisterRoutes(protected)
	history.NewHandler(history.NewRepo(db)).RegisterRoutes(protected)
	social.NewHandler(social.NewRepo(db), authRepo).RegisterRoutes(protected)
	reviewHandler.RegisterProtectedRoutes(protected)

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokens, authRepo), auth.AdminMiddleware())

	catalogHandler.RegisterAdminRoutes(admin.Group("/content"))
	opsHandler.RegisterAdminRoutes(admin)

	// Bulk import
	jobsRepo := importer.NewJobsRepo(db)
	pipeline := importer.NewPipeline(importer.NewSQLStore(catalogRepo), jobsRepo, logger)
	fetcher := importer.NewFetcher(srvCfg.FetchTimeout)
	importHandler := importer.NewHandler(pipeline, fetcher, jobsRepo, udpSrv, hub, logger)
	importHandler.RegisterAdminRoutes(admin.Group("/import"))

	// Feeds
	feedRepo := feeds.NewRepo(db)
	refresher := feeds.NewRefresher(feedRepo, fetcher, pipeline, jobsRepo, logger)
	feeds.NewHandler(feedRepo, refresher).RegisterAdminRoutes(admin.Group("/feeds"))

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	schedCtx, stopSched := context.WithCancel(context.Background())
	defer stopSched()
	if srvCfg.FeedInterval > 0 {
		go refresher.RunScheduler(schedCtx, srvCfg.FeedInterval)
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := udpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("http api server listening", zap.String("addr", srvCfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("shutting down servers")
	stopSched()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
	if err := tcpSrv.Close(); err != nil {
		logger.Warn("tcp shutdown error", zap.Error(err))
	}
	if err := udpSrv.Close(); err != nil {
		logger.Warn("udp shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("servers stopped")
}
