package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/PJH6029/waffle-assignment-2/internal/config"
	"github.com/PJH6029/waffle-assignment-2/internal/database"
	"github.com/PJH6029/waffle-assignment-2/internal/handler"
	"github.com/PJH6029/waffle-assignment-2/internal/middleware"
	"github.com/PJH6029/waffle-assignment-2/internal/queue"
	"github.com/PJH6029/waffle-assignment-2/internal/repository"
	"github.com/PJH6029/waffle-assignment-2/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the response cache. Both fail
	// open when it is unavailable, so a nil client only disables them.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	seminars := repository.NewSeminarRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	userHandler := handler.NewUserHandler(users, enrollments)
	seminarHandler := handler.NewSeminarHandler(seminars, enrollments)
	enrollmentHandler := handler.NewEnrollmentHandler(users, seminars, enrollments)

	e := echo.New()
	e.HideBanner = true

	rlCfg := config.LoadRateLimitConfig()
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	var cacheMW echo.MiddlewareFunc
	cacheCfg := config.LoadCacheConfig()
	if cacheCfg.Enabled && rdb != nil {
		cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, userHandler, cfg.JWTSecret)
	router.RegisterSeminar(e, seminarHandler, enrollmentHandler, cfg.JWTSecret, cacheMW)

	// Background consumer writes enrollment events to logs/enrollment.log.
	// It reconnects on broker failures and never takes the API down.
	go func() {
		if err := queue.StartEnrollmentConsumer(); err != nil {
			log.Printf("enrollment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
