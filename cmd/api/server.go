package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	mw "github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/api/router"
	"github.com/shelfswap/marketplace-api/internal/maintenance"
	"github.com/shelfswap/marketplace-api/internal/metrics/viewqueue"
	"github.com/shelfswap/marketplace-api/internal/repository/sqlconnect"
	"github.com/shelfswap/marketplace-api/internal/storage/s3"
	"github.com/shelfswap/marketplace-api/internal/validate"
)

func main() {
	_ = godotenv.Load()

	if err := validate.Env(); err != nil {
		log.Fatalf("bad configuration: %v", err)
	}
	for _, warn := range validate.HardeningWarnings(os.Getenv("APP_ENV")) {
		log.Printf("[config] %s", warn)
	}

	db, err := sqlconnect.ConnectDB()
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}
	defer db.Close()

	rdb := newRedis()
	if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Println("[startup] connected to Postgres and Redis")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cover storage is optional; listings work without images.
	var s3c *s3.Client
	if os.Getenv("AWS_BUCKET") != "" {
		s3c, err = s3.New(ctx)
		if err != nil {
			log.Fatalf("S3 init failed: %v", err)
		}
	}

	viewqueue.Start(db, 10000, 2)
	defer viewqueue.Shutdown()
	maintenance.StartStaleCartSweep(ctx, db, envInt("CART_SWEEP_DAYS", 30), "03:00", "UTC")

	tb := mw.NewRedisTokenBucket(rdb, 5, 20, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, 3000, 60*time.Minute, mw.PerIPKey("sw"))

	hppOptions := mw.HPPOptions{
		CheckQuery:                  true,
		CheckBody:                   true,
		CheckBodyOnlyForContentType: "application/x-www-form-urlencoded",
		Whitelist: []string{
			// General / shared
			"id", "user_id", "book_id", "page", "limit", "offset", "search",

			// Catalog
			"title", "author", "isbn", "genre", "type", "sort",

			// Orders & reviews
			"order_id", "status", "rating",

			// Accounts
			"username", "email", "query", "role", "size",
		},
	}

	handler := applyMiddleware(
		router.Router(db, rdb, s3c),
		mw.Cors,
		mw.ResponseTimeMiddleware,
		mw.HPP(hppOptions),
		tb.Middleware,
		sw.Middleware,
		mw.Compression,
		mw.SecurityHeaders,
		mw.BodySizeLimit,
		mw.RequestID,
		mw.Recovery,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shCtx)
	}()

	log.Println("[startup] listening on :" + port)
	cert, key := os.Getenv("TLS_CERT"), os.Getenv("TLS_KEY")
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		log.Fatalln("Error starting server:", err)
	}
}

// applyMiddleware wraps h so the first middleware listed runs first.
func applyMiddleware(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func newRedis() *redis.Client {
	if url := os.Getenv("UPSTASH_REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url) // e.g. rediss://default:<token>@host:port
		if err != nil {
			log.Fatalf("invalid UPSTASH_REDIS_URL: %v", err)
		}
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt)
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	opts := &redis.Options{
		Addr:         addr,
		Username:     os.Getenv("REDIS_USER"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if opts.Password != "" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
