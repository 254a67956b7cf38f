package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"golang.org/x/time/rate"

	"library-web/internal/apiclient"
	"library-web/internal/config"
	"library-web/internal/handler"
	"library-web/internal/middleware"
	"library-web/internal/session"
	"library-web/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[FATAL] Invalid configuration: %v", err)
	}
	log.Printf("[INFO] Starting library web env=%s", cfg.Env)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := apiclient.New(cfg.APIBase,
		apiclient.WithOrigin(cfg.APIOrigin),
		apiclient.WithTimeout(cfg.APITimeout),
	)
	if err != nil {
		log.Fatalf("[FATAL] Invalid API base: %v", err)
	}
	log.Printf("[INFO] Backend API base=%s", client.Base())

	if len(cfg.SessionKey) == 0 {
		log.Println("[WARN] SESSION_KEY not set, sessions will not survive a restart")
	}
	cookies := session.NewCookieStore(cfg.SessionKey, cfg.Production())
	registry := ui.NewRegistry(cfg.StateTTL)
	go registry.Run(context.Background(), time.Minute)

	r := gin.Default()

	// Only listed proxies may set X-Forwarded-For; by default none are.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("[FATAL] Invalid TRUSTED_PROXIES: %v", err)
	}

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Accept-Language"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	ipLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.AuthRatePerSec), cfg.AuthBurst)
	go ipLimiter.Run(context.Background(), time.Minute, middleware.DefaultLimiterIdle)
	log.Printf("[INFO] Rate limiting enabled rate=%.2f/s burst=%d", cfg.AuthRatePerSec, cfg.AuthBurst)

	srv := handler.NewServer(client, cookies, registry, cfg.ToastTimeout)
	srv.Routes(r, middleware.RateLimitMiddleware(ipLimiter))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           protect(cfg, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[INFO] Server ready port=%s allowed_origins=%v trusted_proxies=%v", cfg.Port, cfg.AllowedOrigins, cfg.TrustedProxies)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}

// protect wraps every form post in CSRF checks. Outside production the
// server runs on plain HTTP, which the CSRF origin checks must be told.
func protect(cfg config.Config, next http.Handler) http.Handler {
	key := cfg.CSRFKey
	if len(key) == 0 {
		log.Println("[WARN] CSRF_KEY not set, generating a random key")
		key = securecookie.GenerateRandomKey(32)
	}

	h := csrf.Protect(key,
		csrf.Secure(cfg.Production()),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)(next)
	if cfg.Production() {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
