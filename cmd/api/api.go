package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boostpay/internal/dispatch"
	"boostpay/internal/ratelimiter"
	"boostpay/internal/sessions"
	"boostpay/internal/tiers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config      config
	logger      *zap.SugaredLogger
	dispatcher  *dispatch.Dispatcher
	sessions    *sessions.Store
	catalog     []tiers.TierOption
	rateLimiter *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr        string
	env         string
	payhero     payHeroConfig
	simLatency  time.Duration
	auth        basicConfig
	rateLimiter ratelimiter.Config
}

type payHeroConfig struct {
	basicAuthToken string
	channelID      int
	baseURL        string
	callbackURL    string
}

// live reports whether provider credentials are configured. Their absence is
// the sole switch to the simulated gateway.
func (c payHeroConfig) live() bool {
	return c.basicAuthToken != "" && c.channelID != 0
}

type basicConfig struct {
	user string
	pass string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Get("/tiers", app.listTiersHandler)

		r.With(app.RateLimiterMiddleware).Post("/payments/push", app.initiatePushHandler)

		r.Route("/flow", func(r chi.Router) {
			r.Post("/", app.createFlowHandler)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", app.getFlowHandler)
				r.Post("/select", app.selectTierHandler)
				r.Post("/details", app.enterDetailsHandler)
				r.Post("/submit", app.submitFlowHandler)
				r.Post("/confirm", app.confirmFlowHandler)
				r.Post("/cancel", app.cancelFlowHandler)
				r.Post("/reset", app.resetFlowHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
