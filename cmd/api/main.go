package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"boostpay/internal/dispatch"
	"boostpay/internal/payments"
	"boostpay/internal/ratelimiter"
	"boostpay/internal/sessions"
	"boostpay/internal/tiers"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		// PayHero credentials are optional, so a missing .env just means
		// the process environment is the only source.
		log.Println("no .env file found, reading configuration from environment")
	}

	channelID := 0
	if val := os.Getenv("PAYHERO_CHANNEL_ID"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid value for PAYHERO_CHANNEL_ID: %v", err)
		}
		channelID = parsed
	}

	simLatency := payments.DefaultSimulatedLatency
	if val := os.Getenv("SIMULATED_LATENCY"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			log.Fatalf("Invalid value for SIMULATED_LATENCY: %v", err)
		}
		simLatency = parsed
	}

	baseURL := os.Getenv("PAYHERO_BASE_URL")
	cfg := config{
		addr: os.Getenv("ADDR"),
		env:  os.Getenv("ENV"),
		payhero: payHeroConfig{
			basicAuthToken: os.Getenv("PAYHERO_BASIC_AUTH_TOKEN"),
			channelID:      channelID,
			baseURL:        baseURL,
			callbackURL:    os.Getenv("PAYHERO_CALLBACK_URL"),
		},
		simLatency: simLatency,
		auth: basicConfig{
			user: os.Getenv("AUTH_BASIC_USER"),
			pass: os.Getenv("AUTH_BASIC_PASS"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Gateway selection happens exactly once, here. Missing credentials are
	// the switch to simulated mode; there is no explicit mock flag.
	var gateway payments.PaymentGateway
	if cfg.payhero.live() {
		adapter := payments.NewPayHeroAdapter(cfg.payhero.basicAuthToken, cfg.payhero.channelID, cfg.payhero.callbackURL)
		if cfg.payhero.baseURL != "" {
			adapter = adapter.WithBaseURL(cfg.payhero.baseURL)
		}
		gateway = adapter
		logger.Infow("live PayHero gateway configured", "channel_id", cfg.payhero.channelID)
	} else {
		gateway = payments.NewSimulatedAdapter(cfg.simLatency)
		logger.Infow("PayHero credentials missing, using simulated gateway", "latency", cfg.simLatency.String())
	}

	dispatcher := dispatch.New(gateway, logger)

	sessionStore := sessions.NewStore()

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		dispatcher:  dispatcher,
		sessions:    sessionStore,
		catalog:     tiers.Catalog,
		rateLimiter: rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("sessions", expvar.Func(func() any {
		return sessionStore.Len()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
