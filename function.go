package function

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"event-discovery/internal/config"
	"event-discovery/internal/logging"
	"event-discovery/internal/repository"
	"event-discovery/internal/service"
	"event-discovery/internal/transport"

	firebase "firebase.google.com/go/v4"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	_ "event-discovery/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Event Discovery API
// @version 1.0
// @description Discover, publish and review events.

// @host 127.0.0.1:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func init() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration", err)
	}

	logger, _, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fatal("failed to set up logging", err)
	}
	slog.SetDefault(logger)

	// Date labels carry no zone; "today" and the calendar buckets are
	// computed in the configured one.
	loc, _ := cfg.Location()
	clock := service.Clock(func() time.Time { return time.Now().In(loc) })

	// 1. Initialize the store
	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.ProjectID, cfg.FirestoreDatabase, cfg.SQLitePath)
	if err != nil {
		fatal("failed to open store", err, "driver", cfg.StoreDriver)
	}

	// 2. Initialize Firebase Auth
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID})
	if err != nil {
		fatal("error initializing firebase app", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		fatal("error getting auth client", err)
	}

	// 3. Initialize Domain Layers
	events := store.Events()
	reviews := store.Reviews()

	eventSvc := service.NewEventService(events, clock)
	reviewSvc := service.NewReviewService(reviews, events, clock)
	userEventSvc := service.NewUserEventService(store.Relations(), events, reviews, clock)

	router := transport.NewRouter(eventSvc, reviewSvc, userEventSvc)

	// Middleware Chain:
	// CORS -> Security Headers -> Request Log -> Auth -> Compression -> Router
	handler := transport.WithCompression(router)
	handler = transport.WithAuthProtection(handler, authClient, cfg.PublicRead)
	handler = transport.WithRequestLogging(handler, logger)
	handler = transport.WithSecurityHeaders(handler, cfg.IsProduction())
	handler = transport.WithCORS(handler, cfg.CORSAllowedOrigin)

	swagger := httpSwagger.Handler(httpSwagger.DeepLinking(false))

	logger.Info("event function ready",
		"driver", cfg.StoreDriver,
		"timezone", loc.String(),
		"public_read", cfg.PublicRead,
	)

	// 4. Register Function
	functions.HTTP("EventFunction", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/swagger/") {
			swagger(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func fatal(msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
	os.Exit(1)
}
