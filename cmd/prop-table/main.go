package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/config"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/consumer"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/db"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/edges"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/hub"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/oddscache"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/providers/oddsfeed"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/providers/stats"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/schedule"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/table"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/viewstate"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("=== Fortuna Prop Table v0 ===")

	cfg := config.LoadConfig()

	// Context for background goroutines (hub, consumer, ws pumps)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis (schedule, edge stream, view state)
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		fmt.Printf("❌ Failed to parse Redis URL: %v\n", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	// Connect to Holocron DB (saved filters, opportunity actions)
	holocron, err := db.NewHolocronDB(cfg.HolocronDSN)
	if err != nil {
		fmt.Printf("❌ Failed to connect to Holocron: %v\n", err)
		os.Exit(1)
	}
	defer holocron.Close()
	fmt.Println("✓ Connected to Holocron DB")

	// Table engine: stats provider + odds cache + controller
	statsClient := stats.NewClient(cfg.Providers.StatsURL)
	oddsClient := oddsfeed.NewClient(cfg.Providers.OddsURL)
	oddsCache := oddscache.New(oddsClient)
	controller := table.NewController(statsClient, oddsCache)
	defer controller.Stop()

	// Schedule sidebar + view-state persistence
	scheduleReader := schedule.NewReader(redisClient, cfg.SportKey)
	keeper := viewstate.NewKeeper(viewstate.NewRedisStore(redisClient, 24*time.Hour))
	defer keeper.Stop()

	// Edge board fed by the live stream, pushed out over WebSocket
	board := edges.NewBoard()
	h := hub.NewHub()
	go h.Run(ctx)

	streamConsumer := consumer.NewStreamConsumer(redisClient, cfg.Stream.ConsumerID, cfg.Stream.ConsumerGroup)
	go consumeEdgeStream(ctx, streamConsumer, cfg.Stream.EdgeStream, board, h)

	handler := handlers.NewHandler(ctx, controller, board, keeper, holocron, scheduleReader, h, cfg.Markets)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)
	r.Get("/ws", handler.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/proptable", handler.GetPropTable)
		r.Post("/proptable/more", handler.LoadMorePropTable)

		r.Get("/games/today", handler.GetTodaysGames)

		r.Get("/edges", handler.GetEdges)
		r.Post("/edges/{id}/actions", handler.CreateEdgeAction)

		r.Get("/filters", handler.GetSavedFilters)
		r.Post("/filters", handler.CreateSavedFilter)

		r.Get("/viewstate/{session}", handler.GetViewState)
		r.Put("/viewstate/{session}", handler.PutViewState)
		r.Delete("/viewstate/{session}", handler.DeleteViewState)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Prop Table listening on %s\n", cfg.Server.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}

// consumeEdgeStream applies live edge events to the board and pushes a fresh
// reconciled snapshot to connected clients after each batch.
func consumeEdgeStream(ctx context.Context, sc *consumer.StreamConsumer, streamKey string, board *edges.Board, h *hub.Hub) {
	messages, errors := sc.ConsumeStream(ctx, streamKey)
	fmt.Printf("✓ Consuming edge stream: %s\n", streamKey)

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-messages:
			if !ok {
				return
			}
			board.Apply(msg.Event)
			if err := sc.AckMessage(ctx, msg.StreamKey, msg.ID); err != nil {
				fmt.Printf("⚠️  failed to ack message %s: %v\n", msg.ID, err)
			}

			h.Broadcast(board.Snapshot())
			board.ClearMarkers()

		case err, ok := <-errors:
			if !ok {
				return
			}
			fmt.Printf("⚠️  edge stream error: %v\n", err)
		}
	}
}
