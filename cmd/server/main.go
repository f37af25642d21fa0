package main

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/openheartlab/openheart-backend/internal/config"
	"github.com/openheartlab/openheart-backend/internal/database"
	"github.com/openheartlab/openheart-backend/internal/handlers"
	"github.com/openheartlab/openheart-backend/internal/middleware"
	"github.com/openheartlab/openheart-backend/internal/models"
	"github.com/openheartlab/openheart-backend/internal/routes"
	"github.com/openheartlab/openheart-backend/internal/services"
	"github.com/openheartlab/openheart-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Select the storage backend. Explicit configuration only: "file" keeps
	// everything in per-collection JSON snapshots, "mongo" talks to MongoDB.
	var entryStore store.Store[models.Entry]
	var ventStore store.Store[models.Vent]

	switch cfg.StoreBackend {
	case "file":
		entries, err := store.NewFileStore[models.Entry](filepath.Join(cfg.DataDir, "entries.json"))
		if err != nil {
			log.Fatal("Failed to open entries store:", err)
		}
		defer entries.Close()
		vents, err := store.NewFileStore[models.Vent](filepath.Join(cfg.DataDir, "vents.json"))
		if err != nil {
			log.Fatal("Failed to open vents store:", err)
		}
		defer vents.Close()
		entryStore, ventStore = entries, vents
		log.Printf("✅ File store ready (data dir: %s)", cfg.DataDir)

	case "mongo":
		log.Printf("Connecting to MongoDB...")
		if err := database.ConnectMongo(cfg.MongoURI); err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.DisconnectMongo()
		entryStore = store.NewMongoStore[models.Entry](database.DB, "entries")
		ventStore = store.NewMongoStore[models.Vent](database.DB, "vents")

	default:
		log.Fatalf("Unknown STORE_BACKEND %q (want \"file\" or \"mongo\")", cfg.StoreBackend)
	}

	// Redis is optional: without it the stats cache and rate limiter are off.
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("⚠️  WARNING: failed to connect to Redis: %v", err)
			log.Println("   Stats caching and rate limiting are disabled.")
		}
		defer database.DisconnectRedis()
	}

	classifier := services.NewAIClassifier(cfg)
	if classifier.Configured() {
		log.Println("✅ AI classification configured")
	} else {
		log.Println("⚠️  WARNING: no AI provider configured. New documents without a label get the default (Calm, 0.0).")
	}

	entryHandler := handlers.NewEntryHandler(entryStore, classifier)
	ventHandler := handlers.NewVentHandler(ventStore, classifier)
	healthHandler := &handlers.HealthHandler{Classifier: classifier}

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit)

	// Health check (kept outside /api for load balancers)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, entryHandler, ventHandler, healthHandler)

	log.Printf("🚀 OpenHeart backend running on :%s (backend: %s)", cfg.Port, cfg.StoreBackend)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
