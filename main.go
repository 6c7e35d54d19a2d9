package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carvewood-storefront/cart"
	"carvewood-storefront/cms"
	"carvewood-storefront/config"
	"carvewood-storefront/routes"
	"carvewood-storefront/session"
	"carvewood-storefront/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("Environment validation failed: ", err)
	}

	// Pick the persistence backend: PostgreSQL when DATABASE_URL is set,
	// otherwise a local JSON data file.
	var port storage.Port
	var dbStore *storage.DB
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := storage.OpenDB(dsn)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		dbStore = db
		port = db
	} else {
		path := config.GetEnv("STORE_PATH", "data/storefront.json")
		file, err := storage.OpenFile(path)
		if err != nil {
			log.Fatal("Failed to open data file:", err)
		}
		port = file
	}

	cmsClient := cms.NewClient(os.Getenv("CMS_BASE_URL"))
	carts := cart.NewManager(port)
	sessions := session.NewStore(port)

	// Setup Gin router
	r := gin.Default()

	// CORS configuration - filter out empty strings from AllowOrigins
	origins := []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")}
	var filteredOrigins []string
	for _, o := range origins {
		if o != "" {
			filteredOrigins = append(filteredOrigins, o)
		}
	}
	if len(filteredOrigins) == 0 {
		filteredOrigins = []string{"http://localhost:3000"}
		log.Println("WARNING: No CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     filteredOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, cmsClient, carts, sessions, config.AdminEmails())

	// Start server with graceful shutdown
	listenPort := config.GetEnv("PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + listenPort,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", listenPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if dbStore != nil {
		if err := dbStore.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}

	log.Println("Server exited gracefully")
}
