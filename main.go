package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/iganosaigo/saigo.info-backend/api"
	"github.com/iganosaigo/saigo.info-backend/config"
	"github.com/iganosaigo/saigo.info-backend/constants"
	"github.com/iganosaigo/saigo.info-backend/database"
	"github.com/iganosaigo/saigo.info-backend/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	tokens, err := security.NewTokenIssuer(cfg)
	if err != nil {
		log.Fatalf("Error setting up token issuer: %v", err)
	}

	server := api.NewServer(cfg, database.NewStore(db), tokens)
	r := initRouter(server)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	go func() {
		log.Printf("Running on %s%s%s", cfg.ServerHost, addr, constants.API_PREFIX)
		if err := http.ListenAndServe(addr, r); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	// Block until a signal is received
	<-signals
	log.Println("Shutting down gracefully...")

	database.Close(db)
}

func initRouter(server *api.Server) *chi.Mux {
	r := chi.NewRouter()

	CORSMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(CORSMiddleware.Handler)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(httprate.LimitByIP(100, time.Minute)) // general rate limiter for all routes (shared across all routes)
	r.Use(middleware.Recoverer)

	r.Mount(constants.API_PREFIX, server.Routes())

	return r
}
