package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/retoapp/socia-service/internal/config"
	"github.com/retoapp/socia-service/internal/handler"
	"github.com/retoapp/socia-service/internal/integrations/catalog"
	"github.com/retoapp/socia-service/internal/middleware"
	"github.com/retoapp/socia-service/internal/repository"
	"github.com/retoapp/socia-service/internal/scheduler"
	"github.com/retoapp/socia-service/internal/service"
	"github.com/retoapp/socia-service/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	catalogClient := catalog.NewClient(cfg, logger)
	svc := service.NewService(repo, logger, cfg, catalogClient)
	h := handler.NewHandler(svc)

	// Cobranza reminder job
	sender := email.NewSender(cfg, logger)
	sched := scheduler.New(logger)
	reminder := scheduler.NewReminderJob(repo, sender, logger)
	if err := sched.AddJob(cfg.ReminderSchedule, reminder); err != nil {
		logger.Fatalf("Failed to schedule reminder job: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/profile", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/profile", h.UpdateProfile).Methods("PUT")
	authRouter.HandleFunc("/clients", h.CreateClient).Methods("POST")
	authRouter.HandleFunc("/clients", h.ListClients).Methods("GET")
	authRouter.HandleFunc("/clients/due-soon", h.DueSoonClients).Methods("GET")
	authRouter.HandleFunc("/clients/{id:[0-9]+}", h.GetClient).Methods("GET")
	authRouter.HandleFunc("/clients/{id:[0-9]+}", h.UpdateClient).Methods("PUT")
	authRouter.HandleFunc("/clients/{id:[0-9]+}", h.DeleteClient).Methods("DELETE")
	authRouter.HandleFunc("/clients/{id:[0-9]+}/purchases", h.ListClientPurchases).Methods("GET")
	authRouter.HandleFunc("/clients/{id:[0-9]+}/cycle", h.ClientCycle).Methods("GET")
	authRouter.HandleFunc("/purchases", h.CreatePurchase).Methods("POST")
	authRouter.HandleFunc("/purchases", h.ListPurchases).Methods("GET")
	authRouter.HandleFunc("/purchases/{id:[0-9]+}/payments", h.RecordCreditPayment).Methods("POST")
	authRouter.HandleFunc("/cobranza", h.ListCobranza).Methods("GET")
	authRouter.HandleFunc("/goal", h.UpsertGoal).Methods("PUT")
	authRouter.HandleFunc("/goal/progress", h.GoalProgress).Methods("GET")
	authRouter.HandleFunc("/simulator", h.Simulate).Methods("POST")
	authRouter.HandleFunc("/products", h.CreateProduct).Methods("POST")
	authRouter.HandleFunc("/products", h.ListProducts).Methods("GET")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.UpdateProduct).Methods("PUT")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.DeleteProduct).Methods("DELETE")
	authRouter.HandleFunc("/catalog/import", h.ImportCatalog).Methods("POST")
	authRouter.HandleFunc("/snapshots", h.SaveSnapshot).Methods("PUT")
	authRouter.HandleFunc("/snapshots", h.ListSnapshots).Methods("GET")
	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
