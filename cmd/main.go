package main

import (
	"net/http"
	"os"

	"github.com/farmops/equiptrack/internal/auth"
	"github.com/farmops/equiptrack/internal/db"
	"github.com/farmops/equiptrack/internal/handlers"
	"github.com/farmops/equiptrack/internal/ingest"
	"github.com/farmops/equiptrack/internal/middleware"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log.SetFormatter(&log.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "equiptrack"
	}
	collections := db.NewCollections(client.Database(dbName))

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}
	authMW := middleware.NewAuthMiddleware(authService)
	rateMW := middleware.NewRateLimitMiddleware()

	authHandler := handlers.NewAuthHandler(authService, collections.Users)
	equipmentHandler := handlers.NewEquipmentHandler(collections.Equipment, collections.Schedules)
	templateHandler := handlers.NewTemplateHandler(collections.Templates)
	scheduleHandler := handlers.NewScheduleHandler(collections.Schedules, collections.Equipment, collections.Templates)
	issueHandler := handlers.NewIssueHandler(collections.Issues, collections.Equipment)
	dashboardHandler := handlers.NewDashboardHandler(collections.Equipment, collections.Schedules, collections.Issues)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/me", authHandler.GetProfile)
	mux.HandleFunc("POST /api/auth/password", authHandler.ChangePassword)

	perm := func(action string, h http.HandlerFunc) http.Handler {
		return authMW.RequirePermission(action)(h)
	}

	mux.Handle("POST /api/equipment", perm("manage_equipment", equipmentHandler.Create))
	mux.Handle("GET /api/equipment", perm("view_equipment", equipmentHandler.List))
	mux.Handle("GET /api/equipment/{id}", perm("view_equipment", equipmentHandler.Get))
	mux.Handle("PUT /api/equipment/{id}", perm("manage_equipment", equipmentHandler.Update))
	mux.Handle("DELETE /api/equipment/{id}", perm("manage_equipment", equipmentHandler.Delete))

	mux.Handle("POST /api/templates", perm("manage_templates", templateHandler.Create))
	mux.Handle("GET /api/templates", perm("view_templates", templateHandler.List))
	mux.Handle("GET /api/templates/{id}", perm("view_templates", templateHandler.Get))
	mux.Handle("PUT /api/templates/{id}", perm("manage_templates", templateHandler.Update))
	mux.Handle("DELETE /api/templates/{id}", perm("manage_templates", templateHandler.Delete))

	mux.Handle("POST /api/schedules", perm("manage_schedules", scheduleHandler.Create))
	mux.Handle("POST /api/equipment/{id}/schedules", perm("manage_schedules", scheduleHandler.ApplyTemplate))
	mux.Handle("GET /api/schedules", perm("view_schedules", scheduleHandler.List))
	mux.Handle("GET /api/schedules/{id}", perm("view_schedules", scheduleHandler.Get))
	mux.Handle("PUT /api/schedules/{id}", perm("manage_schedules", scheduleHandler.Update))
	mux.Handle("POST /api/schedules/{id}/complete", perm("complete_schedule", scheduleHandler.Complete))
	mux.Handle("DELETE /api/schedules/{id}", perm("manage_schedules", scheduleHandler.Delete))

	mux.Handle("POST /api/issues", perm("create_issue", issueHandler.Create))
	mux.Handle("GET /api/issues", perm("view_issues", issueHandler.List))
	mux.Handle("GET /api/issues/{id}", perm("view_issues", issueHandler.Get))
	mux.Handle("PUT /api/issues/{id}", perm("update_issue", issueHandler.Update))
	mux.Handle("POST /api/issues/{id}/resolve", perm("resolve_issue", issueHandler.Resolve))
	mux.Handle("DELETE /api/issues/{id}", perm("manage_issues", issueHandler.Delete))

	mux.Handle("GET /api/dashboard", perm("view_dashboard", dashboardHandler.Summary))

	handler := rateMW.RateLimit(120, 60)(middleware.RequestLogger(authMW.Authenticate(mux)))

	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		listener := ingest.NewListener(broker, "equiptrack-api", collections.Issues, collections.Equipment)
		if err := listener.Start(); err != nil {
			log.WithError(err).Fatal("failed to start mqtt ingest")
		}
		defer listener.Stop()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("http server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
