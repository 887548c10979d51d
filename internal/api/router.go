package api

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/baykus/baykus/internal/auth"
	"github.com/baykus/baykus/internal/config"
	"github.com/baykus/baykus/internal/connectors"
	"github.com/baykus/baykus/internal/database"
	"github.com/baykus/baykus/internal/enrichment"
)

// Repositories bundles the database repositories the API serves.
type Repositories struct {
	Connectors    *database.ConnectorRepository
	Credentials   *database.CredentialRepository
	Requests      *database.RequestRepository
	Targets       *database.TargetRepository
	Assets        *database.AssetRepository
	Relationships *database.RelationshipRepository
	Alerts        *database.AlertRepository
	Reports       *database.ReportRepository
}

func preflight(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusOK)
}

// SetupRoutes configures all API routes.
func SetupRoutes(mux *http.ServeMux, repos Repositories, service *connectors.Service, summarizer enrichment.Summarizer, authConfig config.AuthConfig, logger *slog.Logger) {
	connectorHandler := NewConnectorHandler(repos.Connectors, repos.Requests, service, logger)
	credentialHandler := NewCredentialHandler(repos.Credentials, logger)
	targetHandler := NewTargetHandler(repos.Targets, repos.Assets, logger)
	assetHandler := NewAssetHandler(repos.Assets, repos.Relationships, logger)
	alertHandler := NewAlertHandler(repos.Alerts, logger)
	reportHandler := NewReportHandler(repos.Reports, repos.Targets, repos.Assets, summarizer, logger)
	authHandler := NewAuthHandler(authConfig, logger)

	authMiddleware := auth.Middleware(authConfig)

	// Authentication routes (login is public)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "GET, OPTIONS")
			return
		}
		authMiddleware(http.HandlerFunc(authHandler.ValidateToken)).ServeHTTP(w, r)
	})

	// Connector collection routes
	mux.HandleFunc("/api/connectors", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "GET, POST, OPTIONS")
			return
		}
		switch r.Method {
		case http.MethodGet:
			connectorHandler.List(w, r)
		case http.MethodPost:
			authMiddleware(http.HandlerFunc(connectorHandler.Create)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/connectors/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/connectors/" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodOptions {
			preflight(w, "GET, POST, PUT, DELETE, OPTIONS")
			return
		}

		// Operations that spend upstream quota require auth.
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/test") {
			authMiddleware(http.HandlerFunc(connectorHandler.Test)).ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/search") {
			authMiddleware(http.HandlerFunc(connectorHandler.Search)).ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/requests") {
			connectorHandler.Requests(w, r)
			return
		}

		// Credential subroutes (always authenticated)
		if strings.HasSuffix(r.URL.Path, "/keys") {
			authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					credentialHandler.ListAPIKeys(w, r)
				case http.MethodPost:
					credentialHandler.CreateAPIKey(w, r)
				default:
					http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				}
			})).ServeHTTP(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/credentials") {
			authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					credentialHandler.ListAuthCredentials(w, r)
				case http.MethodPost:
					credentialHandler.CreateAuthCredential(w, r)
				default:
					http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				}
			})).ServeHTTP(w, r)
			return
		}

		// Handle /api/connectors/:id
		switch r.Method {
		case http.MethodGet:
			connectorHandler.Get(w, r)
		case http.MethodPut:
			authMiddleware(http.HandlerFunc(connectorHandler.Update)).ServeHTTP(w, r)
		case http.MethodDelete:
			authMiddleware(http.HandlerFunc(connectorHandler.Delete)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Standalone credential routes
	mux.HandleFunc("/api/keys/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "PUT, DELETE, OPTIONS")
			return
		}
		authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				credentialHandler.UpdateAPIKey(w, r)
			case http.MethodDelete:
				credentialHandler.DeleteAPIKey(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})).ServeHTTP(w, r)
	})

	mux.HandleFunc("/api/credentials/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "DELETE, OPTIONS")
			return
		}
		authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			credentialHandler.DeleteAuthCredential(w, r)
		})).ServeHTTP(w, r)
	})

	// Raw request execution
	mux.HandleFunc("/api/requests/execute", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "POST, OPTIONS")
			return
		}
		authMiddleware(http.HandlerFunc(connectorHandler.Execute)).ServeHTTP(w, r)
	})

	// Target routes
	mux.HandleFunc("/api/targets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "GET, POST, OPTIONS")
			return
		}
		switch r.Method {
		case http.MethodGet:
			targetHandler.List(w, r)
		case http.MethodPost:
			authMiddleware(http.HandlerFunc(targetHandler.Create)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/targets/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/targets/" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodOptions {
			preflight(w, "GET, POST, PUT, DELETE, OPTIONS")
			return
		}

		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/assets") {
			targetHandler.Assets(w, r)
			return
		}
		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/alerts") {
			alertHandler.ListByTarget(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/reports") {
			switch r.Method {
			case http.MethodGet:
				reportHandler.ListByTarget(w, r)
			case http.MethodPost:
				authMiddleware(http.HandlerFunc(reportHandler.Generate)).ServeHTTP(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		// Handle /api/targets/:id
		switch r.Method {
		case http.MethodGet:
			targetHandler.Get(w, r)
		case http.MethodPut:
			authMiddleware(http.HandlerFunc(targetHandler.Update)).ServeHTTP(w, r)
		case http.MethodDelete:
			authMiddleware(http.HandlerFunc(targetHandler.Delete)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Asset routes
	mux.HandleFunc("/api/assets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "POST, OPTIONS")
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authMiddleware(http.HandlerFunc(assetHandler.Create)).ServeHTTP(w, r)
	})

	mux.HandleFunc("/api/assets/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/assets/" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodOptions {
			preflight(w, "GET, PUT, DELETE, OPTIONS")
			return
		}

		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/relationships") {
			assetHandler.Relationships(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			assetHandler.Get(w, r)
		case http.MethodPut:
			authMiddleware(http.HandlerFunc(assetHandler.Update)).ServeHTTP(w, r)
		case http.MethodDelete:
			authMiddleware(http.HandlerFunc(assetHandler.Delete)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Relationship routes
	mux.HandleFunc("/api/relationships", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "POST, OPTIONS")
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authMiddleware(http.HandlerFunc(assetHandler.CreateRelationship)).ServeHTTP(w, r)
	})

	mux.HandleFunc("/api/relationships/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "DELETE, OPTIONS")
			return
		}
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authMiddleware(http.HandlerFunc(assetHandler.DeleteRelationship)).ServeHTTP(w, r)
	})

	// Alert routes
	mux.HandleFunc("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "POST, OPTIONS")
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authMiddleware(http.HandlerFunc(alertHandler.Create)).ServeHTTP(w, r)
	})

	mux.HandleFunc("/api/alerts/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/alerts/" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodOptions {
			preflight(w, "GET, POST, DELETE, OPTIONS")
			return
		}

		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/acknowledge") {
			authMiddleware(http.HandlerFunc(alertHandler.Acknowledge)).ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/resolve") {
			authMiddleware(http.HandlerFunc(alertHandler.Resolve)).ServeHTTP(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			alertHandler.Get(w, r)
		case http.MethodDelete:
			authMiddleware(http.HandlerFunc(alertHandler.Delete)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Report routes
	mux.HandleFunc("/api/reports/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			preflight(w, "GET, OPTIONS")
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		reportHandler.Get(w, r)
	})
}
