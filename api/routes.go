package api

import (
	"github.com/gorilla/mux"
	"github.com/twinhire/server/internal/config"
	"github.com/twinhire/server/internal/db"
	"github.com/twinhire/server/internal/interview"
	"github.com/twinhire/server/internal/profile"
	"github.com/twinhire/server/internal/repository/sqlite"
	"github.com/twinhire/server/internal/resume"
	"github.com/twinhire/server/pkg/blob"
)

// Deps carries the external collaborators the handlers need beyond the store.
type Deps struct {
	Engine     interview.Extractor
	BlobStore  blob.Store
	Transcoder interview.Transcoder
}

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database)

	// Services
	aggregator := profile.NewService(repo, repo, repo, repo, repo, repo, logger)
	ingest := resume.NewService(repo, repo, repo, repo, repo, logger)
	processor := interview.NewProcessor(repo, repo, deps.Engine, deps.BlobStore, deps.Transcoder, cfg.Engine, logger)

	// Handlers
	systemHandler := &SystemHandler{}
	candidatesHandler := NewCandidatesHandler(repo, aggregator, ingest)
	interviewsHandler := NewInterviewsHandler(repo, repo, processor)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// API v1 protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	apiV1.HandleFunc("/candidates", candidatesHandler.CreateCandidate).Methods("POST")
	apiV1.HandleFunc("/candidates/{id}/profile", candidatesHandler.GetProfile).Methods("GET")
	apiV1.HandleFunc("/candidates/{id}/facts", candidatesHandler.GetFacts).Methods("GET")
	apiV1.HandleFunc("/candidates/{id}/resume", candidatesHandler.ApplyResume).Methods("POST")

	apiV1.HandleFunc("/interviews", interviewsHandler.CreateSession).Methods("POST")
	apiV1.HandleFunc("/interviews/{id}", interviewsHandler.GetSession).Methods("GET")
	apiV1.HandleFunc("/interviews/{id}/complete", interviewsHandler.Complete).Methods("POST")

	return r
}
