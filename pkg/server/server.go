package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-docmigrate/pkg/api"
	"github.com/adfharrison1/go-docmigrate/pkg/migrate"
	"github.com/adfharrison1/go-docmigrate/pkg/storage"
)

// Server wires the storage engine, the schema registry and the HTTP API.
// Schemas are registered before Start; collections without a schema are
// served as-is, without migration.
type Server struct {
	router   *mux.Router
	dbEngine *storage.StorageEngine
	schemas  map[string]*migrate.Schema
}

// NewServer creates a new instance of Server.
func NewServer(storageOptions ...storage.StorageOption) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		dbEngine: storage.NewStorageEngine(storageOptions...),
		schemas:  make(map[string]*migrate.Schema),
	}

	// Use the logging middleware for all routes
	s.router.Use(requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return s
}

// RegisterSchema binds a migration schema to a collection. Reads from that
// collection will migrate documents lazily from then on. Must be called
// before Routes.
func (s *Server) RegisterSchema(collName string, schema *migrate.Schema) {
	s.schemas[collName] = schema
	log.Printf("INFO: Registered schema for collection '%s' (current version %d)", collName, schema.SchemaVersion())
}

// Routes builds the HTTP routes and returns the router. Call after all
// schemas are registered.
func (s *Server) Routes() http.Handler {
	handler := api.NewHandler(s.dbEngine, s.schemas)
	handler.RegisterRoutes(s.router)
	return s.router
}

// Storage exposes the underlying storage engine.
func (s *Server) Storage() *storage.StorageEngine {
	return s.dbEngine
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// InitDB loads data from a file, if it exists.
func (s *Server) InitDB(filename string) {
	if err := s.dbEngine.LoadFromFile(filename); err != nil {
		log.Printf("ERROR: Could not load DB from file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Loaded DB from file %s successfully", filename)
	}
}

// SaveDB saves the current database state to file
func (s *Server) SaveDB(filename string) {
	if err := s.dbEngine.SaveToFile(filename); err != nil {
		log.Printf("ERROR: Could not save DB to file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Saved DB to file %s successfully", filename)
	}
}
