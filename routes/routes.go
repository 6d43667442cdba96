package routes

import (
	"net/http"

	"card_game_server/controllers"
	"card_game_server/middleware"
	"card_game_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Options holds everything the router needs. ImageService is optional.
type Options struct {
	CardService    *services.CardService
	ImageService   *services.CardImageService
	Backend        string
	AllowedOrigins []string
}

// NewRouter builds the full handler chain: CORS, request logging, then routes
func NewRouter(opts Options) http.Handler {
	r := mux.NewRouter()

	RegisterRoutes(r, opts.CardService, opts.Backend)
	RegisterCardRoutes(r, opts.CardService)
	if opts.ImageService != nil {
		RegisterS3Routes(r, opts.ImageService)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	return corsHandler.Handler(middleware.WithLogging(r))
}

// RegisterRoutes sets up the top-level routes for the application
func RegisterRoutes(r *mux.Router, cardService *services.CardService, backend string) {
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler(cardService, backend)).Methods("GET")
}
