package controllers

import (
	"net/http"

	"card_game_server/helpers"
	"card_game_server/models"
	"card_game_server/services"
	"card_game_server/utils/logger"
)

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Welcome to the card game API!"})
}

// HealthCheckHandler reports whether the card store is reachable
func HealthCheckHandler(cardService *services.CardService, backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cardService.Ping(r.Context()); err != nil {
			logger.Errorf("Health check failed for %s store: %v", backend, err)
			helpers.WriteJSONResponse(w, http.StatusServiceUnavailable, models.HealthResponse{Status: "unhealthy", Backend: backend})
			return
		}
		helpers.WriteJSONResponse(w, http.StatusOK, models.HealthResponse{Status: "healthy", Backend: backend})
	}
}
