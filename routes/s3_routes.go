package routes

import (
	"card_game_server/controllers"
	"card_game_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for card image uploads and reads
func RegisterS3Routes(r *mux.Router, imageService *services.CardImageService) {
	controller := controllers.NewCardImageController(imageService)

	imageRouter := r.PathPrefix("/api/card_images").Subrouter()
	imageRouter.HandleFunc("/upload_url", controller.GeneratePresignedURL).Methods("POST")
	imageRouter.HandleFunc("/read_url", controller.GetPresignedReadURL).Methods("POST")
}
