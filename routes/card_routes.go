package routes

import (
	"card_game_server/controllers"
	"card_game_server/services"

	"github.com/gorilla/mux"
)

// RegisterCardRoutes sets up routes for card operations under /api
func RegisterCardRoutes(r *mux.Router, cardService *services.CardService) {
	controller := controllers.NewCardController(cardService)

	apiRouter := r.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/add_cards", controller.AddCards).Methods("POST")
	apiRouter.HandleFunc("/add_card", controller.AddCard).Methods("POST")
	apiRouter.HandleFunc("/get_cards", controller.GetCards).Methods("GET")
	apiRouter.HandleFunc("/find_cards", controller.FindCards).Methods("POST")
	apiRouter.HandleFunc("/update_cards", controller.UpdateCards).Methods("PATCH")
	apiRouter.HandleFunc("/update_card/{card_id}", controller.UpdateCard).Methods("PATCH", "PUT")
	apiRouter.HandleFunc("/delete_cards", controller.DeleteCards).Methods("DELETE")
	apiRouter.HandleFunc("/delete_card/{card_id}", controller.DeleteCard).Methods("DELETE")
}
