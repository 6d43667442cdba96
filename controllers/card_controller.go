package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"card_game_server/helpers"
	"card_game_server/models"
	"card_game_server/services"
	"card_game_server/utils/logger"

	"github.com/gorilla/mux"
)

// CardController handles requests for the cards collection
type CardController struct {
	CardService *services.CardService
}

// NewCardController creates a new instance of CardController
func NewCardController(cardService *services.CardService) *CardController {
	return &CardController{CardService: cardService}
}

// AddCards handles POST /api/add_cards with a JSON array of cards
func (c *CardController) AddCards(w http.ResponseWriter, r *http.Request) {
	var payload interface{}
	if err := helpers.ParseJSONBody(r, &payload); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid data format or empty list")
		return
	}

	items, ok := payload.([]interface{})
	if !ok || len(items) == 0 {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid data format or empty list")
		return
	}

	cards := make([]models.Card, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok {
			helpers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Card at index %d is not an object", i))
			return
		}
		models.NormalizeNumbers(fields)
		cards[i] = models.Card(fields)
	}

	ids, err := c.CardService.AddCards(r.Context(), cards)
	if err != nil {
		writeServiceError(w, err, "add cards")
		return
	}

	logger.Infof("Added %d cards", len(ids))
	helpers.WriteJSONResponse(w, http.StatusOK, models.AddCardsResponse{
		Message: "Cards added",
		CardIDs: ids,
	})
}

// AddCard handles POST /api/add_card with a single card object
func (c *CardController) AddCard(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := helpers.ParseJSONBody(r, &fields); err != nil || fields == nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	models.NormalizeNumbers(fields)

	id, err := c.CardService.AddCard(r.Context(), models.Card(fields))
	if err != nil {
		writeServiceError(w, err, "add card")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, models.AddCardResponse{
		Message: "Card added",
		CardID:  id,
	})
}

// GetCards handles GET /api/get_cards
func (c *CardController) GetCards(w http.ResponseWriter, r *http.Request) {
	cards, err := c.CardService.GetCards(r.Context())
	if err != nil {
		writeServiceError(w, err, "get cards")
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, models.CardsResponse{Cards: cards})
}

// FindCards handles POST /api/find_cards with {"card_ids": [...]}
func (c *CardController) FindCards(w http.ResponseWriter, r *http.Request) {
	var req models.CardIDsRequest
	if err := helpers.ParseJSONBody(r, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	cards, err := c.CardService.FindCards(r.Context(), req.CardIDs)
	if errors.Is(err, services.ErrNotFound) {
		helpers.WriteError(w, http.StatusNotFound, "No cards found")
		return
	}
	if err != nil {
		writeServiceError(w, err, "find cards")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, models.CardsResponse{Cards: cards})
}

// UpdateCards handles PATCH /api/update_cards
func (c *CardController) UpdateCards(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCardsRequest
	if err := helpers.ParseJSONBody(r, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	models.NormalizeNumbers(req.UpdateFields)

	matched, err := c.CardService.UpdateCards(r.Context(), req.CardIDs, req.UpdateFields)
	if errors.Is(err, services.ErrNotFound) {
		helpers.WriteJSONResponse(w, http.StatusNotFound, models.UpdateResponse{Message: "No cards found to update"})
		return
	}
	if err != nil {
		writeServiceError(w, err, "update cards")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, models.UpdateResponse{
		Message:      fmt.Sprintf("%d card(s) updated successfully", matched),
		MatchedCount: matched,
	})
}

// UpdateCard handles PATCH/PUT /api/update_card/{card_id}
func (c *CardController) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["card_id"]

	var fields map[string]interface{}
	if err := helpers.ParseJSONBody(r, &fields); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	models.NormalizeNumbers(fields)

	matched, err := c.CardService.UpdateCard(r.Context(), cardID, fields)
	if errors.Is(err, services.ErrNotFound) {
		helpers.WriteJSONResponse(w, http.StatusNotFound, models.UpdateResponse{Message: "Card not found"})
		return
	}
	if err != nil {
		writeServiceError(w, err, "update card")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, models.UpdateResponse{
		Message:      "Card updated successfully",
		MatchedCount: matched,
	})
}

// DeleteCards handles DELETE /api/delete_cards with {"card_ids": [...]}
func (c *CardController) DeleteCards(w http.ResponseWriter, r *http.Request) {
	var req models.CardIDsRequest
	if err := helpers.ParseJSONBody(r, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	deleted, err := c.CardService.DeleteCards(r.Context(), req.CardIDs)
	if errors.Is(err, services.ErrNotFound) {
		helpers.WriteJSONResponse(w, http.StatusNotFound, models.DeleteResponse{Message: "No cards found to delete"})
		return
	}
	if err != nil {
		writeServiceError(w, err, "delete cards")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, models.DeleteResponse{
		Message:      fmt.Sprintf("%d card(s) deleted successfully", deleted),
		DeletedCount: deleted,
	})
}

// DeleteCard handles DELETE /api/delete_card/{card_id}
func (c *CardController) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["card_id"]

	deleted, err := c.CardService.DeleteCard(r.Context(), cardID)
	if errors.Is(err, services.ErrNotFound) {
		helpers.WriteJSONResponse(w, http.StatusNotFound, models.DeleteResponse{Message: "Card not found"})
		return
	}
	if err != nil {
		writeServiceError(w, err, "delete card")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, models.DeleteResponse{
		Message:      "Card deleted successfully",
		DeletedCount: deleted,
	})
}

// writeServiceError maps service errors that every handler shares. Store
// failures are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, services.ErrInvalidIdentifier), errors.Is(err, services.ErrInvalidInput):
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateID):
		logger.Warnf("Rejected %s: %v", action, err)
		helpers.WriteError(w, http.StatusConflict, err.Error())
	default:
		logger.Errorw("card store failure", "action", action, "error", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
