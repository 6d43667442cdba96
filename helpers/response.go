package helpers

import (
	"encoding/json"
	"net/http"

	"card_game_server/models"
	"card_game_server/utils/logger"
)

// WriteJSONResponse writes data as a JSON body with the given status code
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("failed to encode JSON response: %v", err)
	}
}

// WriteError writes a {"message": ...} error body
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, models.MessageResponse{Message: message})
}

// ParseJSONBody decodes the request body into v, keeping numbers as json.Number
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(v)
}
