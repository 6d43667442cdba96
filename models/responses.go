package models

type MessageResponse struct {
	Message string `json:"message"`
}

type AddCardsResponse struct {
	Message string   `json:"message"`
	CardIDs []string `json:"card_ids"`
}

type AddCardResponse struct {
	Message string `json:"message"`
	CardID  string `json:"card_id"`
}

type CardsResponse struct {
	Cards []Card `json:"cards"`
}

type UpdateResponse struct {
	Message      string `json:"message"`
	MatchedCount int64  `json:"matched_count"`
}

type DeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// CardImageURLResponse carries a presigned URL; Key is set for uploads only
type CardImageURLResponse struct {
	URL string `json:"url"`
	Key string `json:"key,omitempty"`
}
