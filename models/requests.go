package models

// CardIDsRequest addresses a batch of cards by identifier
type CardIDsRequest struct {
	CardIDs []string `json:"card_ids"`
}

// UpdateCardsRequest merges UpdateFields into every card in CardIDs
type UpdateCardsRequest struct {
	CardIDs      []string               `json:"card_ids"`
	UpdateFields map[string]interface{} `json:"update_fields"`
}

// CardImageUploadRequest asks for a presigned upload URL for card art
type CardImageUploadRequest struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}

// CardImageReadRequest asks for a presigned read URL for an uploaded image
type CardImageReadRequest struct {
	Key string `json:"key"`
}
