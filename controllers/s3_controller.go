package controllers

import (
	"errors"
	"net/http"

	"card_game_server/helpers"
	"card_game_server/models"
	"card_game_server/services"
	"card_game_server/utils/logger"
)

// CardImageController hands out presigned S3 URLs for card art
type CardImageController struct {
	ImageService *services.CardImageService
}

func NewCardImageController(imageService *services.CardImageService) *CardImageController {
	return &CardImageController{ImageService: imageService}
}

// GeneratePresignedURL generates a presigned URL for uploading a card image
func (c *CardImageController) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload models.CardImageUploadRequest
	if err := helpers.ParseJSONBody(r, &payload); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	url, key, err := c.ImageService.GenerateUploadURL(r.Context(), payload.FileName, payload.FileType)
	if errors.Is(err, services.ErrInvalidInput) {
		helpers.WriteError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err != nil {
		logger.Errorf("Error generating upload URL: %v", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to generate pre-signed URL")
		return
	}

	logger.Infof("Generated upload URL for card image %s", key)
	helpers.WriteJSONResponse(w, http.StatusOK, models.CardImageURLResponse{URL: url, Key: key})
}

// GetPresignedReadURL generates a presigned URL for reading a card image
func (c *CardImageController) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload models.CardImageReadRequest
	if err := helpers.ParseJSONBody(r, &payload); err != nil || payload.Key == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	url, err := c.ImageService.GenerateReadURL(r.Context(), payload.Key)
	if errors.Is(err, services.ErrInvalidInput) {
		helpers.WriteError(w, http.StatusBadRequest, "Key is not a card image")
		return
	}
	if err != nil {
		logger.Errorf("Error generating read URL: %v", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to generate read pre-signed URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, models.CardImageURLResponse{URL: url})
}
