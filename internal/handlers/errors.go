package handlers

import (
	"log"
	"net/http"

	"quiz-backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeError maps the service error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.InvalidReference:
		status = http.StatusBadRequest
	case apperr.InvalidState:
		status = http.StatusConflict
	case apperr.InsufficientContent:
		status = http.StatusUnprocessableEntity
	case apperr.Unauthorized:
		status = http.StatusUnauthorized
	case apperr.Upstream:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseID converts a path or body id into an ObjectID, rejecting malformed
// values as bad references.
func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Newf(apperr.InvalidReference, "invalid id %q", hex)
	}
	return id, nil
}
