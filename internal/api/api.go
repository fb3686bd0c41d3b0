package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/service"
)

// respondError maps the service error taxonomy onto HTTP statuses and the
// JSON error envelope. Validation and conflict failures both answer 400 with
// the machine-readable kind alongside the message; anything outside the
// taxonomy is a 500 with the detail kept out of the response.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": string(kind)})
	case service.KindValidation, service.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": string(kind)})
	case service.KindPermission:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "kind": string(kind)})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
