package backup

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes the backup endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/backup")
	g.GET("/export", h.export)
	g.POST("/restore", h.restore)
}

func (h *Handler) export(c *gin.Context) {
	doc, err := h.svc.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export backup"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="carsmotion-backup.json"`)
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) restore(c *gin.Context) {
	var doc Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Restore(c.Request.Context(), &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restore backup"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}
