package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-post-studio/services"
	"social-post-studio/utils"
)

func SetupExportRoutes(router *gin.Engine, exporter *services.ExportService) {
	router.POST("/export", func(c *gin.Context) {
		var req services.ExportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		file, err := exporter.Export(c.Request.Context(), req)
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		c.Header("X-Record-Count", fmt.Sprintf("%d", file.RecordCount))
		c.Data(http.StatusOK, file.ContentType, file.Data)
	})
}
