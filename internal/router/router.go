package router

import (
	"github.com/gin-gonic/gin"

	"clipforge/internal/handler"
)

func SetupRouter(r *gin.Engine) {
	api := r.Group("/api")

	hdl := handler.NewHandler()
	{
		api.POST("/jobs", hdl.SubmitClipJob)
		api.GET("/jobs", hdl.GetJobHistory)
		api.GET("/jobs/:jobId", hdl.GetClipJob)
		api.DELETE("/jobs/:jobId", hdl.DeleteClipJob)
		api.GET("/jobs/:jobId/clips/:clipId/media", hdl.GetClipMedia)
		api.POST("/file", hdl.UploadFile)
		api.GET("/file/*filepath", hdl.DownloadFile)
		api.HEAD("/file/*filepath", hdl.DownloadFile)
	}
}
