package handler

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clipforge/internal/dto"
	"clipforge/internal/response"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

func (h Handler) SubmitClipJob(c *gin.Context) {
	var req dto.SubmitClipJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("SubmitClipJob ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}
	log.GetLogger().Info("SubmitClipJob received request", zap.Any("req", req))

	data, err := h.Service.SubmitJob(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

func (h Handler) GetClipJob(c *gin.Context) {
	var req dto.GetClipJobReq
	if err := c.ShouldBindUri(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}

	data, err := h.Service.GetJobStatus(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

func (h Handler) GetJobHistory(c *gin.Context) {
	var req dto.GetJobHistoryReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}

	data, err := h.Service.GetJobHistory(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

func (h Handler) DeleteClipJob(c *gin.Context) {
	jobId := c.Param("jobId")
	if jobId == "" {
		response.Error(c, apperrors.CodeInvalidParams, "jobId must not be empty")
		return
	}

	if err := h.Service.DeleteJob(jobId); err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, nil)
}

// GetClipMedia renders the requested clip variant on demand and streams the
// resulting file.
func (h Handler) GetClipMedia(c *gin.Context) {
	var req dto.GetClipMediaReq
	if err := c.ShouldBindUri(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}

	artifactPath, err := h.Service.GetClipMedia(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	c.File(artifactPath)
}

func (h Handler) UploadFile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, apperrors.CodeInvalidParams, "failed to read multipart form")
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		response.Error(c, apperrors.CodeInvalidParams, "no file uploaded")
		return
	}

	uploadRoot := preferredUploadRoot()
	if err := os.MkdirAll(uploadRoot, 0o755); err != nil {
		log.GetLogger().Error("UploadFile MkdirAll err", zap.String("dir", uploadRoot), zap.Error(err))
		response.Error(c, apperrors.CodeInternal, "failed to prepare upload directory")
		return
	}

	var savedFiles []string
	for _, file := range files {
		name := util.SanitizePathName(filepath.Base(file.Filename))
		if name == "" || hasParentTraversal(name) {
			response.Error(c, apperrors.CodeInvalidParams, "invalid file name: "+file.Filename)
			return
		}
		savePath := filepath.Join(uploadRoot, name)
		if err := c.SaveUploadedFile(file, savePath); err != nil {
			log.GetLogger().Error("UploadFile SaveUploadedFile err", zap.String("path", savePath), zap.Error(err))
			response.Error(c, apperrors.CodeInternal, "failed to save file: "+name)
			return
		}
		savedFiles = append(savedFiles, "local:"+savePath)
	}

	response.Success(c, gin.H{"file_path": savedFiles})
}

// DownloadFile serves files below the job and upload roots, rejecting any
// path that escapes them.
func (h Handler) DownloadFile(c *gin.Context) {
	requestedFile := c.Param("filepath")
	if requestedFile == "" {
		response.Error(c, apperrors.CodeInvalidParams, "file path must not be empty")
		return
	}

	localFilePath, ok := resolveDownloadPath(requestedFile)
	if !ok {
		c.JSON(403, response.Response{
			Error: int32(apperrors.CodeInvalidParams),
			Msg:   "invalid file path",
		})
		return
	}
	if info, err := os.Stat(localFilePath); err != nil || info.IsDir() {
		c.JSON(404, response.Response{
			Error: int32(apperrors.CodeNotFound),
			Msg:   "file not found",
		})
		return
	}
	c.FileAttachment(localFilePath, filepath.Base(localFilePath))
}
