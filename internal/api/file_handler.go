package api

import (
	"errors"
	"io"
	"net/http"

	"esmu-server/internal/blobstore"
	"esmu-server/internal/service"
	"esmu-server/pkg/config"
	"esmu-server/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 处理文件上传和下载
type FileHandler struct {
	fileService *service.FileService
	blob        *blobstore.Store
}

func NewFileHandler(fileService *service.FileService, blob *blobstore.Store) *FileHandler {
	return &FileHandler{fileService: fileService, blob: blob}
}

// UploadFiles 处理多文件上传，表单字段为"files"
func (h *FileHandler) UploadFiles(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		logger.L.Warn("Failed to parse multipart form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid form data"})
		return
	}

	files := form.File["files"]

	// 检查文件大小限制
	maxSize := int64(50 * 1024 * 1024) // 默认50MB
	if config.GlobalConfig.File.MaxFileSize > 0 {
		maxSize = config.GlobalConfig.File.MaxFileSize
	}
	for _, file := range files {
		if file.Size > maxSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large: " + file.Filename})
			return
		}
	}

	uploaded, err := h.fileService.UploadFiles(userID, files)
	if err != nil {
		logger.L.Error("Failed to upload files", zap.Error(err), zap.String("userID", userID))
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": uploaded})
}

// StreamFile 按对象名流式返回blob内容。
// blob不存在时返回404——引用了该对象的记录不会被级联清理，
// 悬挂引用在这里兜底
func (h *FileHandler) StreamFile(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing filename"})
		return
	}

	stream, contentType, err := h.blob.OpenRead(filename)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "File not found"})
			return
		}
		logger.L.Error("Failed to open blob stream", zap.String("filename", filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer stream.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		logger.L.Warn("File stream interrupted", zap.String("filename", filename), zap.Error(err))
	}
}
