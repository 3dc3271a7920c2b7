package service

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	// 图片尺寸探测支持的格式
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"esmu-server/internal/blobstore"
	"esmu-server/internal/metrics"
	"esmu-server/internal/model"
	"esmu-server/internal/repository"
	"esmu-server/pkg/config"
	"esmu-server/pkg/logger"

	"go.uber.org/zap"
)

// FileService 处理文件上传入库
type FileService struct {
	fileRepo *repository.FileRepository
	blob     *blobstore.Store
}

func NewFileService(fileRepo *repository.FileRepository, blob *blobstore.Store) *FileService {
	return &FileService{fileRepo: fileRepo, blob: blob}
}

// UploadedFile 上传结果，只暴露名称和访问路径
type UploadedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// mime类型不在允许列表内的文件直接跳过，不报错
func allowedMimeType(mimeType string) bool {
	for _, allowed := range config.GlobalConfig.File.AllowedTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// 探测图片尺寸，非图片返回(0, 0)
func imageDimensions(buf []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// UploadFiles 校验mime类型、提取图片尺寸、写入blob存储并批量入库。
// 对象名为 毫秒时间戳-原文件名，访问路径为 /files/<对象名>
func (s *FileService) UploadFiles(userID string, files []*multipart.FileHeader) ([]UploadedFile, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no file found", ErrValidation)
	}

	prepared := make([]model.File, 0, len(files))
	for _, file := range files {
		mimeType := file.Header.Get("Content-Type")
		if !allowedMimeType(mimeType) {
			logger.L.Warn("Skipping file with disallowed mime type",
				zap.String("filename", file.Filename),
				zap.String("mimeType", mimeType))
			continue
		}

		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		buf, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}

		width, height := imageDimensions(buf)

		name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), file.Filename)
		if _, err := s.blob.Upload(buf, name, mimeType); err != nil {
			return nil, fmt.Errorf("failed to store file %q: %w", file.Filename, err)
		}
		metrics.FilesUploadedTotal.Inc()
		metrics.BlobBytesWritten.Add(float64(len(buf)))

		prepared = append(prepared, model.File{
			UserID:   userID,
			Name:     name,
			AltText:  strings.TrimSuffix(name, filepath.Ext(name)),
			Type:     mimeType,
			Size:     file.Size,
			Width:    width,
			Height:   height,
			Path:     "/files/" + name,
			BucketID: name,
		})
	}

	if len(prepared) == 0 {
		return nil, fmt.Errorf("%w: no file with an allowed type", ErrValidation)
	}

	if err := s.fileRepo.CreateMany(prepared); err != nil {
		return nil, fmt.Errorf("failed to save file records: %w", err)
	}

	paths := make([]string, 0, len(prepared))
	for _, f := range prepared {
		paths = append(paths, f.Path)
	}
	stored, err := s.fileRepo.FindByPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored files: %w", err)
	}

	result := make([]UploadedFile, 0, len(stored))
	for _, f := range stored {
		result = append(result, UploadedFile{Name: f.Name, Path: f.Path})
	}

	logger.L.Info("Files uploaded",
		zap.String("userID", userID),
		zap.Int("stored", len(result)),
		zap.Int("received", len(files)))
	return result, nil
}
