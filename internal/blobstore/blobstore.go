package blobstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"esmu-server/pkg/logger"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// 存储路径未配置。启动时只警告，首次使用时返回此错误
	ErrNotConfigured = errors.New("blob storage path is not configured")
	// 指定名称的对象不存在
	ErrNotFound = errors.New("blob not found")
)

// blob元数据，和数据分开存储
type blobMeta struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store 以名称为键存取二进制对象。内部共享一个延迟打开的pebble句柄，
// 进程生命周期内复用，不做重连：句柄失效会在下一次调用时报错
type Store struct {
	path string

	mu sync.Mutex
	db *pebble.DB
}

func New(path string) *Store {
	if path == "" {
		logger.L.Warn("Blob storage path is not set, blob operations will fail on first use")
	}
	return &Store{path: path}
}

func metaKey(name string) []byte { return []byte("blob:" + name + ":meta") }
func dataKey(name string) []byte { return []byte("blob:" + name + ":data") }

// 延迟建立共享连接
func (s *Store) connect() (*pebble.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	if s.path == "" {
		return nil, ErrNotConfigured
	}

	db, err := pebble.Open(s.path, &pebble.Options{})
	if err != nil {
		logger.L.Error("Failed to open blob store", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	logger.L.Info("Blob store opened", zap.String("path", s.path))
	s.db = db
	return db, nil
}

// Upload 以name为键保存data，contentType作为元数据，返回对象ID。
// 名称唯一性由调用方保证（UUID生成），这里不做冲突检测
func (s *Store) Upload(data []byte, name, contentType string) (string, error) {
	db, err := s.connect()
	if err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	meta := blobMeta{
		ID:          uuid.NewString(),
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal blob metadata: %w", err)
	}

	if err := db.Set(dataKey(name), data, pebble.Sync); err != nil {
		logger.L.Error("Failed to write blob data", zap.String("name", name), zap.Error(err))
		return "", fmt.Errorf("failed to write blob %q: %w", name, err)
	}
	if err := db.Set(metaKey(name), metaBytes, pebble.Sync); err != nil {
		logger.L.Error("Failed to write blob metadata", zap.String("name", name), zap.Error(err))
		return "", fmt.Errorf("failed to write blob metadata %q: %w", name, err)
	}

	logger.L.Info("Blob stored",
		zap.String("name", name),
		zap.String("id", meta.ID),
		zap.Int64("size", meta.Size))
	return meta.ID, nil
}

// OpenRead 按名称返回对象的读取流和内容类型。
// 调用方负责读完或关闭流
func (s *Store) OpenRead(name string) (io.ReadCloser, string, error) {
	db, err := s.connect()
	if err != nil {
		return nil, "", err
	}

	metaBytes, metaCloser, err := db.Get(metaKey(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read blob metadata %q: %w", name, err)
	}
	var meta blobMeta
	uerr := json.Unmarshal(metaBytes, &meta)
	metaCloser.Close()
	if uerr != nil {
		return nil, "", fmt.Errorf("invalid blob metadata %q: %w", name, uerr)
	}

	data, dataCloser, err := db.Get(dataKey(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read blob %q: %w", name, err)
	}
	// pebble返回的切片在closer关闭后失效，复制一份再交给调用方
	buf := make([]byte, len(data))
	copy(buf, data)
	dataCloser.Close()

	return io.NopCloser(bytes.NewReader(buf)), meta.ContentType, nil
}

// Delete 按名称删除对象。对象不存在时返回false，不报错
func (s *Store) Delete(name string) (bool, error) {
	db, err := s.connect()
	if err != nil {
		return false, err
	}

	_, closer, err := db.Get(metaKey(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up blob %q: %w", name, err)
	}
	closer.Close()

	if err := db.Delete(dataKey(name), pebble.Sync); err != nil {
		return false, fmt.Errorf("failed to delete blob %q: %w", name, err)
	}
	if err := db.Delete(metaKey(name), pebble.Sync); err != nil {
		return false, fmt.Errorf("failed to delete blob metadata %q: %w", name, err)
	}

	logger.L.Info("Blob deleted", zap.String("name", name))
	return true, nil
}

// Close 释放共享连接。幂等，从未连接时调用也安全
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("failed to close blob store: %w", err)
	}
	logger.L.Info("Blob store closed")
	return nil
}
