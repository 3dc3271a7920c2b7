package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"esmu-server/internal/blobstore"
	"esmu-server/internal/model"
	"esmu-server/internal/repository"
	"esmu-server/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService 处理用户资料和管理操作
type UserService struct {
	userRepo *repository.UserRepository
	blob     *blobstore.Store
}

func NewUserService(userRepo *repository.UserRepository, blob *blobstore.Store) *UserService {
	return &UserService{userRepo: userRepo, blob: blob}
}

// 获取用户资料
func (s *UserService) GetProfile(userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return user, nil
}

// 更新资料请求
type UpdateProfileRequest struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

// UpdateProfile 更新资料，头像可选。新头像走blob存储，旧头像不清理，
// 由读取方在404时自行处理
func (s *UserService) UpdateProfile(userID string, req UpdateProfileRequest, profilePic *multipart.FileHeader) (*model.User, error) {
	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}

	if profilePic != nil {
		src, err := profilePic.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open profile picture: %w", err)
		}
		buf, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read profile picture: %w", err)
		}

		name := uuid.NewString() + filepath.Ext(profilePic.Filename)
		if _, err := s.blob.Upload(buf, name, profilePic.Header.Get("Content-Type")); err != nil {
			return nil, fmt.Errorf("failed to store profile picture: %w", err)
		}
		updates["profile_pic"] = "/files/" + name
	}

	if len(updates) == 0 {
		return s.GetProfile(userID)
	}

	if err := s.userRepo.UpdateFields(userID, updates); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logger.L.Info("Profile updated", zap.String("userID", userID))
	return s.GetProfile(userID)
}

// 管理端更新用户请求
type UpdateUserRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// UpdateUser 管理端修改用户角色/状态
func (s *UserService) UpdateUser(userID string, req UpdateUserRequest) (*model.User, error) {
	updates := map[string]interface{}{}
	if req.Role != "" {
		if req.Role != model.RoleSuperAdmin && req.Role != model.RoleAdmin && req.Role != model.RoleUser {
			return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, req.Role)
		}
		updates["role"] = req.Role
	}
	if req.Status != "" {
		if req.Status != model.StatusActive && req.Status != model.StatusBlocked {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, req.Status)
		}
		updates["status"] = req.Status
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	if err := s.userRepo.UpdateFields(userID, updates); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetProfile(userID)
}

// 用户列表
func (s *UserService) GetUsers(limit, offset int) ([]model.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.List(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}

// DeleteUsers 批量删除用户
func (s *UserService) DeleteUsers(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids are required", ErrValidation)
	}
	deleted, err := s.userRepo.DeleteByIDs(ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}
	logger.L.Info("Users deleted", zap.Int64("count", deleted))
	return deleted, nil
}
