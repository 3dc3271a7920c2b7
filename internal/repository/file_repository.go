package repository

import (
	"errors"

	"esmu-server/internal/model"
	"esmu-server/pkg/db"

	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository() *FileRepository {
	return &FileRepository{db: db.DB}
}

// 批量保存文件记录
func (r *FileRepository) CreateMany(files []model.File) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.Create(&files).Error
}

// 按路径批量查找，用于上传后回查
func (r *FileRepository) FindByPaths(paths []string) ([]model.File, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	var files []model.File
	err := r.db.Where("path IN ?", paths).Find(&files).Error
	return files, err
}

// 通过ID查找文件记录
func (r *FileRepository) FindByID(id string) (*model.File, error) {
	var file model.File
	if err := r.db.First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 文件记录不存在
		}
		return nil, err
	}
	return &file, nil
}

// 查找用户上传的全部文件
func (r *FileRepository) FindByUser(userID string) ([]model.File, error) {
	var files []model.File
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&files).Error
	return files, err
}

// 删除文件记录
func (r *FileRepository) Delete(id string) (int64, error) {
	res := r.db.Delete(&model.File{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
