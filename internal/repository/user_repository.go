package repository

import (
	"errors"

	"esmu-server/internal/model"
	"esmu-server/pkg/db"

	"gorm.io/gorm"
)

// UserRepository 处理用户数据持久化
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{db: db.DB}
}

// 新建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// 通过ID查找用户
func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 用户不存在
		}
		return nil, err
	}
	return &user, nil
}

// 通过邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 用户不存在
		}
		return nil, err
	}
	return &user, nil
}

// 批量查找用户，用于应用层join
func (r *UserRepository) FindByIDs(ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// 按姓名子串查找用户。LIKE BINARY保证大小写敏感匹配
func (r *UserRepository) SearchByName(query string) ([]model.User, error) {
	var users []model.User
	pattern := "%" + query + "%"
	err := r.db.Where("first_name LIKE BINARY ? OR last_name LIKE BINARY ?", pattern, pattern).
		Find(&users).Error
	return users, err
}

// 用户列表
func (r *UserRepository) List(limit, offset int) ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

// 更新用户字段
func (r *UserRepository) UpdateFields(id string, updates map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

// 批量删除用户
func (r *UserRepository) DeleteByIDs(ids []string) (int64, error) {
	res := r.db.Where("id IN ?", ids).Delete(&model.User{})
	return res.RowsAffected, res.Error
}
