package repository

import (
	"errors"

	"esmu-server/internal/model"
	"esmu-server/pkg/db"

	"gorm.io/gorm"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{db: db.DB}
}

// 新建记录
func (r *RecordRepository) Create(record *model.Record) error {
	return r.db.Create(record).Error
}

// 通过ID查找记录
func (r *RecordRepository) FindByID(id string) (*model.Record, error) {
	var record model.Record
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 记录不存在
		}
		return nil, err
	}
	return &record, nil
}

// 分页获取记录列表和总数
func (r *RecordRepository) FindAll(limit, offset int) ([]model.Record, int64, error) {
	var total int64
	if err := r.db.Model(&model.Record{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.Record
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error
	return records, total, err
}

// 更新记录字段，返回受影响行数
func (r *RecordRepository) Update(id string, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&model.Record{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// 批量删除记录
func (r *RecordRepository) DeleteByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.Where("id IN ?", ids).Delete(&model.Record{})
	return res.RowsAffected, res.Error
}
