package repository

import (
	"errors"

	"esmu-server/internal/model"
	"esmu-server/pkg/db"

	"gorm.io/gorm"
)

// ThreadRepository 处理会话和会话成员的持久化
type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository() *ThreadRepository {
	return &ThreadRepository{db: db.DB}
}

// WithTx 返回绑定到事务的副本，供服务层组合多步写入
func (r *ThreadRepository) WithTx(tx *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: tx}
}

// 新建会话
func (r *ThreadRepository) Create(thread *model.Thread) error {
	return r.db.Create(thread).Error
}

// 通过ID查找会话
func (r *ThreadRepository) FindByID(id string) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.First(&thread, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 会话不存在
		}
		return nil, err
	}
	return &thread, nil
}

// 批量查找会话
func (r *ThreadRepository) FindByIDs(ids []string) ([]model.Thread, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var threads []model.Thread
	err := r.db.Where("id IN ?", ids).Find(&threads).Error
	return threads, err
}

// 更新会话名称
func (r *ThreadRepository) UpdateName(id, name string) (int64, error) {
	res := r.db.Model(&model.Thread{}).Where("id = ?", id).Update("name", name)
	return res.RowsAffected, res.Error
}

// 未读计数加一
func (r *ThreadRepository) IncrementUnread(id string) error {
	return r.db.Model(&model.Thread{}).Where("id = ?", id).
		Update("unread_count", gorm.Expr("unread_count + ?", 1)).Error
}

// 重置未读计数
func (r *ThreadRepository) SetUnreadCount(id string, count int64) error {
	return r.db.Model(&model.Thread{}).Where("id = ?", id).
		Update("unread_count", count).Error
}

// 批量创建会话成员
func (r *ThreadRepository) CreateParticipants(participants []model.ThreadParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.Create(&participants).Error
}

// 查找用户加入的所有会话成员记录
func (r *ThreadRepository) FindParticipantsByUser(userID string) ([]model.ThreadParticipant, error) {
	var participants []model.ThreadParticipant
	err := r.db.Where("user_id = ?", userID).Find(&participants).Error
	return participants, err
}

// 查找多个会话的全部成员记录
func (r *ThreadRepository) FindParticipantsByThreads(threadIDs []string) ([]model.ThreadParticipant, error) {
	if len(threadIDs) == 0 {
		return nil, nil
	}
	var participants []model.ThreadParticipant
	err := r.db.Where("thread_id IN ?", threadIDs).Find(&participants).Error
	return participants, err
}

// 统计会话成员数
func (r *ThreadRepository) CountParticipants(threadID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ThreadParticipant{}).Where("thread_id = ?", threadID).Count(&count).Error
	return count, err
}
