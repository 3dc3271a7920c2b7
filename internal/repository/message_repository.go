package repository

import (
	"errors"

	"esmu-server/internal/model"
	"esmu-server/pkg/db"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{db: db.DB}
}

// WithTx 返回绑定到事务的副本
func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// 保存新消息
func (r *MessageRepository) Create(message *model.Message) error {
	return r.db.Create(message).Error
}

// 通过ID查找消息
func (r *MessageRepository) FindByID(id string) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 消息不存在
		}
		return nil, err
	}
	return &message, nil
}

// 获取会话内全部消息，按创建时间升序
func (r *MessageRepository) FindByThread(threadID string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// 更新消息内容并标记已编辑。条件限定(id, thread, author)，
// 防止跨会话或冒名编辑；返回受影响行数
func (r *MessageRepository) UpdateContentScoped(messageID, threadID, authorID, content string) (int64, error) {
	res := r.db.Model(&model.Message{}).
		Where("id = ? AND thread_id = ? AND author_id = ?", messageID, threadID, authorID).
		Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
		})
	return res.RowsAffected, res.Error
}

// 物理删除消息
func (r *MessageRepository) Delete(messageID string) (int64, error) {
	res := r.db.Delete(&model.Message{}, "id = ?", messageID)
	return res.RowsAffected, res.Error
}

// 将会话内非该用户发送的未读消息全部标记已读
func (r *MessageRepository) MarkReadExceptAuthor(threadID, userID string) error {
	return r.db.Model(&model.Message{}).
		Where("thread_id = ? AND author_id <> ? AND read_status = ?", threadID, userID, false).
		Update("read_status", true).Error
}

// 统计会话内仍未读的消息数
func (r *MessageRepository) CountUnread(threadID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("thread_id = ? AND read_status = ?", threadID, false).
		Count(&count).Error
	return count, err
}
