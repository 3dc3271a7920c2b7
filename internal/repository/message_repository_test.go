package repository

import (
	"testing"

	"esmu-server/internal/model"
	"esmu-server/pkg/config"
	"esmu-server/pkg/db"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestMessages(t *testing.T) (*MessageRepository, *model.Thread) {
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	if err := db.InitDB(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanupMessageTable(t)
	cleanupThreadTables(t)

	threadRepo := NewThreadRepository()
	thread := &model.Thread{Type: model.ThreadTypeDirect}
	if err := threadRepo.Create(thread); err != nil {
		t.Fatalf("Failed to create test thread: %v", err)
	}

	return NewMessageRepository(), thread
}

func TestMessageRepository_Create(t *testing.T) {
	messageRepo, thread := setupTestMessages(t)

	message := &model.Message{
		ThreadID: thread.ID,
		AuthorID: "u1",
		Content:  "Test message",
		Type:     model.MessageTypeText,
	}

	err := messageRepo.Create(message)
	assert.NoError(t, err)
	assert.Len(t, message.ID, 36)
}

func TestMessageRepository_FindByThread(t *testing.T) {
	messageRepo, thread := setupTestMessages(t)

	for _, content := range []string{"Message 1", "Message 2"} {
		err := messageRepo.Create(&model.Message{
			ThreadID: thread.ID,
			AuthorID: "u1",
			Content:  content,
			Type:     model.MessageTypeText,
		})
		assert.NoError(t, err)
	}

	found, err := messageRepo.FindByThread(thread.ID)
	assert.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestMessageRepository_UpdateContentScoped(t *testing.T) {
	messageRepo, thread := setupTestMessages(t)

	message := &model.Message{
		ThreadID: thread.ID,
		AuthorID: "u1",
		Content:  "original",
		Type:     model.MessageTypeText,
	}
	assert.NoError(t, messageRepo.Create(message))

	// 作者不匹配时更新不生效
	rows, err := messageRepo.UpdateContentScoped(message.ID, thread.ID, "u2", "hijacked")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	rows, err = messageRepo.UpdateContentScoped(message.ID, thread.ID, "u1", "updated")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := messageRepo.FindByID(message.ID)
	assert.NoError(t, err)
	assert.Equal(t, "updated", found.Content)
	assert.True(t, found.IsEdited)
}

func TestMessageRepository_MarkReadExceptAuthor(t *testing.T) {
	messageRepo, thread := setupTestMessages(t)

	assert.NoError(t, messageRepo.Create(&model.Message{
		ThreadID: thread.ID, AuthorID: "u1", Content: "from u1", Type: model.MessageTypeText,
	}))
	assert.NoError(t, messageRepo.Create(&model.Message{
		ThreadID: thread.ID, AuthorID: "u2", Content: "from u2", Type: model.MessageTypeText,
	}))

	// u1标记已读，只翻转u2的消息
	assert.NoError(t, messageRepo.MarkReadExceptAuthor(thread.ID, "u1"))

	unread, err := messageRepo.CountUnread(thread.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestMessageRepository_Delete(t *testing.T) {
	messageRepo, thread := setupTestMessages(t)

	message := &model.Message{
		ThreadID: thread.ID,
		AuthorID: "u1",
		Content:  "Test message",
		Type:     model.MessageTypeText,
	}
	assert.NoError(t, messageRepo.Create(message))

	rows, err := messageRepo.Delete(message.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// 物理删除，再查不到
	found, err := messageRepo.FindByID(message.ID)
	assert.NoError(t, err)
	assert.Nil(t, found)

	rows, err = messageRepo.Delete(message.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

// 帮助函数：清空 messages 表中的所有数据
func cleanupMessageTable(t *testing.T) {
	if err := db.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.Message{}).Error; err != nil {
		t.Logf("Failed to cleanup messages table: %v", err)
	}
}
