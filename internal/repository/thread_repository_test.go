package repository

import (
	"testing"

	"esmu-server/internal/model"
	"esmu-server/pkg/config"
	"esmu-server/pkg/db"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestThreads(t *testing.T) *ThreadRepository {
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	if err := db.InitDB(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanupThreadTables(t)
	return NewThreadRepository()
}

func TestThreadRepository_CreateAndFind(t *testing.T) {
	repo := setupTestThreads(t)

	thread := &model.Thread{Type: model.ThreadTypeGroup, Name: "Design", MemberCount: 2}
	assert.NoError(t, repo.Create(thread))
	assert.Len(t, thread.ID, 36)

	found, err := repo.FindByID(thread.ID)
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, "Design", found.Name)

	missing, err := repo.FindByID("no-such-thread")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestThreadRepository_UpdateName(t *testing.T) {
	repo := setupTestThreads(t)

	thread := &model.Thread{Type: model.ThreadTypeGroup, Name: "Old"}
	assert.NoError(t, repo.Create(thread))

	rows, err := repo.UpdateName(thread.ID, "New")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.UpdateName("no-such-thread", "New")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestThreadRepository_UnreadCount(t *testing.T) {
	repo := setupTestThreads(t)

	thread := &model.Thread{Type: model.ThreadTypeDirect}
	assert.NoError(t, repo.Create(thread))

	assert.NoError(t, repo.IncrementUnread(thread.ID))
	assert.NoError(t, repo.IncrementUnread(thread.ID))

	found, err := repo.FindByID(thread.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, found.UnreadCount)

	assert.NoError(t, repo.SetUnreadCount(thread.ID, 0))
	found, err = repo.FindByID(thread.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, found.UnreadCount)
}

func TestThreadRepository_Participants(t *testing.T) {
	repo := setupTestThreads(t)

	thread1 := &model.Thread{Type: model.ThreadTypeGroup, Name: "One"}
	thread2 := &model.Thread{Type: model.ThreadTypeGroup, Name: "Two"}
	assert.NoError(t, repo.Create(thread1))
	assert.NoError(t, repo.Create(thread2))

	assert.NoError(t, repo.CreateParticipants([]model.ThreadParticipant{
		{ThreadID: thread1.ID, UserID: "u1"},
		{ThreadID: thread1.ID, UserID: "u2"},
		{ThreadID: thread2.ID, UserID: "u1"},
	}))

	memberships, err := repo.FindParticipantsByUser("u1")
	assert.NoError(t, err)
	assert.Len(t, memberships, 2)

	participants, err := repo.FindParticipantsByThreads([]string{thread1.ID})
	assert.NoError(t, err)
	assert.Len(t, participants, 2)

	count, err := repo.CountParticipants(thread1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 空ID列表不应该触发全表查询
	none, err := repo.FindParticipantsByThreads(nil)
	assert.NoError(t, err)
	assert.Empty(t, none)
}

// 帮助函数：清空会话相关的表
func cleanupThreadTables(t *testing.T) {
	session := db.DB.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := session.Unscoped().Delete(&model.ThreadParticipant{}).Error; err != nil {
		t.Logf("Failed to cleanup thread participants table: %v", err)
	}
	if err := session.Unscoped().Delete(&model.Thread{}).Error; err != nil {
		t.Logf("Failed to cleanup threads table: %v", err)
	}
}
