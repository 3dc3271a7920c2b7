package repository

import (
	"testing"

	"esmu-server/internal/model"
	"esmu-server/pkg/config"
	"esmu-server/pkg/db"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestUsers(t *testing.T) *UserRepository {
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	if err := db.InitDB(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanupUserTable(t)
	return NewUserRepository()
}

func TestUserRepository_Create(t *testing.T) {
	repo := setupTestUsers(t)

	user := &model.User{
		FirstName: "Alice",
		LastName:  "Chen",
		Email:     "alice@example.com",
		Password:  "hashed",
		Status:    model.StatusActive,
		Role:      model.RoleUser,
	}

	err := repo.Create(user)
	assert.NoError(t, err)
	// BeforeCreate钩子应该分配UUID主键
	assert.Len(t, user.ID, 36)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo := setupTestUsers(t)

	user := &model.User{FirstName: "Alice", Email: "alice@example.com", Password: "hashed"}
	assert.NoError(t, repo.Create(user))

	found, err := repo.FindByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	// 不存在时返回nil而不是错误
	missing, err := repo.FindByEmail("nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_SearchByName(t *testing.T) {
	repo := setupTestUsers(t)

	users := []*model.User{
		{FirstName: "Alice", LastName: "Chen", Email: "alice@example.com", Password: "x"},
		{FirstName: "Bob", LastName: "Alicante", Email: "bob@example.com", Password: "x"},
		{FirstName: "carol", LastName: "Wang", Email: "carol@example.com", Password: "x"},
	}
	for _, u := range users {
		assert.NoError(t, repo.Create(u))
	}

	// 姓和名都参与匹配
	found, err := repo.SearchByName("Ali")
	assert.NoError(t, err)
	assert.Len(t, found, 2)

	// 大小写敏感
	found, err = repo.SearchByName("Carol")
	assert.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.SearchByName("carol")
	assert.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestUserRepository_DeleteByIDs(t *testing.T) {
	repo := setupTestUsers(t)

	user1 := &model.User{FirstName: "Alice", Email: "alice@example.com", Password: "x"}
	user2 := &model.User{FirstName: "Bob", Email: "bob@example.com", Password: "x"}
	assert.NoError(t, repo.Create(user1))
	assert.NoError(t, repo.Create(user2))

	deleted, err := repo.DeleteByIDs([]string{user1.ID, "no-such-id"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.List(10, 0)
	assert.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.Equal(t, user2.ID, remaining[0].ID)
}

// 帮助函数：清空 users 表中的所有数据
func cleanupUserTable(t *testing.T) {
	if err := db.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.User{}).Error; err != nil {
		t.Logf("Failed to cleanup users table: %v", err)
	}
}
