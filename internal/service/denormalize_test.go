package service

import (
	"testing"

	"esmu-server/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDenormalizeMessages(t *testing.T) {
	users := buildUserMap([]model.User{
		{ID: "u1", FirstName: "Alice", LastName: "Chen", ProfilePic: "/files/a.png", Status: model.StatusActive},
		{ID: "u2", FirstName: "Bob", Status: model.StatusBlocked},
	})

	parentID := "m0"
	messages := []model.Message{
		{ID: "m1", ThreadID: "t1", AuthorID: "u1", Content: "hello", Type: model.MessageTypeText},
		{ID: "m2", ThreadID: "t1", AuthorID: "u2", Content: "reply", Type: model.MessageTypeText, ParentMessageID: &parentID},
		{ID: "m3", ThreadID: "t1", AuthorID: "ghost", Content: "orphan", Type: model.MessageTypeText},
	}

	views := DenormalizeMessages(messages, users)
	assert.Len(t, views, 3)

	assert.Equal(t, "Alice Chen", views[0].Author.Name)
	assert.Equal(t, "/files/a.png", views[0].Author.Avatar)
	assert.True(t, views[0].Author.IsActive)

	// 没有姓氏时不拼接空格
	assert.Equal(t, "Bob", views[1].Author.Name)
	assert.False(t, views[1].Author.IsActive)
	assert.Equal(t, &parentID, views[1].ParentMessageID)

	// 作者查不到时保留ID，名字为空
	assert.Equal(t, "ghost", views[2].Author.ID)
	assert.Empty(t, views[2].Author.Name)
}

func TestDenormalizeThreads(t *testing.T) {
	users := buildUserMap([]model.User{
		{ID: "u1", FirstName: "Alice", LastName: "Chen"},
		{ID: "u2", FirstName: "Bob", LastName: "Li"},
	})
	threads := []model.Thread{
		{ID: "t1", Type: model.ThreadTypeGroup, Name: "Design", MemberCount: 2, UnreadCount: 3},
		{ID: "t2", Type: model.ThreadTypeDirect},
	}
	participants := []model.ThreadParticipant{
		{ThreadID: "t1", UserID: "u1"},
		{ThreadID: "t1", UserID: "u2"},
	}

	views := DenormalizeThreads(threads, participants, users)
	assert.Len(t, views, 2)

	assert.Equal(t, "Design", views[0].Name)
	assert.Equal(t, 3, views[0].UnreadCount)
	assert.Len(t, views[0].Participants, 2)
	assert.Equal(t, "Alice Chen", views[0].Participants[0].Name)

	// 没有成员记录的会话成员列表为空，而不是nil导致的序列化差异
	assert.NotNil(t, views[1].Participants)
	assert.Empty(t, views[1].Participants)
}

func TestContactCards(t *testing.T) {
	cards := ContactCards([]model.User{
		{ID: "u1", FirstName: "Alice", LastName: "Chen", Email: "alice@example.com", ProfilePic: "/files/a.png", Status: model.StatusActive},
		{ID: "u2", FirstName: "Bob", Email: "bob@example.com", Status: model.StatusBlocked},
	})

	assert.Len(t, cards, 2)

	// 对外联系人ID是邮箱
	assert.Equal(t, "alice@example.com", cards[0].ID)
	assert.Equal(t, "Alice Chen", cards[0].Name)
	assert.True(t, cards[0].IsActive)

	assert.Equal(t, "bob@example.com", cards[1].ID)
	assert.False(t, cards[1].IsActive)
}
