package service

import (
	"time"

	"esmu-server/internal/model"
)

// 存储引擎不做关联查询，作者/成员的展示信息由应用层补齐。
// 这里只做纯数据组装，不碰持久层，便于单独测试。

// AuthorView 消息作者的展示信息
type AuthorView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	IsActive bool   `json:"is_active"`
}

// MessageView 补齐作者信息后的消息
type MessageView struct {
	ID              string     `json:"id"`
	ThreadID        string     `json:"thread_id"`
	Content         string     `json:"content"`
	CreatedAt       time.Time  `json:"created_at"`
	Type            string     `json:"type"`
	Author          AuthorView `json:"author"`
	FileURL         string     `json:"file_url"`
	IsEdited        bool       `json:"is_edited"`
	ParentMessageID *string    `json:"parent_message_id"`
	ReadStatus      bool       `json:"read_status"`
}

// ParticipantView 会话成员的展示信息
type ParticipantView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ThreadView 带成员列表的会话
type ThreadView struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Name         string            `json:"name"`
	Participants []ParticipantView `json:"participants"`
	UnreadCount  int               `json:"unread_count"`
	MemberCount  int               `json:"member_count"`
}

// ContactCard 联系人搜索结果的扁平投影
type ContactCard struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	Status     string `json:"status"`
	Email      string `json:"email"`
	ProfilePic string `json:"profile_pic"`
	IsActive   bool   `json:"is_active"`
}

// 构建用户查找表
func buildUserMap(users []model.User) map[string]model.User {
	m := make(map[string]model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

func displayName(u model.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// DenormalizeMessages 用查找表补齐每条消息的作者展示信息。
// 查不到的作者保留空名字，不报错
func DenormalizeMessages(messages []model.Message, users map[string]model.User) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		author := AuthorView{ID: msg.AuthorID}
		if u, ok := users[msg.AuthorID]; ok {
			author.Name = displayName(u)
			author.Avatar = u.ProfilePic
			author.IsActive = u.Status == model.StatusActive
		}
		views = append(views, MessageView{
			ID:              msg.ID,
			ThreadID:        msg.ThreadID,
			Content:         msg.Content,
			CreatedAt:       msg.CreatedAt,
			Type:            msg.Type,
			Author:          author,
			FileURL:         msg.FileURL,
			IsEdited:        msg.IsEdited,
			ParentMessageID: msg.ParentMessageID,
			ReadStatus:      msg.ReadStatus,
		})
	}
	return views
}

// DenormalizeThreads 组装每个会话的成员展示列表
func DenormalizeThreads(threads []model.Thread, participants []model.ThreadParticipant, users map[string]model.User) []ThreadView {
	byThread := make(map[string][]model.ThreadParticipant, len(threads))
	for _, p := range participants {
		byThread[p.ThreadID] = append(byThread[p.ThreadID], p)
	}

	views := make([]ThreadView, 0, len(threads))
	for _, thread := range threads {
		members := make([]ParticipantView, 0, len(byThread[thread.ID]))
		for _, p := range byThread[thread.ID] {
			view := ParticipantView{ID: p.UserID}
			if u, ok := users[p.UserID]; ok {
				view.Name = displayName(u)
				view.Avatar = u.ProfilePic
			}
			members = append(members, view)
		}
		views = append(views, ThreadView{
			ID:           thread.ID,
			Type:         thread.Type,
			Name:         thread.Name,
			Participants: members,
			UnreadCount:  thread.UnreadCount,
			MemberCount:  thread.MemberCount,
		})
	}
	return views
}

// ContactCards 把用户列表压平成联系人卡片。
// 对外的联系人ID沿用邮箱
func ContactCards(users []model.User) []ContactCard {
	cards := make([]ContactCard, 0, len(users))
	for _, u := range users {
		cards = append(cards, ContactCard{
			ID:         u.Email,
			Name:       displayName(u),
			Avatar:     u.ProfilePic,
			Status:     u.Status,
			Email:      u.Email,
			ProfilePic: u.ProfilePic,
			IsActive:   u.Status == model.StatusActive,
		})
	}
	return cards
}
