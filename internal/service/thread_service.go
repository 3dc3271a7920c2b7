package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"esmu-server/internal/blobstore"
	"esmu-server/internal/metrics"
	"esmu-server/internal/model"
	"esmu-server/internal/repository"
	"esmu-server/pkg/db"
	"esmu-server/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ThreadService 处理会话和消息相关业务逻辑
type ThreadService struct {
	threadRepo  *repository.ThreadRepository
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	blob        *blobstore.Store
}

func NewThreadService(
	threadRepo *repository.ThreadRepository,
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	blob *blobstore.Store,
) *ThreadService {
	return &ThreadService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		blob:        blob,
	}
}

// 创建会话时可携带的首条消息
type InitialMessage struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
	Type     string `json:"type"`
}

// 创建会话请求
type CreateThreadRequest struct {
	Type           string          `json:"type" binding:"required"`
	Participants   []string        `json:"participants"`
	Name           string          `json:"name"`
	InitialMessage *InitialMessage `json:"initial_message"`
}

// CreateThread 创建会话、批量写入成员、可选写入首条消息。
// 三步写入放在一个事务里，避免留下没有成员的会话
func (s *ThreadService) CreateThread(req CreateThreadRequest) (*model.Thread, error) {
	if req.Type != model.ThreadTypeDirect && req.Type != model.ThreadTypeGroup {
		return nil, fmt.Errorf("%w: thread type must be DIRECT or GROUP", ErrValidation)
	}

	name := req.Name
	if req.Type == model.ThreadTypeGroup && name == "" {
		name = model.DefaultGroupName
	}

	if req.InitialMessage != nil {
		if req.InitialMessage.AuthorID == "" {
			return nil, fmt.Errorf("%w: initial message requires an author id", ErrValidation)
		}
		if req.InitialMessage.Content == "" {
			return nil, fmt.Errorf("%w: initial message requires content", ErrValidation)
		}
		if req.InitialMessage.Type != model.MessageTypeText && req.InitialMessage.Type != model.MessageTypeFile {
			return nil, fmt.Errorf("%w: initial message type must be TEXT or FILE", ErrValidation)
		}
	}

	thread := &model.Thread{
		Type:        req.Type,
		Name:        name,
		MemberCount: len(req.Participants),
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		threadRepo := s.threadRepo.WithTx(tx)
		if err := threadRepo.Create(thread); err != nil {
			return fmt.Errorf("failed to create thread: %w", err)
		}

		participants := make([]model.ThreadParticipant, 0, len(req.Participants))
		for _, userID := range req.Participants {
			participants = append(participants, model.ThreadParticipant{
				ThreadID: thread.ID,
				UserID:   userID,
			})
		}
		if err := threadRepo.CreateParticipants(participants); err != nil {
			return fmt.Errorf("failed to create participants: %w", err)
		}

		if req.InitialMessage != nil {
			msg := &model.Message{
				ThreadID: thread.ID,
				AuthorID: req.InitialMessage.AuthorID,
				Content:  req.InitialMessage.Content,
				Type:     req.InitialMessage.Type,
			}
			if err := s.messageRepo.WithTx(tx).Create(msg); err != nil {
				return fmt.Errorf("failed to create initial message: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.L.Error("CreateThread failed", zap.String("type", req.Type), zap.Error(err))
		return nil, err
	}

	logger.L.Info("Thread created",
		zap.String("threadID", thread.ID),
		zap.String("type", thread.Type),
		zap.Int("members", thread.MemberCount))
	return thread, nil
}

// UpdateThreadName 修改会话名称。
// 新名称与现名相同时MySQL报告0行变更，受影响行数不可靠，
// 存在性用回查判断
func (s *ThreadService) UpdateThreadName(threadID, name string) (*model.Thread, error) {
	if _, err := s.threadRepo.UpdateName(threadID, name); err != nil {
		return nil, fmt.Errorf("failed to update thread name: %w", err)
	}
	thread, err := s.threadRepo.FindByID(threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, fmt.Errorf("%w: thread %s", ErrNotFound, threadID)
	}
	return thread, nil
}

// AddMessage 向会话追加消息。FILE类型且带文件时先把文件写入blob存储，
// 生成uuid+原扩展名的唯一对象名；消息写入和未读计数递增在同一事务
func (s *ThreadService) AddMessage(threadID, authorID, content, msgType string, file *multipart.FileHeader) (*model.Message, error) {
	if msgType != model.MessageTypeText && msgType != model.MessageTypeFile {
		return nil, fmt.Errorf("%w: message type must be TEXT or FILE", ErrValidation)
	}

	var fileURL string
	if msgType == model.MessageTypeFile && file != nil {
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		buf := make([]byte, file.Size)
		if _, err := io.ReadFull(src, buf); err != nil {
			src.Close()
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		src.Close()

		// blob写入无法参与数据库事务回滚，先落盘再记账
		name := uuid.NewString() + filepath.Ext(file.Filename)
		if _, err := s.blob.Upload(buf, name, file.Header.Get("Content-Type")); err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		metrics.FilesUploadedTotal.Inc()
		metrics.BlobBytesWritten.Add(float64(len(buf)))
		fileURL = "/files/" + name
	}

	message := &model.Message{
		ThreadID: threadID,
		AuthorID: authorID,
		Content:  content,
		Type:     msgType,
		FileURL:  fileURL,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.messageRepo.WithTx(tx).Create(message); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
		if err := s.threadRepo.WithTx(tx).IncrementUnread(threadID); err != nil {
			return fmt.Errorf("failed to increment unread count: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.L.Error("AddMessage failed",
			zap.String("threadID", threadID),
			zap.String("authorID", authorID),
			zap.Error(err))
		return nil, err
	}

	metrics.MessagesSentTotal.Inc()
	logger.L.Debug("Message added",
		zap.String("messageID", message.ID),
		zap.String("threadID", threadID),
		zap.String("type", msgType))
	return message, nil
}

// EditMessage 更新消息内容并标记已编辑。
// 更新条件限定(id, thread, author)，匹配不到视为不存在。
// 同内容重复编辑时MySQL报告0行变更，0行时回查确认归属再判定
func (s *ThreadService) EditMessage(messageID, newContent, threadID, authorID string) (*model.Message, error) {
	rows, err := s.messageRepo.UpdateContentScoped(messageID, threadID, authorID, newContent)
	if err != nil {
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}

	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, fmt.Errorf("%w: message %s", ErrNotFound, messageID)
	}
	if rows == 0 && (message.ThreadID != threadID || message.AuthorID != authorID) {
		return nil, fmt.Errorf("%w: message %s in thread %s by author %s", ErrNotFound, messageID, threadID, authorID)
	}
	return message, nil
}

// DeleteMessage 物理删除消息
func (s *ThreadService) DeleteMessage(messageID string) error {
	rows, err := s.messageRepo.Delete(messageID)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: message %s", ErrNotFound, messageID)
	}
	return nil
}

// ReplyToMessage 回复某条消息，生成带parent_message_id的TEXT消息。
// 回复树只有一层：回复本身不能再作为会话延伸
func (s *ThreadService) ReplyToMessage(threadID, authorID, parentMessageID, content string) (*model.Message, error) {
	parent, err := s.messageRepo.FindByID(parentMessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up parent message: %w", err)
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: parent message %s", ErrNotFound, parentMessageID)
	}

	reply := &model.Message{
		ThreadID:        threadID,
		AuthorID:        authorID,
		Content:         content,
		Type:            model.MessageTypeText,
		ParentMessageID: &parentMessageID,
	}
	if err := s.messageRepo.Create(reply); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}

	metrics.MessagesSentTotal.Inc()
	return reply, nil
}

// MarkMessagesAsRead 把会话内非本人发送的未读消息全部标记已读，
// 然后重新统计未读数写回会话。翻转和重算放在同一事务
func (s *ThreadService) MarkMessagesAsRead(threadID, userID string) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		messageRepo := s.messageRepo.WithTx(tx)
		if err := messageRepo.MarkReadExceptAuthor(threadID, userID); err != nil {
			return fmt.Errorf("failed to mark messages as read: %w", err)
		}
		unread, err := messageRepo.CountUnread(threadID)
		if err != nil {
			return fmt.Errorf("failed to count unread messages: %w", err)
		}
		if err := s.threadRepo.WithTx(tx).SetUnreadCount(threadID, unread); err != nil {
			return fmt.Errorf("failed to update unread count: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.L.Error("MarkMessagesAsRead failed",
			zap.String("threadID", threadID),
			zap.String("userID", userID),
			zap.Error(err))
	}
	return err
}

// GetThreadMessages 获取会话消息，按创建时间升序，补齐作者展示信息
func (s *ThreadService) GetThreadMessages(threadID string) ([]MessageView, error) {
	messages, err := s.messageRepo.FindByThread(threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve messages: %w", err)
	}

	authorIDSet := make(map[string]struct{})
	for _, msg := range messages {
		authorIDSet[msg.AuthorID] = struct{}{}
	}
	authorIDs := make([]string, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	authors, err := s.userRepo.FindByIDs(authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve authors: %w", err)
	}

	return DenormalizeMessages(messages, buildUserMap(authors)), nil
}

// GetUserThreads 获取用户加入的全部会话。
// 成员关系→会话→全部成员→用户信息，逐批查询后在应用层组装
func (s *ThreadService) GetUserThreads(userID string) ([]ThreadView, error) {
	memberships, err := s.threadRepo.FindParticipantsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve thread memberships: %w", err)
	}

	threadIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		threadIDs = append(threadIDs, m.ThreadID)
	}

	threads, err := s.threadRepo.FindByIDs(threadIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve threads: %w", err)
	}

	allParticipants, err := s.threadRepo.FindParticipantsByThreads(threadIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve participants: %w", err)
	}

	userIDSet := make(map[string]struct{})
	for _, p := range allParticipants {
		userIDSet[p.UserID] = struct{}{}
	}
	userIDs := make([]string, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}

	users, err := s.userRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	return DenormalizeThreads(threads, allParticipants, buildUserMap(users)), nil
}

// GetContactsByQuery 按姓名子串查找联系人，大小写敏感
func (s *ThreadService) GetContactsByQuery(query string) ([]ContactCard, error) {
	users, err := s.userRepo.SearchByName(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return ContactCards(users), nil
}
