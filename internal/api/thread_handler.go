package api

import (
	"errors"
	"net/http"

	"esmu-server/internal/service"
	"esmu-server/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 处理会话和消息相关的HTTP请求
type ThreadHandler struct {
	threadService *service.ThreadService
}

func NewThreadHandler(threadService *service.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

// 业务错误映射到HTTP状态码
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// 创建会话
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	var req service.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	thread, err := h.threadService.CreateThread(req)
	if err != nil {
		logger.L.Warn("CreateThread failed", zap.Error(err))
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"thread": thread})
}

type updateThreadNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// 修改会话名称
func (h *ThreadHandler) UpdateThreadName(c *gin.Context) {
	var req updateThreadNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	thread, err := h.threadService.UpdateThreadName(c.Param("thread_id"), req.Name)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"thread": thread})
}

// 发送消息。multipart表单：content、type，FILE类型可带file字段
func (h *ThreadHandler) AddMessage(c *gin.Context) {
	authorID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	threadID := c.Param("thread_id")
	content := c.PostForm("content")
	msgType := c.PostForm("type")

	// 文件是可选的
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	message, err := h.threadService.AddMessage(threadID, authorID, content, msgType, file)
	if err != nil {
		logger.L.Error("AddMessage failed", zap.String("threadID", threadID), zap.Error(err))
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// 编辑消息，只能编辑本人在该会话内发送的消息
func (h *ThreadHandler) EditMessage(c *gin.Context) {
	authorID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	message, err := h.threadService.EditMessage(
		c.Param("message_id"), req.Content, c.Param("thread_id"), authorID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// 删除消息
func (h *ThreadHandler) DeleteMessage(c *gin.Context) {
	if err := h.threadService.DeleteMessage(c.Param("message_id")); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

type replyRequest struct {
	Content string `json:"content" binding:"required"`
}

// 回复消息
func (h *ThreadHandler) ReplyToMessage(c *gin.Context) {
	authorID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	reply, err := h.threadService.ReplyToMessage(
		c.Param("thread_id"), authorID, c.Param("message_id"), req.Content)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": reply})
}

// 标记已读
func (h *ThreadHandler) MarkMessagesAsRead(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.threadService.MarkMessagesAsRead(c.Param("thread_id"), userID); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "messages marked as read"})
}

// 获取会话消息
func (h *ThreadHandler) GetThreadMessages(c *gin.Context) {
	messages, err := h.threadService.GetThreadMessages(c.Param("thread_id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// 获取当前用户的会话列表
func (h *ThreadHandler) GetUserThreads(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	threads, err := h.threadService.GetUserThreads(userID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

// 联系人搜索
func (h *ThreadHandler) GetContacts(c *gin.Context) {
	contacts, err := h.threadService.GetContactsByQuery(c.Query("query"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}
