package service

import (
	"fmt"

	"esmu-server/internal/model"
	"esmu-server/internal/repository"
	"esmu-server/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordService 处理活动指标记录的增删改查
type RecordService struct {
	recordRepo *repository.RecordRepository
}

func NewRecordService(recordRepo *repository.RecordRepository) *RecordService {
	return &RecordService{recordRepo: recordRepo}
}

// 新建记录
func (s *RecordService) CreateRecord(record *model.Record) (*model.Record, error) {
	if record.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if record.PostingStatus == "" {
		record.PostingStatus = model.PostingStatusNotPosted
	}
	if err := s.recordRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	logger.L.Info("Record created", zap.String("recordID", record.ID), zap.String("title", record.Title))
	return record, nil
}

// RecordPage 分页结果
type RecordPage struct {
	Records []model.Record `json:"records"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// 分页获取记录
func (s *RecordService) GetRecords(limit, offset int) (*RecordPage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	records, total, err := s.recordRepo.FindAll(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve records: %w", err)
	}
	return &RecordPage{Records: records, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateRecord 局部更新。字段名必须在白名单内，title不允许置空
func (s *RecordService) UpdateRecord(id string, updates map[string]interface{}) (*model.Record, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	for field := range updates {
		if !updatableRecordFields[field] {
			return nil, fmt.Errorf("%w: unknown field %q", ErrValidation, field)
		}
	}
	if title, ok := updates["title"]; ok {
		if str, isStr := title.(string); !isStr || str == "" {
			return nil, fmt.Errorf("%w: title must be a non-empty string", ErrValidation)
		}
	}

	rows, err := s.recordRepo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	if rows == 0 {
		// 更新值与现值相同时受影响行数也是0，需要确认记录是否存在
		existing, ferr := s.recordRepo.FindByID(id)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: record %s", ErrNotFound, id)
		}
		return existing, nil
	}
	return s.recordRepo.FindByID(id)
}

// DeleteRecords 批量删除。ID必须是合法UUID
func (s *RecordService) DeleteRecords(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids are required", ErrValidation)
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return 0, fmt.Errorf("%w: invalid id %q", ErrValidation, id)
		}
	}
	deleted, err := s.recordRepo.DeleteByIDs(ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	logger.L.Info("Records deleted", zap.Int64("count", deleted))
	return deleted, nil
}

// 允许局部更新的字段，键为列名（与JSON字段一致）
var updatableRecordFields = map[string]bool{
	"title":                          true,
	"campaign":                       true,
	"product":                        true,
	"stakeholder":                    true,
	"posting_quality":                true,
	"google_drive_files":             true,
	"playbook_link":                  true,
	"uppromote_conversion":           true,
	"asset_status":                   true,
	"month_uploaded":                 true,
	"REVO_pinterest":                 true,
	"pin_accounts_used":              true,
	"pinterest_PIN_click":            true,
	"pinterest_view":                 true,
	"REVO_instagram":                 true,
	"IG_like":                        true,
	"IG_comment":                     true,
	"IG_share":                       true,
	"IG_view":                        true,
	"IG_social_sets_used":            true,
	"partner_IG_link":                true,
	"REVO_twitter":                   true,
	"REVO_tiktok":                    true,
	"REVO_TT_view":                   true,
	"tiktok_accounts_used":           true,
	"partner_tiktok_link":            true,
	"partner_TT_like":                true,
	"partner_TT_comments":            true,
	"partner_TT_comment":             true,
	"partner_TT_share":               true,
	"partner_TT_view":                true,
	"partner_TT_save":                true,
	"TT_dummy_account_used":          true,
	"YT_account_used":                true,
	"partner_YT_link":                true,
	"partner_YT_like":                true,
	"partner_YT_comment":             true,
	"partner_YT_view":                true,
	"partner_YT_save":                true,
	"REVO_clubrevo_youtube":          true,
	"REVO_youtube":                   true,
	"YT_clubrevo_like":               true,
	"YT_clubrevo_view":               true,
	"YT_REVOMADIC_like":              true,
	"YT_REVOMADIC_comment":           true,
	"YT_REVOMADIC_share":             true,
	"YT_REVOMADIC_view":              true,
	"creator_status":                 true,
	"profile":                        true,
	"posting_status":                 true,
	"partner_hq":                     true,
	"portfolio":                      true,
	"contributed_engagement":         true,
	"by_tags":                        true,
	"by_city":                        true,
	"AI_internet_search":             true,
	"facilities_contributed_content": true,
	"image":                          true,
	"video":                          true,
}
