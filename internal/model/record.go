package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 发布状态
const (
	PostingStatusNotPosted = "NOT_POSTED"
	PostingStatusPosted    = "POSTED"
	PostingStatusArchived  = "ARCHIVED"
)

// 各平台状态字段未填写时的默认值
const NotPosted = "not-posted"

// Record 活动/社媒指标记录，宽表结构。
// 列名与前端字段保持一致，大小写混用的列显式指定column
type Record struct {
	ID    string `gorm:"type:char(36);primaryKey" json:"id"`
	Title string `gorm:"type:varchar(255);not null" json:"title"`

	Campaign         string `gorm:"type:varchar(255)" json:"campaign"`
	Product          string `gorm:"type:varchar(255)" json:"product"`
	Stakeholder      string `gorm:"type:varchar(255)" json:"stakeholder"`
	PostingQuality   string `gorm:"type:varchar(255)" json:"posting_quality"`
	GoogleDriveFiles string `gorm:"type:varchar(500)" json:"google_drive_files"`
	PlaybookLink     string `gorm:"type:varchar(500)" json:"playbook_link"`

	UppromoteConversion int     `gorm:"default:0" json:"uppromote_conversion"`
	AssetStatus         string  `gorm:"type:varchar(255)" json:"asset_status"`
	MonthUploaded       *string `gorm:"type:varchar(50)" json:"month_uploaded"`

	// Pinterest
	REVOPinterest     string `gorm:"column:REVO_pinterest;type:varchar(255);default:'not-posted'" json:"REVO_pinterest"`
	PinAccountsUsed   string `gorm:"type:varchar(255);default:'not-posted'" json:"pin_accounts_used"`
	PinterestPINClick int    `gorm:"column:pinterest_PIN_click;default:0" json:"pinterest_PIN_click"`
	PinterestView     int    `gorm:"default:0" json:"pinterest_view"`

	// Instagram
	REVOInstagram    string `gorm:"column:REVO_instagram;type:varchar(255)" json:"REVO_instagram"`
	IGLike           int    `gorm:"column:IG_like;default:0" json:"IG_like"`
	IGComment        int    `gorm:"column:IG_comment;default:0" json:"IG_comment"`
	IGShare          int    `gorm:"column:IG_share;default:0" json:"IG_share"`
	IGView           int    `gorm:"column:IG_view;default:0" json:"IG_view"`
	IGSocialSetsUsed string `gorm:"column:IG_social_sets_used;type:varchar(255)" json:"IG_social_sets_used"`
	PartnerIGLink    string `gorm:"column:partner_IG_link;type:varchar(500)" json:"partner_IG_link"`

	// Twitter
	REVOTwitter string `gorm:"column:REVO_twitter;type:varchar(255);default:'not-posted'" json:"REVO_twitter"`

	// TikTok
	REVOTiktok         string `gorm:"column:REVO_tiktok;type:varchar(255);default:'not-posted'" json:"REVO_tiktok"`
	REVOTTView         int    `gorm:"column:REVO_TT_view;default:0" json:"REVO_TT_view"`
	TiktokAccountsUsed string `gorm:"type:varchar(255);default:'not-posted'" json:"tiktok_accounts_used"`
	PartnerTiktokLink  string `gorm:"type:varchar(500);default:'not-posted'" json:"partner_tiktok_link"`
	PartnerTTLike      int    `gorm:"column:partner_TT_like;default:0" json:"partner_TT_like"`
	PartnerTTComments  int    `gorm:"column:partner_TT_comments;default:0" json:"partner_TT_comments"`
	PartnerTTComment   string `gorm:"column:partner_TT_comment;type:varchar(500)" json:"partner_TT_comment"`
	PartnerTTShare     int    `gorm:"column:partner_TT_share;default:0" json:"partner_TT_share"`
	PartnerTTView      int    `gorm:"column:partner_TT_view;default:0" json:"partner_TT_view"`
	PartnerTTSave      int    `gorm:"column:partner_TT_save;default:0" json:"partner_TT_save"`
	TTDummyAccountUsed string `gorm:"column:TT_dummy_account_used;type:varchar(255)" json:"TT_dummy_account_used"`

	// YouTube
	YTAccountUsed       string `gorm:"column:YT_account_used;type:varchar(255);default:'not-posted'" json:"YT_account_used"`
	PartnerYTLink       string `gorm:"column:partner_YT_link;type:varchar(500);default:'not-posted'" json:"partner_YT_link"`
	PartnerYTLike       int    `gorm:"column:partner_YT_like;default:0" json:"partner_YT_like"`
	PartnerYTComment    int    `gorm:"column:partner_YT_comment;default:0" json:"partner_YT_comment"`
	PartnerYTView       int    `gorm:"column:partner_YT_view;default:0" json:"partner_YT_view"`
	PartnerYTSave       int    `gorm:"column:partner_YT_save;default:0" json:"partner_YT_save"`
	REVOClubrevoYoutube string `gorm:"column:REVO_clubrevo_youtube;type:varchar(255);default:'not-posted'" json:"REVO_clubrevo_youtube"`
	REVOYoutube         string `gorm:"column:REVO_youtube;type:varchar(255);default:'not-posted'" json:"REVO_youtube"`
	YTClubrevoLike      int    `gorm:"column:YT_clubrevo_like;default:0" json:"YT_clubrevo_like"`
	YTClubrevoView      int    `gorm:"column:YT_clubrevo_view;default:0" json:"YT_clubrevo_view"`
	YTREVOMADICLike     int    `gorm:"column:YT_REVOMADIC_like;default:0" json:"YT_REVOMADIC_like"`
	YTREVOMADICComment  int    `gorm:"column:YT_REVOMADIC_comment;default:0" json:"YT_REVOMADIC_comment"`
	YTREVOMADICShare    int    `gorm:"column:YT_REVOMADIC_share;default:0" json:"YT_REVOMADIC_share"`
	YTREVOMADICView     int    `gorm:"column:YT_REVOMADIC_view;default:0" json:"YT_REVOMADIC_view"`

	CreatorStatus                string `gorm:"type:varchar(255)" json:"creator_status"`
	Profile                      string `gorm:"type:varchar(500)" json:"profile"`
	PostingStatus                string `gorm:"type:varchar(20);default:'NOT_POSTED'" json:"posting_status"`
	PartnerHQ                    string `gorm:"column:partner_hq;type:varchar(255)" json:"partner_hq"`
	Portfolio                    string `gorm:"type:varchar(500)" json:"portfolio"`
	ContributedEngagement        int    `gorm:"default:0" json:"contributed_engagement"`
	ByTags                       string `gorm:"type:varchar(500)" json:"by_tags"`
	ByCity                       string `gorm:"type:varchar(255)" json:"by_city"`
	AIInternetSearch             string `gorm:"column:AI_internet_search;type:varchar(500)" json:"AI_internet_search"`
	FacilitiesContributedContent string `gorm:"type:varchar(500)" json:"facilities_contributed_content"`
	Image                        string `gorm:"type:varchar(500)" json:"image"`
	Video                        string `gorm:"type:varchar(500)" json:"video"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
