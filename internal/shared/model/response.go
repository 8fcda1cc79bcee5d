package model

import "time"

// ImportSourceCSV CSV 批量导入的来源标记
const ImportSourceCSV = "csv_upload"

// SurveyResponse 一份问卷回答
//
// 所有问卷字段均为可选字符串，空串视为缺失。JSON/BSON 均标记 omitempty，
// 因此 MongoDB 文档只包含实际出现的键（与上游导出工具的行为一致）。
// CreatedAt/CreatedBy 在创建时必填，由服务层统一盖戳。
type SurveyResponse struct {
	ID string `json:"id" bson:"_id" db:"id"`

	Location                string `json:"location,omitempty" bson:"location,omitempty" db:"location"`
	AgeGroup                string `json:"age_group,omitempty" bson:"age_group,omitempty" db:"age_group"`
	HouseholdSize           string `json:"household_size,omitempty" bson:"household_size,omitempty" db:"household_size"`
	Satisfaction            string `json:"satisfaction,omitempty" bson:"satisfaction,omitempty" db:"satisfaction"`
	FutureOutlook           string `json:"future_outlook,omitempty" bson:"future_outlook,omitempty" db:"future_outlook"`
	TopicsHousing           string `json:"topics_housing,omitempty" bson:"topics_housing,omitempty" db:"topics_housing"`
	TopicsSecurity          string `json:"topics_security,omitempty" bson:"topics_security,omitempty" db:"topics_security"`
	TopicsEducation         string `json:"topics_education,omitempty" bson:"topics_education,omitempty" db:"topics_education"`
	TopicsTraffic           string `json:"topics_traffic,omitempty" bson:"topics_traffic,omitempty" db:"topics_traffic"`
	TopicsEnvironment       string `json:"topics_environment,omitempty" bson:"topics_environment,omitempty" db:"topics_environment"`
	TopicsCommunity         string `json:"topics_community,omitempty" bson:"topics_community,omitempty" db:"topics_community"`
	SocialMediaUsage        string `json:"social_media_usage,omitempty" bson:"social_media_usage,omitempty" db:"social_media_usage"`
	Facebook                string `json:"facebook,omitempty" bson:"facebook,omitempty" db:"facebook"`
	Instagram               string `json:"instagram,omitempty" bson:"instagram,omitempty" db:"instagram"`
	TikTok                  string `json:"tiktok,omitempty" bson:"tiktok,omitempty" db:"tiktok"`
	YouTube                 string `json:"youtube,omitempty" bson:"youtube,omitempty" db:"youtube"`
	WhatsApp                string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty" db:"whatsapp"`
	InfoSourceSocial        string `json:"info_source_social,omitempty" bson:"info_source_social,omitempty" db:"info_source_social"`
	InfoSourcePrint         string `json:"info_source_print,omitempty" bson:"info_source_print,omitempty" db:"info_source_print"`
	InfoSourceTV            string `json:"info_source_tv,omitempty" bson:"info_source_tv,omitempty" db:"info_source_tv"`
	InfoSourceNewsletter    string `json:"info_source_newsletter,omitempty" bson:"info_source_newsletter,omitempty" db:"info_source_newsletter"`
	InfoSourceEvents        string `json:"info_source_events,omitempty" bson:"info_source_events,omitempty" db:"info_source_events"`
	PoliticalRepresentation string `json:"political_representation,omitempty" bson:"political_representation,omitempty" db:"political_representation"`
	KiezmacherKnown         string `json:"kiezmacher_known,omitempty" bson:"kiezmacher_known,omitempty" db:"kiezmacher_known"`
	EngagementWish          string `json:"engagement_wish,omitempty" bson:"engagement_wish,omitempty" db:"engagement_wish"`
	FutureWishes            string `json:"future_wishes,omitempty" bson:"future_wishes,omitempty" db:"future_wishes"`

	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
	CreatedBy    string    `json:"created_by" bson:"created_by" db:"created_by"`
	UpdatedAt    time.Time `json:"updated_at,omitzero" bson:"updated_at,omitempty" db:"updated_at"`
	UpdatedBy    string    `json:"updated_by,omitempty" bson:"updated_by,omitempty" db:"updated_by"`
	ImportSource string    `json:"import_source,omitempty" bson:"import_source,omitempty" db:"import_source"`
}

// AnswerFields 问卷字段的规范顺序
//
// CSV 导入映射和导出表头都按此顺序遍历，保证输出列序稳定。
var AnswerFields = []string{
	"location",
	"age_group",
	"household_size",
	"satisfaction",
	"future_outlook",
	"topics_housing",
	"topics_security",
	"topics_education",
	"topics_traffic",
	"topics_environment",
	"topics_community",
	"social_media_usage",
	"facebook",
	"instagram",
	"tiktok",
	"youtube",
	"whatsapp",
	"info_source_social",
	"info_source_print",
	"info_source_tv",
	"info_source_newsletter",
	"info_source_events",
	"political_representation",
	"kiezmacher_known",
	"engagement_wish",
	"future_wishes",
}

// Answer 按字段名读取问卷字段值，未知字段返回空串
func (r *SurveyResponse) Answer(field string) string {
	switch field {
	case "location":
		return r.Location
	case "age_group":
		return r.AgeGroup
	case "household_size":
		return r.HouseholdSize
	case "satisfaction":
		return r.Satisfaction
	case "future_outlook":
		return r.FutureOutlook
	case "topics_housing":
		return r.TopicsHousing
	case "topics_security":
		return r.TopicsSecurity
	case "topics_education":
		return r.TopicsEducation
	case "topics_traffic":
		return r.TopicsTraffic
	case "topics_environment":
		return r.TopicsEnvironment
	case "topics_community":
		return r.TopicsCommunity
	case "social_media_usage":
		return r.SocialMediaUsage
	case "facebook":
		return r.Facebook
	case "instagram":
		return r.Instagram
	case "tiktok":
		return r.TikTok
	case "youtube":
		return r.YouTube
	case "whatsapp":
		return r.WhatsApp
	case "info_source_social":
		return r.InfoSourceSocial
	case "info_source_print":
		return r.InfoSourcePrint
	case "info_source_tv":
		return r.InfoSourceTV
	case "info_source_newsletter":
		return r.InfoSourceNewsletter
	case "info_source_events":
		return r.InfoSourceEvents
	case "political_representation":
		return r.PoliticalRepresentation
	case "kiezmacher_known":
		return r.KiezmacherKnown
	case "engagement_wish":
		return r.EngagementWish
	case "future_wishes":
		return r.FutureWishes
	default:
		return ""
	}
}

// SetAnswer 按字段名写入问卷字段值，未知字段忽略
func (r *SurveyResponse) SetAnswer(field, value string) {
	switch field {
	case "location":
		r.Location = value
	case "age_group":
		r.AgeGroup = value
	case "household_size":
		r.HouseholdSize = value
	case "satisfaction":
		r.Satisfaction = value
	case "future_outlook":
		r.FutureOutlook = value
	case "topics_housing":
		r.TopicsHousing = value
	case "topics_security":
		r.TopicsSecurity = value
	case "topics_education":
		r.TopicsEducation = value
	case "topics_traffic":
		r.TopicsTraffic = value
	case "topics_environment":
		r.TopicsEnvironment = value
	case "topics_community":
		r.TopicsCommunity = value
	case "social_media_usage":
		r.SocialMediaUsage = value
	case "facebook":
		r.Facebook = value
	case "instagram":
		r.Instagram = value
	case "tiktok":
		r.TikTok = value
	case "youtube":
		r.YouTube = value
	case "whatsapp":
		r.WhatsApp = value
	case "info_source_social":
		r.InfoSourceSocial = value
	case "info_source_print":
		r.InfoSourcePrint = value
	case "info_source_tv":
		r.InfoSourceTV = value
	case "info_source_newsletter":
		r.InfoSourceNewsletter = value
	case "info_source_events":
		r.InfoSourceEvents = value
	case "political_representation":
		r.PoliticalRepresentation = value
	case "kiezmacher_known":
		r.KiezmacherKnown = value
	case "engagement_wish":
		r.EngagementWish = value
	case "future_wishes":
		r.FutureWishes = value
	}
}

// ValueCount 按值分组的计数结果
type ValueCount struct {
	Value string `json:"value" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}
