package domain

import "time"

type InstitutionCategory string

const (
	CategoryGeneralHospital  InstitutionCategory = "综合医院"
	CategorySpecialtyClinic  InstitutionCategory = "专科门诊"
	CategoryCommunityStation InstitutionCategory = "社区服务站"
)

type Institution struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Abbreviation string              `json:"abbreviation"`
	City         string              `json:"city"`
	Category     InstitutionCategory `json:"category"`
	CreatedAt    time.Time           `json:"createdAt"`
	Version      int32               `json:"-"`
}
