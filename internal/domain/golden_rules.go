package domain

// GoldenRules 是排班金规则的持久化文档，整体读取、整体保存（后写覆盖）
type GoldenRules struct {
	BusinessStart     string             `json:"businessStart"` // HH:MM
	BusinessEnd       string             `json:"businessEnd"`   // HH:MM
	BusinessDays      []int32            `json:"businessDays"`  // 0~6，0 表示周日
	MinShiftHours     float64            `json:"minShiftHours"`
	MaxShiftHours     float64            `json:"maxShiftHours"`
	MinStaffPerGroup  int32              `json:"minStaffPerGroup"`
	Restrictions      map[int64][]int64  `json:"restrictions"`      // 医生 ID -> 禁止排入的机构 ID 列表
	InstitutionGroups map[string][]int64 `json:"institutionGroups"` // 分组名称 -> 机构 ID 列表
}
