package rules

import (
	"fmt"
	"time"
)

type ViolationKind string

const (
	ViolationOutOfBusinessDay      ViolationKind = "OUT_OF_BUSINESS_DAY"
	ViolationOutOfBusinessHours    ViolationKind = "OUT_OF_BUSINESS_HOURS"
	ViolationInvalidTimeRange      ViolationKind = "INVALID_TIME_RANGE"
	ViolationDurationOutOfBounds   ViolationKind = "DURATION_OUT_OF_BOUNDS"
	ViolationRestrictedInstitution ViolationKind = "RESTRICTED_INSTITUTION"
)

// Violation 描述候选排班违反的一条规则。违规是数据而不是错误，
// 校验只负责收集并按检查顺序返回，接受与否由调用方根据列表是否为空决定
type Violation struct {
	Kind          ViolationKind `json:"kind"`
	PhysicianID   int64         `json:"physicianID,omitempty"`
	InstitutionID int64         `json:"institutionID,omitempty"`
	Date          string        `json:"date,omitempty"`
	StartTime     string        `json:"startTime,omitempty"`
	EndTime       string        `json:"endTime,omitempty"`
	Message       string        `json:"message"`
}

// Candidate 是一条待校验的候选排班，各字段格式在草稿录入时已经检查过
type Candidate struct {
	PhysicianID   int64  `json:"physicianID"`
	InstitutionID int64  `json:"institutionID"`
	Date          string `json:"date"`      // 2006-01-02
	StartTime     string `json:"startTime"` // HH:MM
	EndTime       string `json:"endTime"`   // HH:MM
	GroupTag      string `json:"groupTag"`
}

// Validate 对照金规则校验候选排班，按固定顺序返回违规列表：
// 工作日 -> 开始时间下界 -> 结束时间上界 -> 时间范围与时长上下限 -> 机构限制。
// 空列表表示候选可以接受。校验不修改规则，也不依赖任何外部服务
func Validate(rs *RuleSet, c *Candidate) []Violation {
	return validate(rs, c, true, true, true)
}

func validate(rs *RuleSet, c *Candidate, checkDay bool, checkTime bool, checkRestriction bool) []Violation {
	violations := make([]Violation, 0)

	if checkDay {
		// 字段在录入时已校验过格式，这里与解析错误无关
		date, _ := time.Parse(dateLayout, c.Date)
		if !rs.BusinessDays[int32(date.Weekday())] {
			violations = append(violations, Violation{
				Kind:    ViolationOutOfBusinessDay,
				Date:    c.Date,
				Message: fmt.Sprintf("%s 不在工作日范围内", c.Date),
			})
		}
	}

	if checkTime {
		businessStart, _ := parseTimeOfDay(rs.BusinessStart)
		businessEnd, _ := parseTimeOfDay(rs.BusinessEnd)
		startMinute, _ := parseTimeOfDay(c.StartTime)
		endMinute, _ := parseTimeOfDay(c.EndTime)

		// 两条边界独立检查，早于下界和晚于上界各报一条
		if startMinute < businessStart {
			violations = append(violations, Violation{
				Kind:      ViolationOutOfBusinessHours,
				StartTime: c.StartTime,
				Message:   fmt.Sprintf("开始时间 %s 早于工作时间 %s", c.StartTime, rs.BusinessStart),
			})
		}
		if endMinute > businessEnd {
			violations = append(violations, Violation{
				Kind:    ViolationOutOfBusinessHours,
				EndTime: c.EndTime,
				Message: fmt.Sprintf("结束时间 %s 晚于工作时间 %s", c.EndTime, rs.BusinessEnd),
			})
		}

		duration := endMinute - startMinute
		if duration <= 0 {
			// 非正时长没有意义，跳过时长上下限检查
			violations = append(violations, Violation{
				Kind:      ViolationInvalidTimeRange,
				StartTime: c.StartTime,
				EndTime:   c.EndTime,
				Message:   "结束时间必须晚于开始时间",
			})
		} else {
			minMinutes := int(rs.MinShiftHours * 60)
			maxMinutes := int(rs.MaxShiftHours * 60)
			if duration < minMinutes {
				violations = append(violations, Violation{
					Kind:      ViolationDurationOutOfBounds,
					StartTime: c.StartTime,
					EndTime:   c.EndTime,
					Message:   fmt.Sprintf("班次时长不足 %.3g 小时", rs.MinShiftHours),
				})
			} else if duration > maxMinutes {
				violations = append(violations, Violation{
					Kind:      ViolationDurationOutOfBounds,
					StartTime: c.StartTime,
					EndTime:   c.EndTime,
					Message:   fmt.Sprintf("班次时长超过 %.3g 小时", rs.MaxShiftHours),
				})
			}
		}
	}

	if checkRestriction {
		if rs.IsRestricted(c.PhysicianID, c.InstitutionID) {
			violations = append(violations, Violation{
				Kind:          ViolationRestrictedInstitution,
				PhysicianID:   c.PhysicianID,
				InstitutionID: c.InstitutionID,
				Message:       fmt.Sprintf("医生 %d 被禁止排入机构 %d", c.PhysicianID, c.InstitutionID),
			})
		}
	}

	return violations
}
