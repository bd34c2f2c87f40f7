package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 工作时间 08:00~20:00，工作日周一到周五，班次 3~6 小时
func newTestRuleSet(t *testing.T) *RuleSet {
	t.Helper()

	rs := NewRuleSet()
	require.NoError(t, rs.SetBusinessWindow("08:00", "20:00"))
	require.NoError(t, rs.SetBusinessDays([]int32{1, 2, 3, 4, 5}))
	require.NoError(t, rs.SetDurationBounds(3, 6))
	return rs
}

func kindsOf(violations []Violation) []ViolationKind {
	kinds := make([]ViolationKind, 0, len(violations))
	for _, v := range violations {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}

func TestValidateAcceptsCompliantCandidate(t *testing.T) {
	rs := newTestRuleSet(t)

	// 2025-03-11 是周二
	c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-11", StartTime: "09:00", EndTime: "12:00"}
	assert.Empty(t, Validate(rs, c))
}

func TestValidateOutOfBusinessDay(t *testing.T) {
	rs := newTestRuleSet(t)

	// 2025-03-08 是周六，其余字段全部合规
	c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-08", StartTime: "09:00", EndTime: "12:00"}
	violations := Validate(rs, c)
	assert.Equal(t, []ViolationKind{ViolationOutOfBusinessDay}, kindsOf(violations))
}

func TestValidateEarlyStartAndShortDuration(t *testing.T) {
	rs := newTestRuleSet(t)

	// 周二 07:00~09:00：开始早于工作时间，且时长只有 2 小时
	c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-11", StartTime: "07:00", EndTime: "09:00"}
	kinds := kindsOf(Validate(rs, c))
	assert.Contains(t, kinds, ViolationOutOfBusinessHours)
	assert.Contains(t, kinds, ViolationDurationOutOfBounds)
}

func TestValidateBothBoundsViolated(t *testing.T) {
	rs := newTestRuleSet(t)

	// 开始早于下界、结束晚于上界，两条边界各报一条
	c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-11", StartTime: "07:00", EndTime: "21:00"}
	violations := Validate(rs, c)

	hourViolations := 0
	for _, v := range violations {
		if v.Kind == ViolationOutOfBusinessHours {
			hourViolations++
		}
	}
	assert.Equal(t, 2, hourViolations)
}

func TestValidateInvalidTimeRangeSkipsDurationBounds(t *testing.T) {
	rs := newTestRuleSet(t)

	c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-11", StartTime: "12:00", EndTime: "09:00"}
	kinds := kindsOf(Validate(rs, c))
	assert.Contains(t, kinds, ViolationInvalidTimeRange)
	assert.NotContains(t, kinds, ViolationDurationOutOfBounds)
}

func TestValidateRestrictedInstitution(t *testing.T) {
	rs := newTestRuleSet(t)
	rs.ToggleRestriction(1, 101)

	// 日期和时间全部合规，只有机构限制一条违规
	c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-11", StartTime: "09:00", EndTime: "12:00"}
	violations := Validate(rs, c)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationRestrictedInstitution, violations[0].Kind)
	assert.Equal(t, int64(1), violations[0].PhysicianID)
	assert.Equal(t, int64(101), violations[0].InstitutionID)

	// 其他医生不受影响
	other := &Candidate{PhysicianID: 2, InstitutionID: 101, Date: "2025-03-11", StartTime: "09:00", EndTime: "12:00"}
	assert.Empty(t, Validate(rs, other))
}

func TestValidateBoundaryValues(t *testing.T) {
	rs := newTestRuleSet(t)

	tests := []struct {
		name  string
		start string
		end   string
		ok    bool
	}{
		{"贴着工作时间下界", "08:00", "11:00", true},
		{"贴着工作时间上界", "17:00", "20:00", true},
		{"时长恰好等于下限", "09:00", "12:00", true},
		{"时长恰好等于上限", "09:00", "15:00", true},
		{"时长超过上限一分钟", "09:00", "15:01", false},
		{"时长低于下限一分钟", "09:00", "11:59", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-11", StartTime: tt.start, EndTime: tt.end}
			violations := Validate(rs, c)
			if tt.ok {
				assert.Empty(t, violations)
			} else {
				assert.NotEmpty(t, violations)
			}
		})
	}
}

func TestValidateIsPureAndOrderStable(t *testing.T) {
	rs := newTestRuleSet(t)
	rs.ToggleRestriction(1, 101)

	// 周六 + 早于下界 + 时长不足 + 机构限制，一次触发多条
	c := &Candidate{PhysicianID: 1, InstitutionID: 101, Date: "2025-03-08", StartTime: "07:00", EndTime: "08:00"}

	first := Validate(rs, c)
	second := Validate(rs, c)
	assert.Equal(t, first, second)

	// 违规按检查顺序返回
	assert.Equal(t, []ViolationKind{
		ViolationOutOfBusinessDay,
		ViolationOutOfBusinessHours,
		ViolationDurationOutOfBounds,
		ViolationRestrictedInstitution,
	}, kindsOf(first))
}
