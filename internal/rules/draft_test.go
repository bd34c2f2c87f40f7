package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanceToConfirm(t *testing.T, m *DraftMachine) {
	t.Helper()

	require.NoError(t, m.SelectPhysician(1))
	require.NoError(t, m.SelectInstitution(101))
	require.NoError(t, m.SelectDate("2025-03-11"))
	require.NoError(t, m.SelectTime("09:00", "12:00"))
	require.NoError(t, m.SelectGroupTag("白班"))
}

func TestDraftHappyPath(t *testing.T) {
	rs := newTestRuleSet(t)
	m := NewDraftMachine(rs)

	assert.Equal(t, StepPhysician, m.Draft().Step)
	advanceToConfirm(t, m)
	assert.Equal(t, StepConfirm, m.Draft().Step)

	candidate, violations, err := m.Confirm()
	require.NoError(t, err)
	assert.Empty(t, violations)
	require.NotNil(t, candidate)
	assert.Equal(t, int64(1), candidate.PhysicianID)
	assert.Equal(t, int64(101), candidate.InstitutionID)
	assert.Equal(t, "2025-03-11", candidate.Date)
	assert.Equal(t, "09:00", candidate.StartTime)
	assert.Equal(t, "12:00", candidate.EndTime)
	assert.Equal(t, "白班", candidate.GroupTag)

	// 提交后进入终态，不再接受任何步骤
	assert.Equal(t, StepCommitted, m.Draft().Step)
	require.ErrorIs(t, m.SelectPhysician(2), ErrInvalidStepOrder)
	_, _, err = m.Confirm()
	require.ErrorIs(t, err, ErrInvalidStepOrder)
}

func TestDraftRejectsOutOfOrderCalls(t *testing.T) {
	rs := newTestRuleSet(t)
	m := NewDraftMachine(rs)

	// 第一步只能录入医生
	require.ErrorIs(t, m.SelectInstitution(101), ErrInvalidStepOrder)
	require.ErrorIs(t, m.SelectDate("2025-03-11"), ErrInvalidStepOrder)
	require.ErrorIs(t, m.SelectTime("09:00", "12:00"), ErrInvalidStepOrder)
	require.ErrorIs(t, m.SelectGroupTag("白班"), ErrInvalidStepOrder)
	_, _, err := m.Confirm()
	require.ErrorIs(t, err, ErrInvalidStepOrder)

	require.NoError(t, m.SelectPhysician(1))
	require.NoError(t, m.SelectInstitution(101))

	// 乱序调用不应该改变已录入的字段
	require.ErrorIs(t, m.SelectPhysician(2), ErrInvalidStepOrder)
	draft := m.Draft()
	assert.Equal(t, int64(1), draft.PhysicianID)
	assert.Equal(t, int64(101), draft.InstitutionID)
	assert.Equal(t, StepDate, draft.Step)
}

func TestDraftRejectsInvalidInput(t *testing.T) {
	rs := newTestRuleSet(t)
	m := NewDraftMachine(rs)

	require.ErrorIs(t, m.SelectPhysician(0), ErrInvalidInput)
	require.NoError(t, m.SelectPhysician(1))
	require.ErrorIs(t, m.SelectInstitution(-3), ErrInvalidInput)
	require.NoError(t, m.SelectInstitution(101))
	require.ErrorIs(t, m.SelectDate("2025/03/11"), ErrInvalidInput)
	require.NoError(t, m.SelectDate("2025-03-11"))

	// 原始输入中结束时间不晚于开始时间直接拒绝，不进入校验
	require.ErrorIs(t, m.SelectTime("12:00", "09:00"), ErrInvalidInput)
	require.ErrorIs(t, m.SelectTime("12:00", "12:00"), ErrInvalidInput)
	require.ErrorIs(t, m.SelectTime("九点", "12:00"), ErrInvalidInput)

	// 被拒绝的输入不应该推进状态
	assert.Equal(t, StepTime, m.Draft().Step)
	assert.Empty(t, m.Draft().StartTime)

	require.NoError(t, m.SelectTime("09:00", "12:00"))

	// 标签允许为空
	require.NoError(t, m.SelectGroupTag(""))
	assert.Equal(t, StepConfirm, m.Draft().Step)
}

func TestDraftConfirmWithViolationsStaysInConfirm(t *testing.T) {
	rs := newTestRuleSet(t)
	rs.ToggleRestriction(1, 101)
	m := NewDraftMachine(rs)

	advanceToConfirm(t, m)

	candidate, violations, err := m.Confirm()
	require.NoError(t, err)
	assert.Nil(t, candidate)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationRestrictedInstitution, violations[0].Kind)

	// 校验不通过时机器停留在确认步骤，字段保持不变
	assert.Equal(t, StepConfirm, m.Draft().Step)
	assert.Equal(t, int64(1), m.Draft().PhysicianID)

	// 调用方解除限制后可以再次确认
	rs.ToggleRestriction(1, 101)
	candidate, violations, err = m.Confirm()
	require.NoError(t, err)
	assert.Empty(t, violations)
	require.NotNil(t, candidate)
}

func TestDraftResetFromAnyState(t *testing.T) {
	rs := newTestRuleSet(t)
	m := NewDraftMachine(rs)

	// 中途放弃
	require.NoError(t, m.SelectPhysician(1))
	require.NoError(t, m.SelectInstitution(101))
	m.Reset()

	draft := m.Draft()
	assert.Equal(t, StepPhysician, draft.Step)
	assert.Zero(t, draft.PhysicianID)
	assert.Zero(t, draft.InstitutionID)

	// 重置后可以重新完整走一遍
	advanceToConfirm(t, m)
	_, violations, err := m.Confirm()
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestDraftEagerValidation(t *testing.T) {
	rs := newTestRuleSet(t)
	rs.ToggleRestriction(1, 101)
	m := NewDraftMachine(rs)

	// 还没有录入任何字段时不报任何违规
	assert.Empty(t, m.Validate())

	require.NoError(t, m.SelectPhysician(1))
	assert.Empty(t, m.Validate())

	// 医生和机构齐全后就能提前发现机构限制
	require.NoError(t, m.SelectInstitution(101))
	kinds := kindsOf(m.Validate())
	assert.Equal(t, []ViolationKind{ViolationRestrictedInstitution}, kinds)

	// 录入周六日期后增加工作日违规，但不对还没录入的时间报违规
	require.NoError(t, m.SelectDate("2025-03-08"))
	kinds = kindsOf(m.Validate())
	assert.Equal(t, []ViolationKind{ViolationOutOfBusinessDay, ViolationRestrictedInstitution}, kinds)

	require.NoError(t, m.SelectTime("07:00", "09:00"))
	kinds = kindsOf(m.Validate())
	assert.Equal(t, []ViolationKind{
		ViolationOutOfBusinessDay,
		ViolationOutOfBusinessHours,
		ViolationDurationOutOfBounds,
		ViolationRestrictedInstitution,
	}, kinds)
}
