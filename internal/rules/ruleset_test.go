package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBusinessWindow(t *testing.T) {
	rs := NewRuleSet()

	require.NoError(t, rs.SetBusinessWindow("09:30", "18:00"))
	assert.Equal(t, "09:30", rs.BusinessStart)
	assert.Equal(t, "18:00", rs.BusinessEnd)

	// 非法输入不应该修改已有配置
	require.ErrorIs(t, rs.SetBusinessWindow("18:00", "09:30"), ErrInvalidBusinessWindow)
	require.ErrorIs(t, rs.SetBusinessWindow("12:00", "12:00"), ErrInvalidBusinessWindow)
	require.Error(t, rs.SetBusinessWindow("9点", "18:00"))
	assert.Equal(t, "09:30", rs.BusinessStart)
	assert.Equal(t, "18:00", rs.BusinessEnd)
}

func TestSetBusinessDays(t *testing.T) {
	rs := NewRuleSet()

	require.NoError(t, rs.SetBusinessDays([]int32{0, 6}))
	assert.Equal(t, map[int32]bool{0: true, 6: true}, rs.BusinessDays)

	require.ErrorIs(t, rs.SetBusinessDays([]int32{}), ErrEmptyBusinessDays)
	require.ErrorIs(t, rs.SetBusinessDays([]int32{1, 7}), ErrInvalidBusinessDay)
	require.ErrorIs(t, rs.SetBusinessDays([]int32{-1}), ErrInvalidBusinessDay)
	assert.Equal(t, map[int32]bool{0: true, 6: true}, rs.BusinessDays)
}

func TestSetDurationBounds(t *testing.T) {
	rs := NewRuleSet()

	require.NoError(t, rs.SetDurationBounds(2, 8))
	assert.Equal(t, float64(2), rs.MinShiftHours)
	assert.Equal(t, float64(8), rs.MaxShiftHours)

	require.ErrorIs(t, rs.SetDurationBounds(8, 2), ErrInvalidDurationBounds)
	require.ErrorIs(t, rs.SetDurationBounds(0, 2), ErrNonPositiveDuration)
	require.ErrorIs(t, rs.SetDurationBounds(2, -1), ErrNonPositiveDuration)

	// 上下限相等是合法的
	require.NoError(t, rs.SetDurationBounds(4, 4))
}

func TestGroupRegistry(t *testing.T) {
	rs := NewRuleSet()

	require.NoError(t, rs.CreateGroup("北区"))
	require.ErrorIs(t, rs.CreateGroup("北区"), ErrGroupExists)
	require.ErrorIs(t, rs.CreateGroup(""), ErrEmptyGroupName)

	// 新分组没有任何成员
	assert.Empty(t, rs.Groups["北区"])

	require.NoError(t, rs.ToggleGroupMember("北区", 101))
	require.NoError(t, rs.ToggleGroupMember("北区", 102))
	assert.Equal(t, map[int64]bool{101: true, 102: true}, rs.Groups["北区"])

	// 再次翻转同一个成员即为移除
	require.NoError(t, rs.ToggleGroupMember("北区", 101))
	assert.Equal(t, map[int64]bool{102: true}, rs.Groups["北区"])

	require.ErrorIs(t, rs.ToggleGroupMember("南区", 101), ErrGroupNotFound)

	require.NoError(t, rs.DeleteGroup("北区"))
	require.ErrorIs(t, rs.DeleteGroup("北区"), ErrGroupNotFound)
}

func TestToggleRestrictionIsSelfInverse(t *testing.T) {
	rs := NewRuleSet()

	rs.ToggleRestriction(1, 101)
	assert.True(t, rs.IsRestricted(1, 101))

	rs.ToggleRestriction(1, 101)
	assert.False(t, rs.IsRestricted(1, 101))

	// 最后一条限制移除后，医生对应的键也应该删除
	_, exists := rs.Restrictions[1]
	assert.False(t, exists)
}

func TestToggleGroupRestriction(t *testing.T) {
	rs := NewRuleSet()

	require.NoError(t, rs.CreateGroup("北区"))
	require.NoError(t, rs.ToggleGroupMember("北区", 101))
	require.NoError(t, rs.ToggleGroupMember("北区", 102))

	// 没有任何限制时整体添加
	require.NoError(t, rs.ToggleGroupRestriction(1, "北区"))
	assert.True(t, rs.IsRestricted(1, 101))
	assert.True(t, rs.IsRestricted(1, 102))

	// 全部都已限制时整体解除
	require.NoError(t, rs.ToggleGroupRestriction(1, "北区"))
	assert.False(t, rs.IsRestricted(1, 101))
	assert.False(t, rs.IsRestricted(1, 102))
	_, exists := rs.Restrictions[1]
	assert.False(t, exists)

	require.ErrorIs(t, rs.ToggleGroupRestriction(1, "南区"), ErrGroupNotFound)
}

func TestToggleGroupRestrictionPartiallyRestricted(t *testing.T) {
	rs := NewRuleSet()

	require.NoError(t, rs.CreateGroup("北区"))
	require.NoError(t, rs.ToggleGroupMember("北区", 101))
	require.NoError(t, rs.ToggleGroupMember("北区", 102))

	// 只限制了部分成员时，翻转应该补齐而不是解除
	rs.ToggleRestriction(1, 101)
	require.NoError(t, rs.ToggleGroupRestriction(1, "北区"))
	assert.True(t, rs.IsRestricted(1, 101))
	assert.True(t, rs.IsRestricted(1, 102))

	// 解除分组限制不应该影响分组之外的限制
	rs.ToggleRestriction(1, 201)
	require.NoError(t, rs.ToggleGroupRestriction(1, "北区"))
	assert.False(t, rs.IsRestricted(1, 101))
	assert.False(t, rs.IsRestricted(1, 102))
	assert.True(t, rs.IsRestricted(1, 201))
}

func TestDeleteGroupKeepsRestrictions(t *testing.T) {
	rs := NewRuleSet()

	require.NoError(t, rs.CreateGroup("北区"))
	require.NoError(t, rs.ToggleGroupMember("北区", 101))
	require.NoError(t, rs.ToggleGroupRestriction(1, "北区"))

	// 限制以机构 ID 为准，删除分组不做级联清理
	require.NoError(t, rs.DeleteGroup("北区"))
	assert.True(t, rs.IsRestricted(1, 101))
}

func TestRestrictAllAndClear(t *testing.T) {
	rs := NewRuleSet()

	rs.ToggleRestriction(1, 999)
	rs.RestrictAll(1, []int64{101, 102, 103})
	assert.False(t, rs.IsRestricted(1, 999))
	assert.True(t, rs.IsRestricted(1, 101))
	assert.True(t, rs.IsRestricted(1, 102))
	assert.True(t, rs.IsRestricted(1, 103))

	rs.ClearRestrictions(1)
	_, exists := rs.Restrictions[1]
	assert.False(t, exists)

	// 空机构列表等价于清空
	rs.ToggleRestriction(2, 101)
	rs.RestrictAll(2, nil)
	_, exists = rs.Restrictions[2]
	assert.False(t, exists)
}

func TestDocumentRoundTrip(t *testing.T) {
	rs := NewRuleSet()
	require.NoError(t, rs.SetBusinessWindow("07:30", "21:00"))
	require.NoError(t, rs.SetBusinessDays([]int32{1, 3, 5}))
	require.NoError(t, rs.SetDurationBounds(2, 10))
	require.NoError(t, rs.SetMinStaffPerGroup(3))
	require.NoError(t, rs.CreateGroup("北区"))
	require.NoError(t, rs.ToggleGroupMember("北区", 102))
	require.NoError(t, rs.ToggleGroupMember("北区", 101))
	rs.ToggleRestriction(1, 102)
	rs.ToggleRestriction(1, 101)

	doc := rs.Document()
	// 导出结果必须是升序的，保证序列化稳定
	assert.Equal(t, []int32{1, 3, 5}, doc.BusinessDays)
	assert.Equal(t, []int64{101, 102}, doc.Restrictions[1])
	assert.Equal(t, []int64{101, 102}, doc.InstitutionGroups["北区"])

	restored, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, rs.BusinessStart, restored.BusinessStart)
	assert.Equal(t, rs.BusinessEnd, restored.BusinessEnd)
	assert.Equal(t, rs.BusinessDays, restored.BusinessDays)
	assert.Equal(t, rs.MinStaffPerGroup, restored.MinStaffPerGroup)
	assert.Equal(t, rs.Restrictions, restored.Restrictions)
	assert.Equal(t, rs.Groups, restored.Groups)
}

func TestFromDocumentRejectsBrokenInvariants(t *testing.T) {
	doc := NewRuleSet().Document()
	doc.BusinessStart = "22:00"
	_, err := FromDocument(doc)
	require.ErrorIs(t, err, ErrInvalidBusinessWindow)

	doc = NewRuleSet().Document()
	doc.BusinessDays = nil
	_, err = FromDocument(doc)
	require.ErrorIs(t, err, ErrEmptyBusinessDays)

	// 文档中的空限制集合在恢复时直接丢弃
	doc = NewRuleSet().Document()
	doc.Restrictions = map[int64][]int64{1: {}}
	rs, err := FromDocument(doc)
	require.NoError(t, err)
	_, exists := rs.Restrictions[1]
	assert.False(t, exists)
}
