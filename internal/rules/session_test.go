package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerKeepsOneMachinePerUser(t *testing.T) {
	rs := newTestRuleSet(t)
	sm := NewSessionManager(rs)

	m := sm.Machine(1)
	require.NoError(t, m.SelectPhysician(1))

	// 同一个用户再次获取时返回同一台机器，草稿进度保留
	again := sm.Machine(1)
	assert.Same(t, m, again)
	assert.Equal(t, StepInstitution, again.Draft().Step)

	// 不同用户互不影响
	other := sm.Machine(2)
	assert.NotSame(t, m, other)
	assert.Equal(t, StepPhysician, other.Draft().Step)
}

func TestSessionManagerDrop(t *testing.T) {
	rs := newTestRuleSet(t)
	sm := NewSessionManager(rs)

	m := sm.Machine(1)
	advanceToConfirm(t, m)
	_, violations, err := m.Confirm()
	require.NoError(t, err)
	require.Empty(t, violations)

	// 提交后丢弃，下一次返回全新的机器
	sm.Drop(1)
	fresh := sm.Machine(1)
	assert.NotSame(t, m, fresh)
	assert.Equal(t, StepPhysician, fresh.Draft().Step)
}
