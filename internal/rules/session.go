package rules

import "sync"

// SessionManager 为每个用户维护至多一个进行中的草稿机，按需惰性创建。
// 互斥锁只保护映射本身，单个用户同一时间只有一个进行中的草稿
type SessionManager struct {
	mu       sync.Mutex
	rules    *RuleSet
	machines map[int64]*DraftMachine
}

func NewSessionManager(rs *RuleSet) *SessionManager {
	return &SessionManager{
		rules:    rs,
		machines: make(map[int64]*DraftMachine),
	}
}

// Machine 返回用户当前的草稿机，不存在时新建一个
func (sm *SessionManager) Machine(userID int64) *DraftMachine {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	m, exists := sm.machines[userID]
	if !exists {
		m = NewDraftMachine(sm.rules)
		sm.machines[userID] = m
	}
	return m
}

// Drop 丢弃用户当前的草稿机。提交成功后调用，下一次 Machine 会返回全新的机器
func (sm *SessionManager) Drop(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.machines, userID)
}
