package rules

import (
	"errors"
	"fmt"
	"time"
)

// Step 表示草稿下一个需要录入的字段
type Step string

const (
	StepPhysician   Step = "PHYSICIAN"
	StepInstitution Step = "INSTITUTION"
	StepDate        Step = "DATE"
	StepTime        Step = "TIME"
	StepGroup       Step = "GROUP"
	StepConfirm     Step = "CONFIRM"
	StepCommitted   Step = "COMMITTED" // 终态，确认通过后不再接受任何步骤
)

var (
	ErrInvalidStepOrder = errors.New("当前步骤不允许此操作")
	ErrInvalidInput     = errors.New("输入无效")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// Draft 是正在录入中的候选排班。字段只能按固定顺序依次填入，
// 一旦填入就不能单独修改，只能通过 Reset 整体放弃后重新录入，
// 以保证送去校验的候选永远不会处于不一致的中间状态
type Draft struct {
	Step          Step   `json:"step"`
	PhysicianID   int64  `json:"physicianID"`
	InstitutionID int64  `json:"institutionID"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	GroupTag      string `json:"groupTag"`
}

// DraftMachine 按 医生 -> 机构 -> 日期 -> 时间 -> 标签 -> 确认 的顺序
// 逐步收集候选排班。乱序调用返回 ErrInvalidStepOrder 且不改变草稿；
// Reset 在任何状态下都可以把草稿清空回到第一步。
// 机器持有金规则的引用，确认时按当时的规则做最终校验
type DraftMachine struct {
	rules *RuleSet
	draft Draft
}

func NewDraftMachine(rs *RuleSet) *DraftMachine {
	return &DraftMachine{
		rules: rs,
		draft: Draft{Step: StepPhysician},
	}
}

// Draft 返回草稿的副本，供展示使用
func (m *DraftMachine) Draft() Draft {
	return m.draft
}

func (m *DraftMachine) SelectPhysician(id int64) error {
	if m.draft.Step != StepPhysician {
		return ErrInvalidStepOrder
	}
	if id <= 0 {
		return invalidInput("医生 ID %d 无效", id)
	}

	m.draft.PhysicianID = id
	m.draft.Step = StepInstitution
	return nil
}

// SelectInstitution 不检查机构限制，限制是校验器的职责，
// 调用方可以在每一步之后用 Validate 提前获得反馈，最终以 Confirm 的结果为准
func (m *DraftMachine) SelectInstitution(id int64) error {
	if m.draft.Step != StepInstitution {
		return ErrInvalidStepOrder
	}
	if id <= 0 {
		return invalidInput("机构 ID %d 无效", id)
	}

	m.draft.InstitutionID = id
	m.draft.Step = StepDate
	return nil
}

func (m *DraftMachine) SelectDate(date string) error {
	if m.draft.Step != StepDate {
		return ErrInvalidStepOrder
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return invalidInput("日期 %q 格式错误，应为 YYYY-MM-DD", date)
	}

	m.draft.Date = date
	m.draft.Step = StepTime
	return nil
}

func (m *DraftMachine) SelectTime(start string, end string) error {
	if m.draft.Step != StepTime {
		return ErrInvalidStepOrder
	}

	startMinute, err := parseTimeOfDay(start)
	if err != nil {
		return invalidInput("开始时间 %q 格式错误，应为 HH:MM", start)
	}
	endMinute, err := parseTimeOfDay(end)
	if err != nil {
		return invalidInput("结束时间 %q 格式错误，应为 HH:MM", end)
	}
	if endMinute <= startMinute {
		return invalidInput("结束时间 %s 必须晚于开始时间 %s", end, start)
	}

	m.draft.StartTime = start
	m.draft.EndTime = end
	m.draft.Step = StepGroup
	return nil
}

// SelectGroupTag 录入自由标签，允许为空。该标签与机构分组无关
func (m *DraftMachine) SelectGroupTag(tag string) error {
	if m.draft.Step != StepGroup {
		return ErrInvalidStepOrder
	}

	m.draft.GroupTag = tag
	m.draft.Step = StepConfirm
	return nil
}

// Confirm 对完整候选做最终校验。违规非空时机器停留在确认步骤，
// 调用方可以 Reset 后重新录入；违规为空时返回定稿候选并进入终态，
// 之后需要新建机器才能录入下一条排班
func (m *DraftMachine) Confirm() (*Candidate, []Violation, error) {
	if m.draft.Step != StepConfirm {
		return nil, nil, ErrInvalidStepOrder
	}

	candidate := m.candidate()
	violations := Validate(m.rules, candidate)
	if len(violations) > 0 {
		return nil, violations, nil
	}

	m.draft.Step = StepCommitted
	return candidate, nil, nil
}

// Reset 在任何状态下都有效，丢弃所有已录入的字段并回到第一步
func (m *DraftMachine) Reset() {
	m.draft = Draft{Step: StepPhysician}
}

// Validate 对已录入的字段做提前校验：只运行输入已经齐全的检查，
// 不会对还没有填写的字段报违规。最终结论仍以 Confirm 为准
func (m *DraftMachine) Validate() []Violation {
	checkDay := m.draft.Date != ""
	checkTime := m.draft.StartTime != "" && m.draft.EndTime != ""
	checkRestriction := m.draft.PhysicianID != 0 && m.draft.InstitutionID != 0

	return validate(m.rules, m.candidate(), checkDay, checkTime, checkRestriction)
}

func (m *DraftMachine) candidate() *Candidate {
	return &Candidate{
		PhysicianID:   m.draft.PhysicianID,
		InstitutionID: m.draft.InstitutionID,
		Date:          m.draft.Date,
		StartTime:     m.draft.StartTime,
		EndTime:       m.draft.EndTime,
		GroupTag:      m.draft.GroupTag,
	}
}
