package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

const (
	timeOfDayLayout = "15:04"
	dateLayout      = "2006-01-02"
)

var (
	ErrInvalidBusinessWindow = errors.New("工作开始时间必须早于结束时间")
	ErrEmptyBusinessDays     = errors.New("工作日不能为空")
	ErrInvalidBusinessDay    = errors.New("工作日必须在 0 到 6 之间")
	ErrInvalidDurationBounds = errors.New("班次时长下限不能大于上限")
	ErrNonPositiveDuration   = errors.New("班次时长必须为正数")
	ErrNegativeMinStaff      = errors.New("每组最少人数不能为负数")
	ErrEmptyGroupName        = errors.New("分组名称不能为空")
	ErrGroupExists           = errors.New("分组已存在")
	ErrGroupNotFound         = errors.New("分组不存在")
)

// RuleSet 是排班金规则的内存形式：工作时间窗口、工作日、班次时长上下限、
// 每组最少人数、按医生的机构限制表和机构分组表。
// 所有修改都必须通过下面的方法进行，以保证以下不变量：
//   - BusinessStart < BusinessEnd，BusinessDays 非空
//   - MinShiftHours <= MaxShiftHours 且两者为正
//   - Restrictions 中不存在空集合（最后一条限制被移除时，医生对应的键一并删除）
//   - 分组名称唯一且非空，成员集合可以为空
//
// 注意：删除分组不会级联清理由该分组批量添加的医生限制，限制始终以机构 ID 为准
type RuleSet struct {
	BusinessStart    string
	BusinessEnd      string
	BusinessDays     map[int32]bool
	MinShiftHours    float64
	MaxShiftHours    float64
	MinStaffPerGroup int32

	Restrictions map[int64]map[int64]bool // 医生 ID -> 禁止排入的机构 ID 集合
	Groups       map[string]map[int64]bool
}

// NewRuleSet 返回默认金规则：工作日周一到周五，工作时间 08:00~20:00，班次 3~6 小时
func NewRuleSet() *RuleSet {
	return &RuleSet{
		BusinessStart:    "08:00",
		BusinessEnd:      "20:00",
		BusinessDays:     map[int32]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		MinShiftHours:    3,
		MaxShiftHours:    6,
		MinStaffPerGroup: 1,
		Restrictions:     make(map[int64]map[int64]bool),
		Groups:           make(map[string]map[int64]bool),
	}
}

// parseTimeOfDay 将 HH:MM 字符串解析为从零点开始的分钟数
func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("时间 %q 格式错误，应为 HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func (rs *RuleSet) SetBusinessWindow(start string, end string) error {
	startMinute, err := parseTimeOfDay(start)
	if err != nil {
		return err
	}
	endMinute, err := parseTimeOfDay(end)
	if err != nil {
		return err
	}
	if startMinute >= endMinute {
		return ErrInvalidBusinessWindow
	}

	rs.BusinessStart = start
	rs.BusinessEnd = end
	return nil
}

func (rs *RuleSet) SetBusinessDays(days []int32) error {
	if len(days) == 0 {
		return ErrEmptyBusinessDays
	}

	set := make(map[int32]bool, len(days))
	for _, day := range days {
		if day < 0 || day > 6 {
			return ErrInvalidBusinessDay
		}
		set[day] = true
	}

	rs.BusinessDays = set
	return nil
}

func (rs *RuleSet) SetDurationBounds(minHours float64, maxHours float64) error {
	if minHours <= 0 || maxHours <= 0 {
		return ErrNonPositiveDuration
	}
	if minHours > maxHours {
		return ErrInvalidDurationBounds
	}

	rs.MinShiftHours = minHours
	rs.MaxShiftHours = maxHours
	return nil
}

// SetMinStaffPerGroup 记录每组最少人数，目前仅作为参考下限，校验器不使用
func (rs *RuleSet) SetMinStaffPerGroup(n int32) error {
	if n < 0 {
		return ErrNegativeMinStaff
	}
	rs.MinStaffPerGroup = n
	return nil
}

func (rs *RuleSet) CreateGroup(name string) error {
	if name == "" {
		return ErrEmptyGroupName
	}
	if _, exists := rs.Groups[name]; exists {
		return ErrGroupExists
	}

	rs.Groups[name] = make(map[int64]bool)
	return nil
}

// DeleteGroup 只删除分组本身，由该分组批量添加的医生限制保持不变
func (rs *RuleSet) DeleteGroup(name string) error {
	if _, exists := rs.Groups[name]; !exists {
		return ErrGroupNotFound
	}

	delete(rs.Groups, name)
	return nil
}

func (rs *RuleSet) ToggleGroupMember(name string, institutionID int64) error {
	members, exists := rs.Groups[name]
	if !exists {
		return ErrGroupNotFound
	}

	if members[institutionID] {
		delete(members, institutionID)
	} else {
		members[institutionID] = true
	}
	return nil
}

// ToggleRestriction 翻转某个医生对某个机构的限制：不存在则添加，存在则移除
func (rs *RuleSet) ToggleRestriction(physicianID int64, institutionID int64) {
	restricted, exists := rs.Restrictions[physicianID]
	if !exists {
		rs.Restrictions[physicianID] = map[int64]bool{institutionID: true}
		return
	}

	if restricted[institutionID] {
		delete(restricted, institutionID)
		if len(restricted) == 0 {
			delete(rs.Restrictions, physicianID)
		}
	} else {
		restricted[institutionID] = true
	}
}

// ToggleGroupRestriction 以「分组成员是否已全部被限制」为准整体翻转：
// 若该分组当前所有成员都在医生的限制集合中，则整体解除；否则补齐缺少的成员。
// 这不是简单的并集/差集，两次调用之间若分组成员发生变化，第二次调用不一定是逆操作
func (rs *RuleSet) ToggleGroupRestriction(physicianID int64, name string) error {
	members, exists := rs.Groups[name]
	if !exists {
		return ErrGroupNotFound
	}

	restricted := rs.Restrictions[physicianID]

	allRestricted := true
	for institutionID := range members {
		if !restricted[institutionID] {
			allRestricted = false
			break
		}
	}

	if allRestricted {
		// 整体解除
		for institutionID := range members {
			delete(restricted, institutionID)
		}
		if len(restricted) == 0 {
			delete(rs.Restrictions, physicianID)
		}
		return nil
	}

	// 补齐缺少的成员
	if restricted == nil {
		restricted = make(map[int64]bool, len(members))
		rs.Restrictions[physicianID] = restricted
	}
	for institutionID := range members {
		restricted[institutionID] = true
	}
	return nil
}

// RestrictAll 无视分组结构，直接将医生的限制集合替换为给定的全部机构
func (rs *RuleSet) RestrictAll(physicianID int64, institutionIDs []int64) {
	if len(institutionIDs) == 0 {
		delete(rs.Restrictions, physicianID)
		return
	}

	restricted := make(map[int64]bool, len(institutionIDs))
	for _, institutionID := range institutionIDs {
		restricted[institutionID] = true
	}
	rs.Restrictions[physicianID] = restricted
}

func (rs *RuleSet) ClearRestrictions(physicianID int64) {
	delete(rs.Restrictions, physicianID)
}

func (rs *RuleSet) IsRestricted(physicianID int64, institutionID int64) bool {
	return rs.Restrictions[physicianID][institutionID]
}

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Document 将规则导出为持久化文档，集合均按升序排列，保证序列化结果稳定
func (rs *RuleSet) Document() *domain.GoldenRules {
	doc := &domain.GoldenRules{
		BusinessStart:     rs.BusinessStart,
		BusinessEnd:       rs.BusinessEnd,
		BusinessDays:      make([]int32, 0, len(rs.BusinessDays)),
		MinShiftHours:     rs.MinShiftHours,
		MaxShiftHours:     rs.MaxShiftHours,
		MinStaffPerGroup:  rs.MinStaffPerGroup,
		Restrictions:      make(map[int64][]int64, len(rs.Restrictions)),
		InstitutionGroups: make(map[string][]int64, len(rs.Groups)),
	}

	for day := range rs.BusinessDays {
		doc.BusinessDays = append(doc.BusinessDays, day)
	}
	sort.Slice(doc.BusinessDays, func(i, j int) bool { return doc.BusinessDays[i] < doc.BusinessDays[j] })

	for physicianID, restricted := range rs.Restrictions {
		doc.Restrictions[physicianID] = sortedIDs(restricted)
	}
	for name, members := range rs.Groups {
		doc.InstitutionGroups[name] = sortedIDs(members)
	}

	return doc
}

// FromDocument 从持久化文档恢复规则，并重新检查文档可能被破坏的不变量
func FromDocument(doc *domain.GoldenRules) (*RuleSet, error) {
	rs := NewRuleSet()

	if err := rs.SetBusinessWindow(doc.BusinessStart, doc.BusinessEnd); err != nil {
		return nil, err
	}
	if err := rs.SetBusinessDays(doc.BusinessDays); err != nil {
		return nil, err
	}
	if err := rs.SetDurationBounds(doc.MinShiftHours, doc.MaxShiftHours); err != nil {
		return nil, err
	}
	if err := rs.SetMinStaffPerGroup(doc.MinStaffPerGroup); err != nil {
		return nil, err
	}

	for physicianID, institutionIDs := range doc.Restrictions {
		// 空集合不落键
		if len(institutionIDs) == 0 {
			continue
		}
		restricted := make(map[int64]bool, len(institutionIDs))
		for _, institutionID := range institutionIDs {
			restricted[institutionID] = true
		}
		rs.Restrictions[physicianID] = restricted
	}

	for name, institutionIDs := range doc.InstitutionGroups {
		if name == "" {
			return nil, ErrEmptyGroupName
		}
		members := make(map[int64]bool, len(institutionIDs))
		for _, institutionID := range institutionIDs {
			members[institutionID] = true
		}
		rs.Groups[name] = members
	}

	return rs, nil
}

// RestrictionSummary 生成当前限制表的简短中文描述，供 advisory 解说服务使用
func (rs *RuleSet) RestrictionSummary() string {
	if len(rs.Restrictions) == 0 {
		return "当前没有任何医生被限制排入机构"
	}

	physicianIDs := make([]int64, 0, len(rs.Restrictions))
	for physicianID := range rs.Restrictions {
		physicianIDs = append(physicianIDs, physicianID)
	}
	sort.Slice(physicianIDs, func(i, j int) bool { return physicianIDs[i] < physicianIDs[j] })

	parts := make([]string, 0, len(physicianIDs))
	for _, physicianID := range physicianIDs {
		ids := sortedIDs(rs.Restrictions[physicianID])
		idStrings := make([]string, len(ids))
		for i, id := range ids {
			idStrings[i] = fmt.Sprintf("%d", id)
		}
		parts = append(parts, fmt.Sprintf("医生 %d 禁止排入机构 %s", physicianID, strings.Join(idStrings, "、")))
	}

	return strings.Join(parts, "；")
}
