package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
	"github.com/careport-dev/duty-manager/backend/internal/rules"
)

// 草稿的六个步骤通过独立的接口暴露，表单、批量脚本或对话式前端
// 都可以驱动同一台状态机。每个步骤成功后返回最新草稿和提前校验结果，
// 并把步骤变化发给解说服务；最终是否接受以 confirm 的完整校验为准

type draftState struct {
	Draft      rules.Draft       `json:"draft"`
	Violations []rules.Violation `json:"violations"`
}

func (h *Handler) draftState(m *rules.DraftMachine) draftState {
	return draftState{
		Draft:      m.Draft(),
		Violations: m.Validate(),
	}
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	h.successResponse(w, r, "获取草稿成功", h.draftState(m))
}

func (h *Handler) SelectPhysician(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	var req struct {
		PhysicianID int64 `json:"physicianID" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := m.SelectPhysician(req.PhysicianID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.publishAdvisory(myInfo.ID, fmt.Sprintf("已选择医生 %d", req.PhysicianID))
	h.successResponse(w, r, "已选择医生", h.draftState(m))
}

func (h *Handler) SelectInstitution(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	var req struct {
		InstitutionID int64 `json:"institutionID" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := m.SelectInstitution(req.InstitutionID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.publishAdvisory(myInfo.ID, fmt.Sprintf("已选择机构 %d", req.InstitutionID))
	h.successResponse(w, r, "已选择机构", h.draftState(m))
}

func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	var req struct {
		Date string `json:"date" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := m.SelectDate(req.Date); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.publishAdvisory(myInfo.ID, fmt.Sprintf("已选择日期 %s", req.Date))
	h.successResponse(w, r, "已选择日期", h.draftState(m))
}

func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	var req struct {
		Start string `json:"start" validate:"required"`
		End   string `json:"end" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := m.SelectTime(req.Start, req.End); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.publishAdvisory(myInfo.ID, fmt.Sprintf("已选择时间 %s~%s", req.Start, req.End))
	h.successResponse(w, r, "已选择时间", h.draftState(m))
}

func (h *Handler) SelectGroupTag(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	// 标签允许为空
	var req struct {
		Tag string `json:"tag"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := m.SelectGroupTag(req.Tag); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.publishAdvisory(myInfo.ID, fmt.Sprintf("已填写标签 %q", req.Tag))
	h.successResponse(w, r, "已填写标签", h.draftState(m))
}

func (h *Handler) ConfirmDraft(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	candidate, violations, err := m.Confirm()
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if len(violations) > 0 {
		h.publishAdvisory(myInfo.ID, fmt.Sprintf("确认未通过，共 %d 条违规", len(violations)))
		h.violationsResponse(w, r, "候选排班未通过校验", violations)
		return
	}

	assignment := &domain.Assignment{
		PhysicianID:   candidate.PhysicianID,
		InstitutionID: candidate.InstitutionID,
		Date:          candidate.Date,
		StartTime:     candidate.StartTime,
		EndTime:       candidate.EndTime,
		GroupTag:      candidate.GroupTag,
	}

	if err := h.repository.CreateAssignment(assignment); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 提交成功后丢弃草稿机，下一条排班从头开始
	h.sessions.Drop(myInfo.ID)

	h.publishAdvisory(myInfo.ID, fmt.Sprintf("排班已提交：医生 %d，机构 %d，%s %s~%s", assignment.PhysicianID, assignment.InstitutionID, assignment.Date, assignment.StartTime, assignment.EndTime))
	h.sendCommitNotification(myInfo, assignment)

	h.successResponse(w, r, "排班提交成功", assignment)
}

// sendCommitNotification 给操作者发一封排班确认邮件。
// 通知是尽力而为的，目录查询或消息发布失败都只记录日志，不影响提交结果
func (h *Handler) sendCommitNotification(myInfo *domain.User, assignment *domain.Assignment) {
	physician, err := h.repository.GetPhysicianByID(assignment.PhysicianID)
	if err != nil {
		slog.Warn("无法获取医生信息，跳过提交通知", "physicianID", assignment.PhysicianID, "error", err)
		return
	}

	institution, err := h.repository.GetInstitutionByID(assignment.InstitutionID)
	if err != nil {
		slog.Warn("无法获取机构信息，跳过提交通知", "institutionID", assignment.InstitutionID, "error", err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: "assignment_committed",
		To:   myInfo.Email,
		Data: domain.AssignmentCommittedMailData{
			PhysicianName:   physician.LastName,
			InstitutionName: institution.Name,
			Date:            assignment.Date,
			StartTime:       assignment.StartTime,
			EndTime:         assignment.EndTime,
			GroupTag:        assignment.GroupTag,
		},
	}

	if err := h.publishMail(mailMessage); err != nil {
		slog.Warn("无法发布提交通知邮件", "error", err)
	}
}

func (h *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	m := h.sessions.Machine(myInfo.ID)

	m.Reset()

	h.publishAdvisory(myInfo.ID, "草稿已重置")
	h.successResponse(w, r, "草稿已重置", h.draftState(m))
}

// GetDraftAdvisory 读取解说服务最近生成的文本。解说是异步生成的，
// 可能尚未就绪或已过期，此时返回空文本，调用方直接忽略即可
func (h *Handler) GetDraftAdvisory(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	ctx := r.Context()
	text, err := h.redisClient.Get(ctx, fmt.Sprintf("advisory:user:%d", myInfo.ID)).Result()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.successResponse(w, r, "暂无解说", "")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取解说成功", text)
}
