package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// 金规则的所有修改只作用于内存副本，客户端通过 /golden-rules/apply 显式落库。
// 这样引擎的正确性与持久化时机解耦，修改失败时也不会留下半成品文档

func (h *Handler) GetGoldenRules(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取金规则成功", h.rules.Document())
}

func (h *Handler) ApplyGoldenRules(w http.ResponseWriter, r *http.Request) {
	if err := h.repository.SaveGoldenRules(h.rules.Document()); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "应用金规则成功", h.rules.Document())
}

func (h *Handler) UpdateBusinessWindow(w http.ResponseWriter, r *http.Request) {
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

	if err := h.rules.SetBusinessWindow(req.Start, req.End); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "更新工作时间成功", h.rules.Document())
}

func (h *Handler) UpdateBusinessDays(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days []int32 `json:"days" validate:"required,dive,gte=0,lte=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.rules.SetBusinessDays(req.Days); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "更新工作日成功", h.rules.Document())
}

func (h *Handler) UpdateDurationBounds(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MinHours float64 `json:"minHours" validate:"required,gt=0"`
		MaxHours float64 `json:"maxHours" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.rules.SetDurationBounds(req.MinHours, req.MaxHours); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "更新班次时长上下限成功", h.rules.Document())
}

func (h *Handler) UpdateMinStaffPerGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MinStaff *int32 `json:"minStaff" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.rules.SetMinStaffPerGroup(*req.MinStaff); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "更新每组最少人数成功", h.rules.Document())
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.rules.CreateGroup(req.Name); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "创建分组成功", h.rules.Document())
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.rules.DeleteGroup(name); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "删除分组成功", h.rules.Document())
}

func (h *Handler) ToggleGroupMember(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

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

	if err := h.rules.ToggleGroupMember(name, req.InstitutionID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "切换分组成员成功", h.rules.Document())
}

func (h *Handler) ToggleRestriction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhysicianID   int64 `json:"physicianID" validate:"required,gt=0"`
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

	h.rules.ToggleRestriction(req.PhysicianID, req.InstitutionID)

	h.successResponse(w, r, "切换机构限制成功", h.rules.Document())
}

func (h *Handler) ToggleGroupRestriction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhysicianID int64  `json:"physicianID" validate:"required,gt=0"`
		GroupName   string `json:"groupName" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.rules.ToggleGroupRestriction(req.PhysicianID, req.GroupName); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "切换分组限制成功", h.rules.Document())
}

// RestrictAllInstitutions 把目录中现有的全部机构都加入该医生的限制集合
func (h *Handler) RestrictAllInstitutions(w http.ResponseWriter, r *http.Request) {
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

	institutions, err := h.repository.GetAllInstitutions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	institutionIDs := make([]int64, 0, len(institutions))
	for _, institution := range institutions {
		institutionIDs = append(institutionIDs, institution.ID)
	}

	h.rules.RestrictAll(req.PhysicianID, institutionIDs)

	h.successResponse(w, r, "限制全部机构成功", h.rules.Document())
}

func (h *Handler) ClearRestrictions(w http.ResponseWriter, r *http.Request) {
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

	h.rules.ClearRestrictions(req.PhysicianID)

	h.successResponse(w, r, "清空机构限制成功", h.rules.Document())
}
