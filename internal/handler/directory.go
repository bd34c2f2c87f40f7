package handler

import (
	"net/http"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

// 医生和机构目录是只读的，数据由 seed 程序或运维脚本维护

func (h *Handler) GetAllPhysicians(w http.ResponseWriter, r *http.Request) {
	physicians, err := h.repository.GetAllPhysicians()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有医生成功", physicians)
}

func (h *Handler) GetPhysician(w http.ResponseWriter, r *http.Request) {
	physician := r.Context().Value(PhysicianCtx).(*domain.Physician)

	h.successResponse(w, r, "获取医生信息成功", physician)
}

func (h *Handler) GetPhysicianAssignments(w http.ResponseWriter, r *http.Request) {
	physician := r.Context().Value(PhysicianCtx).(*domain.Physician)

	assignments, err := h.repository.GetAssignmentsByPhysician(physician.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取医生排班成功", assignments)
}

func (h *Handler) GetAllInstitutions(w http.ResponseWriter, r *http.Request) {
	institutions, err := h.repository.GetAllInstitutions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有机构成功", institutions)
}

func (h *Handler) GetInstitution(w http.ResponseWriter, r *http.Request) {
	institution := r.Context().Value(InstitutionCtx).(*domain.Institution)

	h.successResponse(w, r, "获取机构信息成功", institution)
}

func (h *Handler) GetAllAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.repository.GetAllAssignments()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有排班成功", assignments)
}
