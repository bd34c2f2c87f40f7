package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/careport-dev/duty-manager/backend/internal/config"
	"github.com/careport-dev/duty-manager/backend/internal/domain"
	"github.com/careport-dev/duty-manager/backend/internal/repository"
	"github.com/careport-dev/duty-manager/backend/internal/rules"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	translator   ut.Translator
	queueChannel *amqp.Channel // 同时用于 email_queue 和 advisory_queue，可以为 nil
	redisClient  *redis.Client

	rules    *rules.RuleSet        // 内存中的金规则，通过 /golden-rules/apply 显式持久化
	sessions *rules.SessionManager // 每个用户至多一个进行中的草稿

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, queueCh *amqp.Channel, rdb *redis.Client, rs *rules.RuleSet) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		queueChannel: queueCh,
		redisClient:  rdb,

		rules:    rs,
		sessions: rules.NewSessionManager(rs),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
			})
		})

		// 医生和机构目录只读，限制和草稿只保存它们的 ID
		r.Route("/physicians", func(r chi.Router) {
			r.Get("/", h.GetAllPhysicians)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.physicianInfo)
				r.Get("/", h.GetPhysician)
				r.Get("/assignments", h.GetPhysicianAssignments)
			})
		})
		r.Route("/institutions", func(r chi.Router) {
			r.Get("/", h.GetAllInstitutions)
			r.With(h.institutionInfo).Get("/{id}", h.GetInstitution)
		})

		// 金规则：修改只作用于内存副本，apply 才会整体落库
		r.Route("/golden-rules", func(r chi.Router) {
			r.Get("/", h.GetGoldenRules)
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleScheduler}))
				r.Post("/apply", h.ApplyGoldenRules)
				r.Put("/business-window", h.UpdateBusinessWindow)
				r.Put("/business-days", h.UpdateBusinessDays)
				r.Put("/duration-bounds", h.UpdateDurationBounds)
				r.Put("/min-staff", h.UpdateMinStaffPerGroup)
				r.Route("/groups", func(r chi.Router) {
					r.Post("/", h.CreateGroup)
					r.Route("/{name}", func(r chi.Router) {
						r.Delete("/", h.DeleteGroup)
						r.Post("/toggle-member", h.ToggleGroupMember)
					})
				})
				r.Route("/restrictions", func(r chi.Router) {
					r.Post("/toggle", h.ToggleRestriction)
					r.Post("/toggle-group", h.ToggleGroupRestriction)
					r.Post("/restrict-all", h.RestrictAllInstitutions)
					r.Post("/clear-all", h.ClearRestrictions)
				})
			})
		})

		// 草稿排班：六个步骤按固定顺序推进
		r.Route("/draft", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleScheduler}))
			r.Use(h.myInfo)
			r.Get("/", h.GetDraft)
			r.Get("/advisory", h.GetDraftAdvisory)
			r.Post("/physician", h.SelectPhysician)
			r.Post("/institution", h.SelectInstitution)
			r.Post("/date", h.SelectDate)
			r.Post("/time", h.SelectTime)
			r.Post("/group-tag", h.SelectGroupTag)
			r.Post("/confirm", h.ConfirmDraft)
			r.Post("/reset", h.ResetDraft)
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleScheduler, domain.RoleChief})).Get("/assignments", h.GetAllAssignments)
	})
}
