package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-site-api/internal/domain"
	"studio-site-api/internal/service"
	"studio-site-api/internal/transport/http/ez"
	mdw "studio-site-api/internal/transport/http/middleware"
	resp "studio-site-api/internal/transport/http/response"
)

const msgContactSent = "تم إرسال رسالتك بنجاح. سنتواصل معك قريباً - Your message has been sent successfully. We will contact you soon."

type ContactHandler struct {
	svc     *service.ContactService
	limiter gin.HandlerFunc
	now     func() time.Time
}

// NewContactHandler mounts /contact. limiter guards the public submit route.
func NewContactHandler(svc *service.ContactService, limiter gin.HandlerFunc) *ContactHandler {
	return &ContactHandler{svc: svc, limiter: limiter, now: time.Now}
}

func (h *ContactHandler) Priority() int { return 40 }

type contactReq struct {
	Name     string `json:"name" validate:"min=2,max=100" msg:"Name must be between 2 and 100 characters"`
	Email    string `json:"email" validate:"site_email" msg:"Please provide a valid email"`
	Phone    string `json:"phone" validate:"omitempty,phone" msg:"Please provide a valid phone number"`
	Subject  string `json:"subject" validate:"min=5,max=200" msg:"Subject must be between 5 and 200 characters"`
	Message  string `json:"message" validate:"min=20,max=2000" msg:"Message must be between 20 and 2000 characters"`
	Category string `json:"category" validate:"omitempty,oneof=general project support partnership career" msg:"Invalid category"`
}

type contactStatusReq struct {
	Status   *string `json:"status" validate:"omitnil,oneof=new read replied archived" msg:"Invalid status"`
	Priority *string `json:"priority" validate:"omitnil,oneof=low normal high urgent" msg:"Invalid priority"`
}

type noteReq struct {
	Note string `json:"note" validate:"min=1,max=1000" msg:"Note must be between 1 and 1000 characters"`
}

type contactListQ struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Priority string `form:"priority"`
	Search   string `form:"search" validate:"max=100" msg:"Search term is too long"`
	Spam     *bool  `form:"spam"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type submitted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (h *ContactHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g).Group("/contact")
	admin := []string{domain.RoleAdmin}

	var limited []gin.HandlerFunc
	if h.limiter != nil {
		limited = append(limited, h.limiter)
	}
	ez.RegisterAction(e, ez.Action[contactReq, resp.Resp]{
		Method:      http.MethodPost,
		Path:        "",
		Binder:      ez.BindJSON,
		Status:      http.StatusCreated,
		Middlewares: limited,
		Handler: func(c *gin.Context, in *contactReq) (resp.Resp, error) {
			m, err := h.svc.Submit(c.Request.Context(), service.SubmitInput{
				Name:      in.Name,
				Email:     in.Email,
				Phone:     in.Phone,
				Subject:   in.Subject,
				Message:   in.Message,
				Category:  in.Category,
				IPAddress: c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
			})
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.Resp{
				Success: true,
				Message: msgContactSent,
				Data:    submitted{ID: m.ID, Status: m.Status},
			}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[contactListQ, resp.ListResp]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Roles:  admin,
		Handler: func(c *gin.Context, in *contactListQ) (resp.ListResp, error) {
			page, err := h.svc.List(c.Request.Context(), domain.ContactFilter{
				Status:    in.Status,
				Category:  in.Category,
				Priority:  in.Priority,
				Search:    in.Search,
				Spam:      in.Spam,
				Sort:      domain.ContactSort(in.Sort),
				PageQuery: domain.PageQuery{Page: in.Page, Limit: in.Limit},
			})
			if err != nil {
				return resp.ListResp{}, err
			}
			refs, err := h.svc.UserRefs(c.Request.Context(), page.Items...)
			if err != nil {
				return resp.ListResp{}, err
			}
			return resp.List(contactViews(page.Items, refs, h.now()), page), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/stats",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			st, err := h.svc.Stats(c.Request.Context())
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(st), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/:id",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			m, err := h.svc.Get(c.Request.Context(), c.Param("id"), mdw.CurrentUser(c).ID)
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, m, "")
		},
	})

	ez.RegisterAction(e, ez.Action[contactStatusReq, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id/status",
		Binder: ez.BindJSON,
		Roles:  admin,
		Handler: func(c *gin.Context, in *contactStatusReq) (resp.Resp, error) {
			m, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status, in.Priority)
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, m, "")
		},
	})

	ez.RegisterAction(e, ez.Action[noteReq, resp.Resp]{
		Method: http.MethodPost,
		Path:   "/:id/notes",
		Binder: ez.BindJSON,
		Roles:  admin,
		Handler: func(c *gin.Context, in *noteReq) (resp.Resp, error) {
			m, err := h.svc.AddNote(c.Request.Context(), c.Param("id"), mdw.CurrentUser(c).ID, in.Note)
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, m, "")
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id/spam",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			m, err := h.svc.MarkSpam(c.Request.Context(), c.Param("id"))
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, m, "Message marked as spam")
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Resp{}, err
			}
			return resp.Msg("Contact message deleted successfully"), nil
		},
	})
}

func (h *ContactHandler) one(c *gin.Context, m *domain.ContactMessage, msg string) (resp.Resp, error) {
	refs, err := h.svc.UserRefs(c.Request.Context(), *m)
	if err != nil {
		return resp.Resp{}, err
	}
	return resp.Resp{Success: true, Message: msg, Data: newContactView(m, refs, h.now())}, nil
}
