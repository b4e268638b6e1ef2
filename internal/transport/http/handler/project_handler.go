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

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func (h *ProjectHandler) Priority() int { return 30 }

type projectTitle struct {
	Ar string `json:"ar" validate:"min=3,max=100" msg:"Arabic title must be between 3 and 100 characters"`
	En string `json:"en" validate:"min=3,max=100" msg:"English title must be between 3 and 100 characters"`
}

type projectDescription struct {
	Ar string `json:"ar" validate:"min=20,max=1000" msg:"Arabic description must be between 20 and 1000 characters"`
	En string `json:"en" validate:"min=20,max=1000" msg:"English description must be between 20 and 1000 characters"`
}

type projectImageReq struct {
	URL       string           `json:"url" validate:"url" msg:"Invalid image URL"`
	Alt       domain.Localized `json:"alt"`
	IsPrimary bool             `json:"isPrimary"`
}

type projectLinksReq struct {
	Live   string `json:"live" validate:"omitempty,url" msg:"Invalid live URL"`
	Github string `json:"github" validate:"omitempty,github_url" msg:"Invalid GitHub URL"`
	Demo   string `json:"demo" validate:"omitempty,url" msg:"Invalid demo URL"`
}

type projectClientReq struct {
	Name    string `json:"name" validate:"max=100"`
	Website string `json:"website" validate:"omitempty,url" msg:"Invalid client website URL"`
	Logo    string `json:"logo" validate:"omitempty,url" msg:"Invalid client logo URL"`
}

type projectReq struct {
	Title        projectTitle       `json:"title"`
	Description  projectDescription `json:"description"`
	Images       []projectImageReq  `json:"images" validate:"min=1,dive" msg:"At least one image is required"`
	Category     string             `json:"category" validate:"oneof=website mobile ecommerce corporate other" msg:"Invalid category"`
	Technologies []string           `json:"technologies" validate:"min=1,dive,notblank" msg:"At least one technology is required" msgelem:"Technology cannot be empty"`
	Links        projectLinksReq    `json:"links"`
	Client       projectClientReq   `json:"client"`
	Duration     string             `json:"duration" validate:"max=64"`
	TeamMembers  []string           `json:"teamMembers" validate:"dive,entity_id" msgelem:"Invalid team member ID"`
	Status       string             `json:"status" validate:"omitempty,oneof=planning development testing completed maintained" msg:"Invalid status"`
	Featured     *bool              `json:"featured"`
	Order        int                `json:"order"`
	IsPublic     *bool              `json:"isPublic"`
	CompletedAt  *time.Time         `json:"completedAt"`
}

type projectPatchReq struct {
	Title        *projectTitle       `json:"title"`
	Description  *projectDescription `json:"description"`
	Images       []projectImageReq   `json:"images" validate:"omitnil,min=1,dive" msg:"At least one image is required"`
	Category     *string             `json:"category" validate:"omitnil,oneof=website mobile ecommerce corporate other" msg:"Invalid category"`
	Technologies []string            `json:"technologies" validate:"omitnil,min=1,dive,notblank" msg:"At least one technology is required" msgelem:"Technology cannot be empty"`
	Links        *projectLinksReq    `json:"links"`
	Client       *projectClientReq   `json:"client"`
	Duration     *string             `json:"duration" validate:"omitnil,max=64"`
	TeamMembers  []string            `json:"teamMembers" validate:"omitnil,dive,entity_id" msgelem:"Invalid team member ID"`
	Status       *string             `json:"status" validate:"omitnil,oneof=planning development testing completed maintained" msg:"Invalid status"`
	Featured     *bool               `json:"featured"`
	Order        *int                `json:"order"`
	IsPublic     *bool               `json:"isPublic"`
	CompletedAt  *time.Time          `json:"completedAt"`
}

type projectListQ struct {
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
	Status   string `form:"status"`
	Search   string `form:"search" validate:"max=100" msg:"Search term is too long"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func images(in []projectImageReq) []domain.ProjectImage {
	if in == nil {
		return nil
	}
	out := make([]domain.ProjectImage, 0, len(in))
	for _, img := range in {
		out = append(out, domain.ProjectImage(img))
	}
	return out
}

func (h *ProjectHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g).Group("/projects")
	admin := []string{domain.RoleAdmin}

	ez.RegisterAction(e, ez.Action[projectListQ, resp.ListResp]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *projectListQ) (resp.ListResp, error) {
			page, err := h.svc.List(c.Request.Context(), mdw.Scope(c), domain.ProjectFilter{
				Category:  in.Category,
				Status:    in.Status,
				Featured:  in.Featured,
				Search:    in.Search,
				Sort:      domain.ProjectSort(in.Sort),
				PageQuery: domain.PageQuery{Page: in.Page, Limit: in.Limit},
			})
			if err != nil {
				return resp.ListResp{}, err
			}
			return h.list(c, page)
		},
	})

	ez.RegisterAction(e, ez.Action[pageQ, resp.ListResp]{
		Method: http.MethodGet,
		Path:   "/featured",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (resp.ListResp, error) {
			page, err := h.svc.Featured(c.Request.Context(), in.query())
			if err != nil {
				return resp.ListResp{}, err
			}
			return h.list(c, page)
		},
	})

	ez.RegisterAction(e, ez.Action[pageQ, resp.ListResp]{
		Method: http.MethodGet,
		Path:   "/category/:category",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (resp.ListResp, error) {
			page, err := h.svc.ByCategory(c.Request.Context(), c.Param("category"), in.query())
			if err != nil {
				return resp.ListResp{}, err
			}
			return h.list(c, page)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/admin/stats",
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
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			p, err := h.svc.Get(c.Request.Context(), mdw.Scope(c), c.Param("id"))
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, p)
		},
	})

	ez.RegisterAction(e, ez.Action[projectReq, resp.Resp]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  admin,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *projectReq) (resp.Resp, error) {
			p, err := h.svc.Create(c.Request.Context(), service.ProjectInput{
				Title:        domain.Bilingual(in.Title),
				Description:  domain.Bilingual(in.Description),
				Images:       images(in.Images),
				Category:     in.Category,
				Technologies: in.Technologies,
				Links:        domain.ProjectLinks(in.Links),
				Client:       domain.ProjectClient(in.Client),
				Duration:     in.Duration,
				TeamMembers:  in.TeamMembers,
				Status:       in.Status,
				Featured:     in.Featured,
				Order:        in.Order,
				IsPublic:     in.IsPublic,
				CompletedAt:  in.CompletedAt,
			})
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, p)
		},
	})

	ez.RegisterAction(e, ez.Action[projectPatchReq, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  admin,
		Handler: func(c *gin.Context, in *projectPatchReq) (resp.Resp, error) {
			p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in.patch())
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			if err := h.svc.Hide(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Resp{}, err
			}
			return resp.Msg("Project hidden successfully"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/:id/permanent",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			if err := h.svc.DeletePermanent(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Resp{}, err
			}
			return resp.Msg("Project permanently deleted"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id/featured",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			p, err := h.svc.ToggleFeatured(c.Request.Context(), c.Param("id"))
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, p)
		},
	})

	ez.RegisterAction(e, ez.Action[orderReq, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id/order",
		Binder: ez.BindJSON,
		Roles:  admin,
		Handler: func(c *gin.Context, in *orderReq) (resp.Resp, error) {
			p, err := h.svc.SetOrder(c.Request.Context(), c.Param("id"), *in.Order)
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id/restore",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			p, err := h.svc.Restore(c.Request.Context(), c.Param("id"))
			if err != nil {
				return resp.Resp{}, err
			}
			return h.one(c, p)
		},
	})
}

func (in *projectPatchReq) patch() service.ProjectPatch {
	p := service.ProjectPatch{
		Images:       images(in.Images),
		Category:     in.Category,
		Technologies: in.Technologies,
		Duration:     in.Duration,
		TeamMembers:  in.TeamMembers,
		Status:       in.Status,
		Featured:     in.Featured,
		Order:        in.Order,
		IsPublic:     in.IsPublic,
		CompletedAt:  in.CompletedAt,
	}
	if in.Title != nil {
		t := domain.Bilingual(*in.Title)
		p.Title = &t
	}
	if in.Description != nil {
		d := domain.Bilingual(*in.Description)
		p.Description = &d
	}
	if in.Links != nil {
		l := domain.ProjectLinks(*in.Links)
		p.Links = &l
	}
	if in.Client != nil {
		cl := domain.ProjectClient(*in.Client)
		p.Client = &cl
	}
	return p
}

func (h *ProjectHandler) list(c *gin.Context, page domain.Page[domain.Project]) (resp.ListResp, error) {
	refs, err := h.svc.MemberRefs(c.Request.Context(), page.Items...)
	if err != nil {
		return resp.ListResp{}, err
	}
	return resp.List(projectViews(page.Items, refs), page), nil
}

func (h *ProjectHandler) one(c *gin.Context, p *domain.Project) (resp.Resp, error) {
	refs, err := h.svc.MemberRefs(c.Request.Context(), *p)
	if err != nil {
		return resp.Resp{}, err
	}
	return resp.OK(newProjectView(p, refs)), nil
}
