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

type TeamHandler struct {
	svc *service.TeamService
}

func NewTeamHandler(svc *service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Priority() int { return 20 }

type teamName struct {
	Ar string `json:"ar" validate:"min=2,max=50" msg:"Arabic name must be between 2 and 50 characters"`
	En string `json:"en" validate:"min=2,max=50" msg:"English name must be between 2 and 50 characters"`
}

type teamBio struct {
	Ar string `json:"ar" validate:"min=10,max=500" msg:"Arabic bio must be between 10 and 500 characters"`
	En string `json:"en" validate:"min=10,max=500" msg:"English bio must be between 10 and 500 characters"`
}

type socialReq struct {
	Github   string `json:"github" validate:"omitempty,github_url" msg:"Invalid GitHub URL"`
	Linkedin string `json:"linkedin" validate:"omitempty,linkedin_url" msg:"Invalid LinkedIn URL"`
	Twitter  string `json:"twitter" validate:"omitempty,twitter_url" msg:"Invalid Twitter URL"`
	Dribbble string `json:"dribbble" validate:"omitempty,dribbble_url" msg:"Invalid Dribbble URL"`
	Behance  string `json:"behance" validate:"omitempty,behance_url" msg:"Invalid Behance URL"`
}

func (s socialReq) domain() domain.Social {
	return domain.Social(s)
}

type teamMemberReq struct {
	Name     teamName   `json:"name"`
	Role     string     `json:"role" validate:"oneof=fullstack frontend backend ui ux manager designer" msg:"Invalid role"`
	Bio      teamBio    `json:"bio"`
	Image    string     `json:"image" validate:"max=255"`
	Skills   []string   `json:"skills" validate:"min=1,dive,notblank" msg:"At least one skill is required" msgelem:"Skill cannot be empty"`
	Social   socialReq  `json:"social"`
	Order    int        `json:"order"`
	IsActive *bool      `json:"isActive"`
	JoinedAt *time.Time `json:"joinedAt"`
}

type teamMemberPatchReq struct {
	Name     *teamName  `json:"name"`
	Role     *string    `json:"role" validate:"omitnil,oneof=fullstack frontend backend ui ux manager designer" msg:"Invalid role"`
	Bio      *teamBio   `json:"bio"`
	Image    *string    `json:"image" validate:"omitnil,max=255"`
	Skills   []string   `json:"skills" validate:"omitnil,min=1,dive,notblank" msg:"At least one skill is required" msgelem:"Skill cannot be empty"`
	Social   *socialReq `json:"social"`
	Order    *int       `json:"order"`
	IsActive *bool      `json:"isActive"`
	JoinedAt *time.Time `json:"joinedAt"`
}

type teamListQ struct {
	Role   string `form:"role"`
	Active *bool  `form:"active"`
	Sort   string `form:"sort"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type pageQ struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (q pageQ) query() domain.PageQuery { return domain.PageQuery{Page: q.Page, Limit: q.Limit} }

type orderReq struct {
	Order *int `json:"order" validate:"required" msg:"Order must be a number"`
}

func (h *TeamHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g).Group("/team")
	admin := []string{domain.RoleAdmin}

	ez.RegisterAction(e, ez.Action[teamListQ, resp.ListResp]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *teamListQ) (resp.ListResp, error) {
			page, err := h.svc.List(c.Request.Context(), mdw.Scope(c), domain.TeamFilter{
				Role:      in.Role,
				Active:    in.Active,
				Sort:      domain.TeamSort(in.Sort),
				PageQuery: domain.PageQuery{Page: in.Page, Limit: in.Limit},
			})
			if err != nil {
				return resp.ListResp{}, err
			}
			return resp.List(teamViews(page.Items), page), nil
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

	ez.RegisterAction(e, ez.Action[pageQ, resp.ListResp]{
		Method: http.MethodGet,
		Path:   "/role/:role",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (resp.ListResp, error) {
			page, err := h.svc.List(c.Request.Context(), mdw.Scope(c), domain.TeamFilter{
				Role:      c.Param("role"),
				PageQuery: in.query(),
			})
			if err != nil {
				return resp.ListResp{}, err
			}
			return resp.List(teamViews(page.Items), page), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/:id",
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			m, err := h.svc.Get(c.Request.Context(), mdw.Scope(c), c.Param("id"))
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(teamView(m)), nil
		},
	})

	ez.RegisterAction(e, ez.Action[teamMemberReq, resp.Resp]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  admin,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *teamMemberReq) (resp.Resp, error) {
			m, err := h.svc.Create(c.Request.Context(), service.TeamMemberInput{
				Name:     domain.Bilingual(in.Name),
				Role:     in.Role,
				Bio:      domain.Bilingual(in.Bio),
				Image:    in.Image,
				Skills:   in.Skills,
				Social:   in.Social.domain(),
				Order:    in.Order,
				IsActive: in.IsActive,
				JoinedAt: in.JoinedAt,
			})
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(teamView(m)), nil
		},
	})

	ez.RegisterAction(e, ez.Action[teamMemberPatchReq, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  admin,
		Handler: func(c *gin.Context, in *teamMemberPatchReq) (resp.Resp, error) {
			p := service.TeamMemberPatch{
				Role:     in.Role,
				Image:    in.Image,
				Skills:   in.Skills,
				Order:    in.Order,
				IsActive: in.IsActive,
				JoinedAt: in.JoinedAt,
			}
			if in.Name != nil {
				n := domain.Bilingual(*in.Name)
				p.Name = &n
			}
			if in.Bio != nil {
				b := domain.Bilingual(*in.Bio)
				p.Bio = &b
			}
			if in.Social != nil {
				s := in.Social.domain()
				p.Social = &s
			}
			m, err := h.svc.Update(c.Request.Context(), c.Param("id"), p)
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(teamView(m)), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			if err := h.svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Resp{}, err
			}
			return resp.Msg("Team member deactivated successfully"), nil
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
			return resp.Msg("Team member permanently deleted"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[orderReq, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id/order",
		Binder: ez.BindJSON,
		Roles:  admin,
		Handler: func(c *gin.Context, in *orderReq) (resp.Resp, error) {
			m, err := h.svc.SetOrder(c.Request.Context(), c.Param("id"), *in.Order)
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(teamView(m)), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/:id/reactivate",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			m, err := h.svc.Reactivate(c.Request.Context(), c.Param("id"))
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(teamView(m)), nil
		},
	})
}
