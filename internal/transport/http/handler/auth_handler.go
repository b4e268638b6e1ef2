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

const loggedOut = "loggedout"

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	svc     *service.AuthService
	cookie  CookieConfig
	limiter gin.HandlerFunc
}

// NewAuthHandler mounts /auth. limiter guards register and login; nil means
// no extra limit.
func NewAuthHandler(svc *service.AuthService, cookie CookieConfig, limiter gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie, limiter: limiter}
}

func (h *AuthHandler) Priority() int { return 10 }

type registerReq struct {
	Name     string `json:"name" validate:"min=2,max=50" msg:"Name must be between 2 and 50 characters"`
	Email    string `json:"email" validate:"site_email" msg:"Please provide a valid email"`
	Password string `json:"password" trim:"-" validate:"min=6,strong_password" msg:"Password must be at least 6 characters long and contain at least one letter and one number"`
}

type loginReq struct {
	Email    string `json:"email" validate:"site_email" msg:"Please provide a valid email"`
	Password string `json:"password" trim:"-" validate:"required" msg:"Password is required"`
}

type updateDetailsReq struct {
	Name  *string `json:"name" validate:"omitnil,min=2,max=50" msg:"Name must be between 2 and 50 characters"`
	Email *string `json:"email" validate:"omitnil,site_email" msg:"Please provide a valid email"`
}

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword" trim:"-" validate:"required" msg:"Current password is required"`
	NewPassword     string `json:"newPassword" trim:"-" validate:"min=6,strong_password" msg:"New password must be at least 6 characters long and contain at least one letter and one number"`
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	var limited []gin.HandlerFunc
	if h.limiter != nil {
		limited = append(limited, h.limiter)
	}
	e := ez.New(g).Group("/auth")

	ez.RegisterAction(e, ez.Action[registerReq, resp.AuthResp]{
		Method:      http.MethodPost,
		Path:        "/register",
		Binder:      ez.BindJSON,
		Status:      http.StatusCreated,
		Middlewares: limited,
		Handler: func(c *gin.Context, in *registerReq) (resp.AuthResp, error) {
			u, tok, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
				Name: in.Name, Email: in.Email, Password: in.Password,
			})
			if err != nil {
				return resp.AuthResp{}, err
			}
			return h.session(c, u, tok), nil
		},
	})

	ez.RegisterAction(e, ez.Action[loginReq, resp.AuthResp]{
		Method:      http.MethodPost,
		Path:        "/login",
		Binder:      ez.BindJSON,
		Middlewares: limited,
		Handler: func(c *gin.Context, in *loginReq) (resp.AuthResp, error) {
			u, tok, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return resp.AuthResp{}, err
			}
			return h.session(c, u, tok), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/logout",
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			h.setCookie(c, loggedOut, 10*time.Second)
			return resp.Msg("Logged out successfully"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.StatusResp]{
		Method: http.MethodGet,
		Path:   "/status",
		Handler: func(c *gin.Context, _ *struct{}) (resp.StatusResp, error) {
			u := mdw.CurrentUser(c)
			return resp.StatusResp{
				Success:         true,
				IsAuthenticated: u != nil,
				Data:            gin.H{"user": u},
			}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/me",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			u, err := h.svc.Me(c.Request.Context(), mdw.CurrentUser(c).ID)
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"user": u}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[updateDetailsReq, resp.Resp]{
		Method: http.MethodPut,
		Path:   "/updatedetails",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateDetailsReq) (resp.Resp, error) {
			u, err := h.svc.UpdateDetails(c.Request.Context(), mdw.CurrentUser(c).ID, service.UpdateDetailsInput{
				Name: in.Name, Email: in.Email,
			})
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"user": u}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[updatePasswordReq, resp.AuthResp]{
		Method: http.MethodPut,
		Path:   "/updatepassword",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updatePasswordReq) (resp.AuthResp, error) {
			u, tok, err := h.svc.UpdatePassword(c.Request.Context(), mdw.CurrentUser(c).ID, in.CurrentPassword, in.NewPassword)
			if err != nil {
				return resp.AuthResp{}, err
			}
			return h.session(c, u, tok), nil
		},
	})
}

// session hands the token out both ways: httpOnly cookie for the browser,
// body for header-based clients.
func (h *AuthHandler) session(c *gin.Context, u *domain.User, tok string) resp.AuthResp {
	h.setCookie(c, tok, h.cookie.TTL)
	return resp.AuthResp{Success: true, Token: tok, Data: gin.H{"user": u}}
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, value, int(ttl/time.Second), "/", "", h.cookie.Secure, true)
}
