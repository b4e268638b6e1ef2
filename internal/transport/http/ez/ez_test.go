package ez

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-site-api/internal/domain"
	"studio-site-api/internal/transport/http/middleware"
	resp "studio-site-api/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type noteIn struct {
	Note   string     `json:"note" validate:"min=3" msg:"Note is too short"`
	Order  int        `json:"order"`
	Due    *time.Time `json:"due"`
	Secret string     `json:"secret" trim:"-"`
}

type listIn struct {
	Page int    `form:"page"`
	Q    string `form:"q" validate:"max=5" msg:"Search term is too long"`
}

type staticResolver struct{ u *domain.User }

func (s staticResolver) Resolve(context.Context, string) (*domain.User, error) {
	if s.u == nil {
		return nil, domain.Unauthenticated("You are not logged in! Please log in to get access.")
	}
	return s.u, nil
}

func engine(u *domain.User) *gin.Engine {
	r := gin.New()
	g := r.Group("", middleware.Authenticate(staticResolver{u}, "jwt"))
	e := New(g).Group("/notes")
	RegisterAction(e, Action[noteIn, resp.Resp]{
		Method: http.MethodPost,
		Path:   "",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(_ *gin.Context, in *noteIn) (resp.Resp, error) {
			if in.Note == "boom" {
				return resp.Resp{}, domain.NotFound("Note not found")
			}
			return resp.OK(in), nil
		},
	})
	RegisterAction(e, Action[listIn, resp.Resp]{
		Method: http.MethodGet,
		Path:   "",
		Binder: BindQuery,
		Handler: func(_ *gin.Context, in *listIn) (resp.Resp, error) {
			return resp.OK(in), nil
		},
	})
	RegisterAction(e, Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			return resp.Msg("deleted " + c.Param("id")), nil
		},
	})
	return r
}

func call(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRegisterAction_BindTrimValidate(t *testing.T) {
	r := engine(nil)

	w, body := call(r, http.MethodPost, "/notes", `{"note":"  hello  ","secret":" s "}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := body["data"].(map[string]any)
	assert.Equal(t, "hello", data["note"])
	assert.Equal(t, " s ", data["secret"])

	w, body = call(r, http.MethodPost, "/notes", `{"note":"  a  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Note is too short", body["message"])
	assert.Equal(t, false, body["success"])

	w, body = call(r, http.MethodPost, "/notes", `{"note":"boom"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Note not found", body["message"])
}

func TestBindErrors(t *testing.T) {
	r := engine(nil)
	cases := map[string]string{
		``:                              "Request body is required",
		`{"note":`:                      "Malformed JSON body",
		`{"note":"hello",}`:             "Malformed JSON body",
		`{"note":"hello","order":"x"}`:  "Invalid value for order",
		`{"note":"hello","due":"soon"}`: `Invalid date "soon"`,
	}
	for in, want := range cases {
		w, body := call(r, http.MethodPost, "/notes", in)
		assert.Equal(t, http.StatusBadRequest, w.Code, in)
		assert.Equal(t, want, body["message"], in)
	}
}

func TestBindQuery(t *testing.T) {
	r := engine(nil)

	w, body := call(r, http.MethodGet, "/notes?page=2&q=go", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["data"].(map[string]any)["Page"])

	w, body = call(r, http.MethodGet, "/notes?page=two", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid query parameters", body["message"])

	w, body = call(r, http.MethodGet, "/notes?q=toolong", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search term is too long", body["message"])
}

func TestRegisterAction_Roles(t *testing.T) {
	w, _ := call(engine(nil), http.MethodDelete, "/notes/7", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = call(engine(&domain.User{ID: "u", Role: domain.RoleUser}), http.MethodDelete, "/notes/7", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := call(engine(&domain.User{ID: "a", Role: domain.RoleAdmin}), http.MethodDelete, "/notes/7", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted 7", body["message"])
}
