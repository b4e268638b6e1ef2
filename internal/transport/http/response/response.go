package response

import (
	"github.com/gin-gonic/gin"

	"studio-site-api/internal/domain"
)

// Resp is the envelope of every non-list response.
type Resp struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListResp is the envelope shared by every list endpoint.
type ListResp struct {
	Success     bool  `json:"success"`
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"currentPage"`
	Data        any   `json:"data"`
}

// AuthResp carries the session token next to the user for header-based clients.
type AuthResp struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Data    any    `json:"data"`
}

// StatusResp answers /auth/status.
type StatusResp struct {
	Success         bool `json:"success"`
	IsAuthenticated bool `json:"isAuthenticated"`
	Data            any  `json:"data"`
}

func OK(data any) Resp { return Resp{Success: true, Data: data} }

func Msg(msg string) Resp { return Resp{Success: true, Message: msg} }

// Error builds a failure body; an empty msg falls back to the status default.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Success: false, Message: msg}
}

// List wraps one page of already-rendered items.
func List[T, V any](items []V, page domain.Page[T]) ListResp {
	return ListFrom(items, page.Total, page.Page, page.Pages())
}

// ListFrom never emits null data: a nil page becomes [].
func ListFrom[T any](items []T, total int64, current, pages int) ListResp {
	if items == nil {
		items = []T{}
	}
	return ListResp{
		Success:     true,
		Count:       len(items),
		Total:       total,
		Pages:       pages,
		CurrentPage: current,
		Data:        items,
	}
}

// Abort stops the chain with the status and message derived from err.
func Abort(c *gin.Context, err error) {
	code := StatusOf(err)
	c.AbortWithStatusJSON(code, Error(code, err.Error()))
}
