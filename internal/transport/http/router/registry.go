package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule mounts one resource family under /api.
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// Modules may implement prioritizer to control mount order (lower first);
// the default is 100.
type prioritizer interface{ Priority() int }

// Registry collects the modules of one engine.
type Registry struct {
	mods []APIModule
}

func (r *Registry) Register(mods ...APIModule) {
	r.mods = append(r.mods, mods...)
}

// MountAll mounts every registered module in priority order.
func (r *Registry) MountAll(api *gin.RouterGroup) {
	mods := append([]APIModule(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
