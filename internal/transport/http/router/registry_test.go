package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recModule struct {
	name string
	prio int
	log  *[]string
}

func (m recModule) MountAPI(*gin.RouterGroup) { *m.log = append(*m.log, m.name) }
func (m recModule) Priority() int             { return m.prio }

type plainModule struct{ log *[]string }

func (m plainModule) MountAPI(*gin.RouterGroup) { *m.log = append(*m.log, "plain") }

func TestRegistryMountsInPriorityOrder(t *testing.T) {
	var order []string
	var reg Registry
	reg.Register(
		plainModule{&order},
		recModule{"contact", 40, &order},
		recModule{"auth", 10, &order},
		recModule{"team", 20, &order},
		recModule{"team-extra", 20, &order},
	)
	reg.MountAll(gin.New().Group("/api"))
	assert.Equal(t, []string{"auth", "team", "team-extra", "contact", "plain"}, order)
}
