package tools

import (
	"github.com/usestring/filterkit/internal/cache"
	"github.com/usestring/filterkit/internal/config"
	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/internal/index"
	"github.com/usestring/filterkit/pkg/jsoncompact"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Manager *filter.Manager
	Index   *index.Index
	Cache   *cache.ResultCache // nil when result caching is disabled
	Config  *config.Config
}

// Container returns the filters the manager executes.
func (d *Deps) Container() *filter.Container {
	return d.Manager.Container()
}

func (d *Deps) compactLimits() jsoncompact.Limits {
	if d.Config == nil {
		return jsoncompact.DefaultLimits()
	}
	return jsoncompact.Limits{
		MaxArrayItems: d.Config.CompactMaxArrayItems,
		MaxStringLen:  d.Config.CompactMaxStringLen,
	}
}
