package mcpsrv

import (
	"github.com/usestring/filterkit/internal/cache"
	"github.com/usestring/filterkit/internal/config"
	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/internal/index"
)

// Deps contains all dependencies available to custom tools.
// Custom tools get the same infrastructure as the builtin ones.
type Deps struct {
	Manager *filter.Manager
	Index   *index.Index
	Cache   *cache.ResultCache // nil when RESULT_CACHE_MAX_ITEMS is 0
	Config  *config.Config
}
