package param

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Factory constructs a Binder. log is never nil.
type Factory func(log *zap.Logger) Binder

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a binder kind such as
// "mssql". It is typically called from binder packages' init() functions;
// import tvpshape/pkg/param/all to enable every built-in binder.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New returns a Binder of the registered kind. A nil log is replaced by a
// no-op logger.
func New(kind string, log *zap.Logger) (Binder, error) {
	mu.RLock()
	f, ok := factories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported binder kind=%s", kind)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return f(log), nil
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
