package pgcopy

import (
	"go.uber.org/zap"

	"tvpshape/pkg/param"
)

var _ param.Binder = Binder{}

func init() {
	param.Register("pgcopy", func(*zap.Logger) param.Binder { return Binder{} })
}
