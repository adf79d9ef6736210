package ydb

import (
	"go.uber.org/zap"

	"tvpshape/pkg/param"
)

var _ param.Binder = Binder{}

func init() {
	param.Register("ydb", func(log *zap.Logger) param.Binder { return Binder{Logger: log} })
}
