package mssql

import (
	"go.uber.org/zap"

	"tvpshape/pkg/param"
)

var _ param.Binder = Binder{}

func init() {
	param.Register("mssql", func(log *zap.Logger) param.Binder { return Binder{Logger: log} })
}
