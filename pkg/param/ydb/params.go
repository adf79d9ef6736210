package ydb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"

	"tvpshape/pkg/param"
)

// ErrNotValue is returned when a non-YDB value is added to Params.
var ErrNotValue = errors.New("ydb: parameter value is not a types.Value")

// Params is a param.Collection of YDB query parameters. Names are stored
// with the leading "$" YQL requires; "ids" and "$ids" name the same
// parameter. The zero value is ready to use.
type Params struct {
	opts []table.ParameterOption
}

var _ param.Collection = (*Params)(nil)

// Add adds a parameter. value must be a types.Value, as produced by Binder.
func (p *Params) Add(name string, value any) error {
	name = strings.TrimPrefix(name, "$")
	if name == "" {
		return param.ErrEmptyName
	}
	v, ok := value.(types.Value)
	if !ok {
		return fmt.Errorf("%w: %s is %T", ErrNotValue, name, value)
	}
	name = "$" + name
	for _, o := range p.opts {
		if o.Name() == name {
			return fmt.Errorf("%w: %q", param.ErrDuplicateParameter, name)
		}
	}
	p.opts = append(p.opts, table.ValueParam(name, v))
	return nil
}

// Options returns the parameters as options for session.Execute and friends.
func (p *Params) Options() []table.ParameterOption {
	return p.opts
}

// QueryParameters returns the parameters as *table.QueryParameters.
func (p *Params) QueryParameters() *table.QueryParameters {
	return table.NewQueryParameters(p.opts...)
}
