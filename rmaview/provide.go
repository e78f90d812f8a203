package rmaview

import (
	"github.com/iccolo/rmagui/rmaapi"
	"github.com/iccolo/rmagui/rmaroute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SetIn is the set of dependencies for Provide.
type SetIn struct {
	fx.In

	API    rmaapi.API
	Logger *zap.Logger `optional:"true"`
}

// Provide supplies the application's *Set, built from Views, both as itself
// and as the rmaroute.Resolver the route registry resolves against.
func Provide() fx.Option {
	return fx.Provide(
		func(in SetIn) (*Set, error) {
			return NewSet(in.Logger, Views(in.API)...)
		},
		func(s *Set) rmaroute.Resolver {
			return s
		},
	)
}
