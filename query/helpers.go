package query

import (
	"github.com/goliatone/go-hatchery/scope"
)

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}
