package migrations

import (
	hatchery "github.com/goliatone/go-hatchery"
)

func init() {
	Register(hatchery.GetCoreMigrationsFS())
}
