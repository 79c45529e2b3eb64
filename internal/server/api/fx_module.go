package api

import (
	"go.uber.org/fx"
)

var Module = fx.Module("api",
	fx.Provide(NewSystemHandlers),
	fx.Provide(NewAuthHandlers),
	fx.Provide(NewOrgHandlers),
	fx.Provide(NewProjectHandlers),
	fx.Provide(NewRoleHandlers),
)
