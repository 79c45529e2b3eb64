package biz

import (
	"go.uber.org/fx"
)

var Module = fx.Module("biz",
	fx.Provide(NewAuthService),
	fx.Provide(NewUserService),
	fx.Provide(NewClaimsService),
	fx.Provide(NewOrgService),
	fx.Provide(NewRoleService),
	fx.Provide(NewProjectService),
)
