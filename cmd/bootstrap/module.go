package bootstrap

import (
	"turnos-core/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	OutboxModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
