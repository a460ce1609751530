package bootstrap

import (
	"eventhub/internal/infra/metrics"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Invoke(metrics.Register),
)
