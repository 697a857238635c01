package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/friendfinder/internal/bridge"
	"github.com/zeusync/friendfinder/internal/config"
	"github.com/zeusync/friendfinder/internal/core/events/bus"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/internal/core/tracker"
	"github.com/zeusync/friendfinder/internal/host"
)

// App is the fully wired process.
type App struct {
	Config  config.Config
	Logger  *log.Logger
	Bus     bus.EventBus
	Tracker *tracker.Tracker
	Bridge  *bridge.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideTracker,
	ProvideBridge,
	wire.Struct(new(App), "*"),
)

// ProvideLogger builds the process logger. The cleanup flushes buffered entries.
func ProvideLogger(cfg config.Config) (*log.Logger, func(), error) {
	logger, err := log.New(cfg.LogLevel())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideBus(logger *log.Logger) bus.EventBus {
	b := bus.New()
	b.AddObserver(host.NewLogObserver(logger))
	return b
}

func ProvideTracker(cfg config.Config, logger *log.Logger) *tracker.Tracker {
	return tracker.New(cfg.ForTracker(), logger)
}

func ProvideBridge(cfg config.Config, b bus.EventBus, t *tracker.Tracker, logger *log.Logger) *bridge.Server {
	return bridge.NewServer(cfg.Bridge, b, t, logger)
}
