package host

import (
	"time"

	"github.com/zeusync/friendfinder/internal/core/events/bus"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
)

var _ bus.EventBusObserver = (*LogObserver)(nil)

// LogObserver logs bus deliveries. Handler failures are logged at warn level.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	return &LogObserver{logger: logger.With(log.String("component", "bus"))}
}

func (o *LogObserver) OnPublish(string, bus.Event) {}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error, duration time.Duration) {
	if err != nil {
		o.logger.Warn("Event handler failed",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Error(err),
		)
		return
	}
	o.logger.Debug("Event delivered",
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", duration),
	)
}
