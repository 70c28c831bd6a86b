package events

import (
	"go.uber.org/zap"

	"mixanalyzer/logging"
)

// AttachAnalytics subscribes a structured-log emitter to every event on the
// bus. Events land in the log file as analytics records; nothing leaves the
// machine.
func AttachAnalytics(bus *Bus, logger *logging.Logger) (unsubscribe func()) {
	return bus.Subscribe("", func(ev Event) {
		fields := []zap.Field{
			zap.String("event", ev.Name),
			zap.Time("at", ev.Time),
		}
		if ev.TrackID != "" {
			fields = append(fields, zap.String("track_id", ev.TrackID))
		}
		for k, v := range ev.Fields {
			fields = append(fields, zap.Any(k, v))
		}
		logger.Info("analytics", fields...)
	})
}
