package usecase

import (
	"context"

	"kinhealth/internal/infrastructure/messaging"

	"github.com/sirupsen/logrus"
)

// publishEvent is best effort: a missing broker or failed publish never fails the request
func publishEvent(ctx context.Context, log *logrus.Logger, publisher messaging.PublisherInterface, routingKey string, event interface{}) {
	if publisher == nil {
		log.Debugf("Event publisher not configured, skipping %s", routingKey)
		return
	}
	if err := publisher.Publish(ctx, routingKey, event); err != nil {
		log.Warnf("Failed to publish %s: %+v", routingKey, err)
	}
}
