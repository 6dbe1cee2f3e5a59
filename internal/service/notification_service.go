package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edudash-be/internal/dto"
	"edudash-be/internal/pkg/logger"
	"edudash-be/pkg/events"
	pktNats "edudash-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification dto.Notification)
	Broadcast(notification dto.Notification)
}

// NotificationService turns bus events into websocket pushes.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the "events." prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), map[string]interface{}{"type": typeCode})

	switch typeCode {
	case events.TypeResourceIngested:
		title, _ := payload["title"].(string)
		s.delivery.Broadcast(dto.Notification{
			Type:      typeCode,
			Title:     "New learning resource available",
			Body:      title,
			Data:      payload,
			CreatedAt: time.Now(),
		})

	case events.TypeChatTurnSaved:
		userId, ok := parseUserId(payload["user_id"])
		if !ok {
			s.logger.Warn("NotificationService", "Event missing user_id, skipping", map[string]interface{}{"type": typeCode})
			return nil
		}
		s.delivery.Send(userId, dto.Notification{
			Type:      typeCode,
			Title:     "Assistant reply saved",
			Data:      payload,
			CreatedAt: time.Now(),
		})

	default:
		// Unknown events are fine; the bus carries more than we render.
	}

	return nil
}

func parseUserId(v interface{}) (uuid.UUID, bool) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
