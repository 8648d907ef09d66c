package services

import (
	"context"
	"encoding/json"

	"nicolaspaye/gamification/internal/gamification"
	"nicolaspaye/gamification/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ModerationResolvedEvent is published by the moderation pipeline whenever a
// pending submission reaches a terminal status.
type ModerationResolvedEvent struct {
	UserID      uint   `json:"userId"`
	SubjectID   string `json:"subjectId"`
	SubjectKind string `json:"subjectKind"`
	Status      string `json:"status"`
}

const moderationChannel = "moderation_resolved"

// ModerationSubscriber listens for moderation outcomes and claws back XP
// granted for subjects that end up rejected.
type ModerationSubscriber struct {
	rdb        *redis.Client
	engine     *gamification.Engine
	logger     *zap.Logger
	instanceID string
}

func NewModerationSubscriber(rdb *redis.Client, engine *gamification.Engine, logger *zap.Logger) *ModerationSubscriber {
	return &ModerationSubscriber{
		rdb:        rdb,
		engine:     engine,
		logger:     logger,
		instanceID: uuid.New().String()[:8], // short instance ID for logging
	}
}

// Subscribe blocks consuming moderation events until ctx is cancelled.
func (s *ModerationSubscriber) Subscribe(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	subscriber := s.rdb.Subscribe(ctx, moderationChannel)
	defer subscriber.Close()
	ch := subscriber.Channel()

	s.logger.Info("subscribed to moderation events",
		zap.String("channel", moderationChannel),
		zap.String("instance", s.instanceID))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handleEvent(ctx, msg.Payload)
		}
	}
}

func (s *ModerationSubscriber) handleEvent(ctx context.Context, payload string) {
	var event ModerationResolvedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.Warn("malformed moderation event", zap.Error(err))
		return
	}

	if event.Status != string(models.StatusRejected) {
		return
	}

	if err := s.engine.ClawbackXP(ctx, event.UserID, event.SubjectID, event.SubjectKind); err != nil {
		s.logger.Error("clawback from moderation event failed",
			zap.Uint("userId", event.UserID),
			zap.String("subjectId", event.SubjectID),
			zap.Error(err))
		return
	}

	s.logger.Info("moderation rejection processed",
		zap.String("instance", s.instanceID),
		zap.String("subjectId", event.SubjectID))
}
