package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

// publishTimeout caps how long a mutation waits on the event broker.
const publishTimeout = 2 * time.Second

// InventoryService exposes the five store operations to the transports.
// Every call is a thin pass-through to the repository, wrapped in a span and
// followed by an event for committed mutations.
type InventoryService struct {
	repo      port.ItemRepository
	publisher port.EventPublisher
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() uint64

	publishTimeout time.Duration
}

func NewInventoryService(repo port.ItemRepository, publisher port.EventPublisher, logger *zap.Logger, tracer trace.Tracer) *InventoryService {
	return &InventoryService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
		now:       domain.Now,

		publishTimeout: publishTimeout,
	}
}

func (s *InventoryService) AddItem(ctx context.Context, payload domain.Payload) (domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.add_item")
	defer span.End()
	span.SetAttributes(attribute.String("inventory.operation", "add_item"))

	item, err := s.repo.Add(ctx, payload)
	if err != nil {
		s.fail(span, "add item failed", err)
		return domain.Item{}, err
	}

	span.SetAttributes(attribute.Int64("inventory.item_id", int64(item.ID)))
	s.logger.Debug("item added", zap.Uint64("item_id", item.ID), zap.String("name", item.Name))
	s.publish(ctx, domain.EventItemCreated, item)
	return item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id uint64) (domain.Item, error) {
	ctx, span := s.startByID(ctx, "get_item", id)
	defer span.End()

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		s.fail(span, "get item failed", err, zap.Uint64("item_id", id))
		return domain.Item{}, err
	}
	return item, nil
}

func (s *InventoryService) ListItems(ctx context.Context) ([]domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.list_items")
	defer span.End()
	span.SetAttributes(attribute.String("inventory.operation", "list_items"))

	items, err := s.repo.List(ctx)
	if err != nil {
		s.fail(span, "list items failed", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("inventory.item_count", len(items)))
	return items, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error) {
	ctx, span := s.startByID(ctx, "update_item", id)
	defer span.End()

	item, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		s.fail(span, "update item failed", err, zap.Uint64("item_id", id))
		return domain.Item{}, err
	}

	s.logger.Debug("item updated", zap.Uint64("item_id", id))
	s.publish(ctx, domain.EventItemUpdated, item)
	return item, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id uint64) (domain.Item, error) {
	ctx, span := s.startByID(ctx, "delete_item", id)
	defer span.End()

	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.fail(span, "delete item failed", err, zap.Uint64("item_id", id))
		return domain.Item{}, err
	}

	s.logger.Debug("item deleted", zap.Uint64("item_id", id))
	s.publish(ctx, domain.EventItemDeleted, item)
	return item, nil
}

func (s *InventoryService) startByID(ctx context.Context, op string, id uint64) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "inventory."+op)
	span.SetAttributes(
		attribute.String("inventory.operation", op),
		attribute.Int64("inventory.item_id", int64(id)),
	)
	return ctx, span
}

// fail records err on the span. NotFound is an expected outcome and only warns.
func (s *InventoryService) fail(span trace.Span, msg string, err error, fields ...zap.Field) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	fields = append(fields, zap.Error(err))
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn(msg, fields...)
		return
	}
	s.logger.Error(msg, fields...)
}

// publish never fails the caller: the store already committed the change.
// An unreachable broker delays the caller by at most publishTimeout.
func (s *InventoryService) publish(ctx context.Context, typ domain.EventType, item domain.Item) {
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	event := domain.ItemEvent{Type: typ, Item: item, OccurredAt: s.now()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish item event",
			zap.String("event_type", string(typ)),
			zap.Uint64("item_id", item.ID),
			zap.Error(err),
		)
	}
}
