package handler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/core/service"
)

var _ InventoryServiceServer = (*GRPCHandler)(nil)

type GRPCHandler struct {
	inventoryService *service.InventoryService
}

func NewGRPCHandler(inventoryService *service.InventoryService) *GRPCHandler {
	return &GRPCHandler{inventoryService: inventoryService}
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *domain.Payload) (*domain.Item, error) {
	item, err := h.inventoryService.AddItem(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &item, nil
}

func (h *GRPCHandler) GetItem(ctx context.Context, req *ItemIDRequest) (*domain.Item, error) {
	item, err := h.inventoryService.GetItem(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &item, nil
}

func (h *GRPCHandler) ListItems(ctx context.Context, _ *ListItemsRequest) (*ListItemsResponse, error) {
	items, err := h.inventoryService.ListItems(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListItemsResponse{Items: items}, nil
}

func (h *GRPCHandler) UpdateItem(ctx context.Context, req *UpdateItemRequest) (*domain.Item, error) {
	item, err := h.inventoryService.UpdateItem(ctx, req.ID, req.Payload)
	if err != nil {
		return nil, toStatus(err)
	}
	return &item, nil
}

func (h *GRPCHandler) DeleteItem(ctx context.Context, req *ItemIDRequest) (*domain.Item, error) {
	item, err := h.inventoryService.DeleteItem(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &item, nil
}

// LoggingInterceptor writes one log line per unary call.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrIDExhausted):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
