package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/inventory-store/internal/core/domain"
)

// GRPCClient calls inventory.v1.InventoryService and maps status codes back to
// domain errors, so errors.Is(err, domain.ErrNotFound) works on the client side.
type GRPCClient struct {
	conn grpc.ClientConnInterface
}

func NewGRPCClient(conn grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{conn: conn}
}

func (c *GRPCClient) AddItem(ctx context.Context, payload domain.Payload) (domain.Item, error) {
	var out domain.Item
	err := c.invoke(ctx, methodAddItem, &payload, &out)
	return out, err
}

func (c *GRPCClient) GetItem(ctx context.Context, id uint64) (domain.Item, error) {
	var out domain.Item
	err := c.invoke(ctx, methodGetItem, &ItemIDRequest{ID: id}, &out)
	return out, err
}

func (c *GRPCClient) ListItems(ctx context.Context) ([]domain.Item, error) {
	var out ListItemsResponse
	if err := c.invoke(ctx, methodListItems, &ListItemsRequest{}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *GRPCClient) UpdateItem(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error) {
	var out domain.Item
	err := c.invoke(ctx, methodUpdateItem, &UpdateItemRequest{ID: id, Payload: payload}, &out)
	return out, err
}

func (c *GRPCClient) DeleteItem(ctx context.Context, id uint64) (domain.Item, error) {
	var out domain.Item
	err := c.invoke(ctx, methodDeleteItem, &ItemIDRequest{ID: id}, &out)
	return out, err
}

func (c *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	err := c.conn.Invoke(ctx, method, in, out, grpc.CallContentSubtype(JSONCodecName))
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return &domain.NotFoundError{Msg: st.Message()}
	case codes.ResourceExhausted:
		return domain.ErrIDExhausted
	}
	return err
}
