package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rl1809/inventory-store/internal/core/domain"
)

const inventoryServiceName = "inventory.v1.InventoryService"

const (
	methodAddItem    = "/" + inventoryServiceName + "/AddItem"
	methodGetItem    = "/" + inventoryServiceName + "/GetItem"
	methodListItems  = "/" + inventoryServiceName + "/ListItems"
	methodUpdateItem = "/" + inventoryServiceName + "/UpdateItem"
	methodDeleteItem = "/" + inventoryServiceName + "/DeleteItem"
)

type ItemIDRequest struct {
	ID uint64 `json:"id"`
}

type UpdateItemRequest struct {
	ID      uint64         `json:"id"`
	Payload domain.Payload `json:"payload"`
}

type ListItemsRequest struct{}

type ListItemsResponse struct {
	Items []domain.Item `json:"items"`
}

// InventoryServiceServer is the server API for inventory.v1.InventoryService.
type InventoryServiceServer interface {
	AddItem(context.Context, *domain.Payload) (*domain.Item, error)
	GetItem(context.Context, *ItemIDRequest) (*domain.Item, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	UpdateItem(context.Context, *UpdateItemRequest) (*domain.Item, error)
	DeleteItem(context.Context, *ItemIDRequest) (*domain.Item, error)
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: inventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AddItem",
			Handler: unaryHandler(methodAddItem, func(s InventoryServiceServer, ctx context.Context, in *domain.Payload) (any, error) {
				return s.AddItem(ctx, in)
			}),
		},
		{
			MethodName: "GetItem",
			Handler: unaryHandler(methodGetItem, func(s InventoryServiceServer, ctx context.Context, in *ItemIDRequest) (any, error) {
				return s.GetItem(ctx, in)
			}),
		},
		{
			MethodName: "ListItems",
			Handler: unaryHandler(methodListItems, func(s InventoryServiceServer, ctx context.Context, in *ListItemsRequest) (any, error) {
				return s.ListItems(ctx, in)
			}),
		},
		{
			MethodName: "UpdateItem",
			Handler: unaryHandler(methodUpdateItem, func(s InventoryServiceServer, ctx context.Context, in *UpdateItemRequest) (any, error) {
				return s.UpdateItem(ctx, in)
			}),
		},
		{
			MethodName: "DeleteItem",
			Handler: unaryHandler(methodDeleteItem, func(s InventoryServiceServer, ctx context.Context, in *ItemIDRequest) (any, error) {
				return s.DeleteItem(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/inventory.json",
}

// unaryHandler decodes the request into a fresh Req and runs call through the interceptor chain.
func unaryHandler[Req any](fullMethod string, call func(InventoryServiceServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
