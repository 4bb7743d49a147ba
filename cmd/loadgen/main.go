package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/inventory-store/internal/adapter/handler"
	"github.com/rl1809/inventory-store/internal/core/domain"
)

// inventoryClient is the slice of the API the load generator drives.
type inventoryClient interface {
	AddItem(ctx context.Context, payload domain.Payload) (domain.Item, error)
	UpdateItem(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func (c *httpClient) AddItem(ctx context.Context, payload domain.Payload) (domain.Item, error) {
	var item domain.Item
	err := c.do(ctx, http.MethodPost, "/api/items", payload, http.StatusCreated, &item)
	return item, err
}

func (c *httpClient) UpdateItem(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error) {
	var item domain.Item
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/items/%d", id), payload, http.StatusOK, &item)
	return item, err
}

func (c *httpClient) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := c.do(ctx, http.MethodGet, "/api/items", nil, http.StatusOK, &items)
	return items, err
}

func (c *httpClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func main() {
	transport := flag.String("transport", "http", "http or grpc")
	httpURL := flag.String("http", "http://localhost:8080", "HTTP base URL")
	grpcAddr := flag.String("grpc", "localhost:50051", "gRPC address")
	totalRequests := flag.Int("n", 500, "number of items to create")
	workers := flag.Int("c", 50, "concurrent workers")
	flag.Parse()

	ctx := context.Background()

	var client inventoryClient
	switch *transport {
	case "http":
		client = &httpClient{baseURL: *httpURL, client: &http.Client{Timeout: 5 * time.Second}}
	case "grpc":
		conn, err := grpc.NewClient(*grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatalf("failed to connect grpc: %v", err)
		}
		defer conn.Close()
		client = handler.NewGRPCClient(conn)
	default:
		log.Fatalf("unknown transport %q", *transport)
	}

	before, err := client.ListItems(ctx)
	if err != nil {
		log.Fatalf("failed to list items: %v", err)
	}

	// Counters
	var createdCount atomic.Int32
	var successCount atomic.Int32
	var failCount atomic.Int32
	var mu sync.Mutex
	ids := make(map[uint64]bool, *totalRequests)
	duplicates := 0

	jobs := make(chan int)
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				item, err := client.AddItem(ctx, domain.Payload{Name: fmt.Sprintf("load-%d", i), Quantity: uint32(i), Price: 1})
				if err != nil {
					log.Printf("add %d failed: %v", i, err)
					failCount.Add(1)
					continue
				}
				createdCount.Add(1)

				mu.Lock()
				if ids[item.ID] {
					duplicates++
				}
				ids[item.ID] = true
				mu.Unlock()

				_, err = client.UpdateItem(ctx, item.ID, domain.Payload{Name: item.Name, Quantity: item.Quantity + 1, Price: 2})
				if err != nil {
					log.Printf("update %d failed: %v", item.ID, err)
					failCount.Add(1)
					continue
				}
				successCount.Add(1)
			}
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)

	after, err := client.ListItems(ctx)
	if err != nil {
		log.Fatalf("failed to list items: %v", err)
	}

	// Results
	success := successCount.Load()
	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Transport:        %s\n", *transport)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Created:          %d\n", createdCount.Load())
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("========================================")

	if duplicates == 0 {
		fmt.Println("PASS: every created item got a distinct id")
	} else {
		fmt.Printf("FAIL: %d duplicate ids issued\n", duplicates)
	}

	created := int(createdCount.Load())
	if grown := len(after) - len(before); grown == created {
		fmt.Printf("PASS: store grew by %d items\n", grown)
	} else {
		fmt.Printf("FAIL: expected store to grow by %d, grew by %d\n", created, grown)
	}
}
