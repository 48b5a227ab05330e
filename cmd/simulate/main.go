package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/primo-pizza/internal/adapter/storage"
	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/core/service"
	"github.com/rl1809/primo-pizza/internal/core/session"
	"github.com/rl1809/primo-pizza/internal/port"
)

// simulate fires concurrent checkouts at the order pipeline and checks that
// order IDs stay unique and no ingredient goes negative.
func main() {
	driver := flag.String("store", "memory", "memory or redis")
	redisAddr := flag.String("redis", "localhost:6379", "redis address")
	total := flag.Int("orders", 200, "number of checkouts to attempt")
	itemID := flag.String("item", "1", "menu item to order")
	flag.Parse()

	ctx := context.Background()

	var store interface {
		port.DocumentStore
		port.IdempotencyGuard
	}
	switch *driver {
	case "memory":
		store = storage.NewMemoryStore()
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()

		prefix := fmt.Sprintf("simulate:%d:", time.Now().UnixNano())
		store = storage.NewRedisStore(rdb, prefix)
		log.Printf("using redis keys under %s", prefix)
	default:
		log.Fatalf("unknown store %q", *driver)
	}

	if err := service.Bootstrap(ctx, store, time.Now()); err != nil {
		log.Fatalf("failed to seed store: %v", err)
	}
	svc := service.New(service.Deps{Store: store, Guard: store})

	var successCount, outOfStock, failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *total; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			s := session.New(svc, nil)
			if _, err := s.AddByID(ctx, *itemID); err != nil {
				outOfStock.Add(1)
				return
			}
			_, err := s.Checkout(ctx, session.CheckoutForm{
				RequestID: fmt.Sprintf("sim-%d", n),
				Name:      fmt.Sprintf("Customer %d", n),
				Phone:     fmt.Sprintf("555-%04d", n),
				Address:   "1 Simulation Way",
				ZoneID:    "z1",
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
				log.Printf("checkout %d: %v", n, err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== SIMULATION RESULTS ==========")
	fmt.Printf("Attempted:     %d\n", *total)
	fmt.Printf("Placed:        %d\n", successCount.Load())
	fmt.Printf("Out of stock:  %d\n", outOfStock.Load())
	fmt.Printf("Failed:        %d\n", failCount.Load())
	fmt.Printf("Duration:      %v\n", elapsed)
	fmt.Println("=========================================")

	orders, err := svc.Orders.List(ctx)
	if err != nil {
		log.Fatalf("failed to list orders: %v", err)
	}
	if checkUniqueIDs(orders) && len(orders) == int(successCount.Load()) {
		fmt.Printf("PASS: %d orders stored with unique IDs\n", len(orders))
	} else {
		fmt.Printf("FAIL: %d orders stored, %d placed, IDs unique=%v\n",
			len(orders), successCount.Load(), checkUniqueIDs(orders))
	}

	levels, err := svc.Inventory.Levels(ctx)
	if err != nil {
		log.Fatalf("failed to read inventory: %v", err)
	}
	negative := 0
	for _, ing := range levels {
		fmt.Printf("  %-20s %8.2f %s\n", ing.Name, ing.Quantity, ing.Unit)
		if ing.Quantity < 0 {
			negative++
		}
	}
	if negative == 0 {
		fmt.Println("PASS: no ingredient below zero")
	} else {
		fmt.Printf("FAIL: %d ingredients below zero\n", negative)
	}
}

func checkUniqueIDs(orders []domain.Order) bool {
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if seen[o.ID] {
			return false
		}
		seen[o.ID] = true
	}
	return true
}
