package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fjod/go_storefront/internal/basket"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/internal/store"
	"github.com/fjod/go_storefront/internal/transport"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	APIBaseURL string
	RedisAddr  string
	RedisPass  string
	ClientID   string
	Token      string
	Timeout    time.Duration
}

func loadConfig() *Config {
	return &Config{
		APIBaseURL: getEnv("API_BASE_URL", "https://localhost:44302/api/"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:  getEnv("REDIS_PASSWORD", ""),
		ClientID:   getEnv("CLIENT_ID", "local"),
		Token:      getEnv("API_TOKEN", ""),
		Timeout:    30 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	action := flag.String("action", "show", "one of: show, products, add, increment, decrement, remove")
	productID := flag.Int64("product", 0, "product id for add/increment/decrement/remove")
	quantity := flag.Int("qty", 1, "quantity for add")
	flag.Parse()

	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}

	api := transport.NewClient(cfg.APIBaseURL,
		transport.WithTokenSource(transport.StaticTokenSource(cfg.Token)))

	basketStore := store.NewRedisStore(redisClient, cfg.ClientID)
	repo := repository.NewHTTPRepository(api)
	engine := basket.NewService(repo, basketStore)
	defer engine.Close()

	if err := engine.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize basket: %v", err)
	}

	switch *action {
	case "show":
		printBasket(engine)
	case "products":
		page, err := catalog.NewClient(api).Products(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		for _, p := range page.Data {
			fmt.Printf("%6d  %-40s %8.2f  %s\n", p.ID, p.Name, p.Price, p.Category)
		}
	case "add":
		page, err := catalog.NewClient(api).Products(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		added := false
		for _, p := range page.Data {
			if p.ID == *productID {
				if err := engine.AddItem(ctx, p, *quantity); err != nil {
					log.Fatalf("Failed to add item: %v", err)
				}
				added = true
				break
			}
		}
		if !added {
			log.Fatalf("Unknown product id %d", *productID)
		}
		printBasket(engine)
	case "increment":
		if err := engine.IncrementQuantity(ctx, *productID); err != nil {
			log.Fatalf("Failed to increment: %v", err)
		}
		printBasket(engine)
	case "decrement":
		if err := engine.DecrementQuantity(ctx, *productID); err != nil {
			log.Fatalf("Failed to decrement: %v", err)
		}
		printBasket(engine)
	case "remove":
		if err := engine.RemoveItem(ctx, *productID); err != nil {
			log.Fatalf("Failed to remove: %v", err)
		}
		printBasket(engine)
	default:
		log.Fatalf("Unknown action %q", *action)
	}
}

func printBasket(engine *basket.Service) {
	b := engine.Current()
	if b == nil {
		fmt.Println("basket is empty")
		return
	}
	fmt.Printf("basket %s\n", b.ID)
	for _, item := range b.Items {
		fmt.Printf("  %dx %-40s %8.2f\n", item.Quantity, item.ProductName, item.Price)
	}
	t := engine.CurrentTotals()
	fmt.Printf("subtotal %.2f  shipping %.2f  total %.2f\n", t.Subtotal, t.Shipping, t.Total)
}
