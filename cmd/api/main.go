package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kithulovali/kfc-ordering/internal/analysis"
	"github.com/kithulovali/kfc-ordering/internal/automation"
	"github.com/kithulovali/kfc-ordering/internal/aws"
	"github.com/kithulovali/kfc-ordering/internal/cart"
	"github.com/kithulovali/kfc-ordering/internal/catalog"
	"github.com/kithulovali/kfc-ordering/internal/checkout"
	"github.com/kithulovali/kfc-ordering/internal/customers"
	"github.com/kithulovali/kfc-ordering/internal/handlers"
	"github.com/kithulovali/kfc-ordering/internal/metrics"
	"github.com/kithulovali/kfc-ordering/internal/orders"
	"github.com/kithulovali/kfc-ordering/internal/receipts"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupRouter(cfg handlers.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	handlers.Register(r, cfg)
	return r
}

func main() {
	local := os.Getenv("RUN_LOCAL") == "true"
	if local {
		// local development only; in Lambda the environment is injected
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	productsStore := catalog.NewStore(clients.DynamoDB, envOr("PRODUCTS_TABLE", "kfc-products"))
	customersStore := customers.NewStore(clients.DynamoDB, envOr("CUSTOMERS_TABLE", "kfc-customers"))
	ordersStore := orders.NewStore(clients.DynamoDB, envOr("ORDERS_TABLE", "kfc-orders"))
	receiptsStore := receipts.NewStore(clients.DynamoDB, envOr("RECEIPTS_TABLE", "kfc-receipts"))

	cartTTL := 24 * time.Hour
	if v, err := strconv.Atoi(os.Getenv("CART_TTL_HOURS")); err == nil && v > 0 {
		cartTTL = time.Duration(v) * time.Hour
	}
	carts := cart.NewSessionStore(envOr("REDIS_ADDR", "localhost:6379"), cartTTL)

	emitter := metrics.NewEmitter(clients.CloudWatch, envOr("METRICS_NAMESPACE", "KFCOrdering"))
	engine := automation.NewEngine(ordersStore, automation.DelaysFromEnv(), emitter)

	var publisher checkout.EventPublisher
	if queueURL := os.Getenv("ORDERS_QUEUE_URL"); queueURL != "" {
		publisher = aws.NewPublisher(clients.SQS, queueURL)
	}

	coordinator := checkout.NewCoordinator(
		productsStore,
		customersStore,
		ordersStore,
		&analysis.LocalSummarizer{},
		engine,
		publisher,
		emitter,
	)

	r := setupRouter(handlers.Config{
		Products:    productsStore,
		Customers:   customersStore,
		Orders:      ordersStore,
		Receipts:    receiptsStore,
		Carts:       carts,
		Coordinator: coordinator,
		StaffKey:    os.Getenv("STAFF_KEY"),
	})

	if local {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
