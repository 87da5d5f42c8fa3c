package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/kithulovali/kfc-ordering/internal/analysis"
	"github.com/kithulovali/kfc-ordering/internal/aws"
	"github.com/kithulovali/kfc-ordering/internal/orders"
)

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	ordersTable := os.Getenv("ORDERS_TABLE")
	if ordersTable == "" {
		ordersTable = "kfc-orders"
	}
	p := NewProcessor(orders.NewStore(clients.DynamoDB, ordersTable), analysis.LocalSummarizer{})

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"local-order-1","order_number":"LOCAL001"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
