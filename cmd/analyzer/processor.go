package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/kithulovali/kfc-ordering/internal/analysis"
	"github.com/kithulovali/kfc-ordering/internal/orders"
)

// OrderPlacedMessage is the SQS payload published at checkout. It carries
// identifiers only; the processor re-fetches the order for current state.
type OrderPlacedMessage struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// orderStore is the slice of the orders store the processor needs.
type orderStore interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	SetAnalysis(ctx context.Context, orderID, text string) error
}

// Processor refreshes the stored analysis text for orders announced on the
// queue.
type Processor struct {
	store      orderStore
	summarizer analysis.Summarizer
}

// NewProcessor returns a Processor over the given store and summarizer.
func NewProcessor(store orderStore, summarizer analysis.Summarizer) *Processor {
	return &Processor{store: store, summarizer: summarizer}
}

// Handle processes a batch of SQS records. Returning an error lets the SQS
// runtime redrive the batch; unreadable messages and missing orders do so,
// while summarizer failures fall back to fixed text instead.
func (p *Processor) Handle(ctx context.Context, event events.SQSEvent) error {
	log.Printf("[analyzer] received %d SQS messages", len(event.Records))
	for _, r := range event.Records {
		var msg OrderPlacedMessage
		if err := json.Unmarshal([]byte(r.Body), &msg); err != nil {
			log.Printf("[analyzer] failed to unmarshal message body: %v, body: %s", err, r.Body)
			return err
		}
		if err := p.process(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) process(ctx context.Context, msg OrderPlacedMessage) error {
	o, err := p.store.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", msg.OrderID, err)
	}
	if o == nil {
		return fmt.Errorf("order %s not found", msg.OrderID)
	}

	text, err := p.summarizer.Summarize(ctx, analysis.SnapshotOf(o))
	if err != nil || text == "" {
		log.Printf("[analyzer] summarize failed for order %s, using fallback: %v", o.OrderNumber, err)
		text = analysis.FallbackText
	}
	if err := p.store.SetAnalysis(ctx, o.OrderID, text); err != nil {
		return fmt.Errorf("save analysis for order %s: %w", o.OrderID, err)
	}
	log.Printf("[analyzer] refreshed analysis for order %s", o.OrderNumber)
	return nil
}
