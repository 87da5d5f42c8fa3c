package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kithulovali/kfc-ordering/internal/aws"
)

// Store encapsulates operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new products Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches a product by product_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Save persists a product, overwriting any existing item. Stock never goes
// negative and a zero-stock product is forced unavailable.
func (s *Store) Save(ctx context.Context, p *Product) error {
	now := s.nowFunc()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.StockQuantity <= 0 {
		p.StockQuantity = 0
		p.IsAvailable = false
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// List scans available products, optionally filtered by a name/description
// substring and a category.
func (s *Store) List(ctx context.Context, query, category string) ([]Product, error) {
	filter := "is_available = :avail"
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":avail": &types.AttributeValueMemberBOOL{Value: true},
	}
	if query != "" {
		filter += " AND (contains(#nm, :q) OR contains(description, :q))"
		names["#nm"] = "name"
		values[":q"] = &types.AttributeValueMemberS{Value: query}
	}
	if category != "" {
		filter += " AND category = :cat"
		values[":cat"] = &types.AttributeValueMemberS{Value: category}
	}

	input := &dyn.ScanInput{
		TableName:                 &s.tableName,
		FilterExpression:          &filter,
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	products := make([]Product, 0, len(out.Items))
	for _, item := range out.Items {
		var p Product
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}
