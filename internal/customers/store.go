package customers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kithulovali/kfc-ordering/internal/aws"
)

// Store encapsulates operations on the customers table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new customers Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// GetByEmail fetches a customer by email. Returns (nil, nil) if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Customer
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	return &c, nil
}

// Put persists a customer, overwriting any existing record for the email.
func (s *Store) Put(ctx context.Context, c *Customer) error {
	now := s.nowFunc()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
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

// Reconcile resolves the identity to a persisted customer record, creating it
// on first sight. For an existing record, phone is refreshed unconditionally,
// the name is upgraded from the authenticated identity only when the stored
// one is a placeholder, and the address is replaced only when the form
// supplied one.
func (s *Store) Reconcile(ctx context.Context, id Identity, phone, address string) (*Customer, error) {
	key := id.KeyEmail()
	cust, err := s.GetByEmail(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}

	if cust == nil {
		cust = &Customer{
			Email:   key,
			Name:    id.DisplayName(),
			Phone:   phone,
			Address: address,
		}
	} else {
		if phone != "" {
			cust.Phone = phone
		}
		if id.Authenticated && IsPlaceholderName(cust.Name) {
			cust.Name = id.DisplayName()
		}
		if address != "" {
			cust.Address = address
		}
	}

	if err := s.Put(ctx, cust); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return cust, nil
}
