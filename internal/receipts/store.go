package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/kithulovali/kfc-ordering/internal/aws"
	"github.com/kithulovali/kfc-ordering/internal/orders"
)

// Store encapsulates operations on the receipts table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new receipts Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches the receipt for an order. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Receipt, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r Receipt
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return &r, nil
}

// GetOrCreate returns the order's receipt, generating it on first view.
// Creation is idempotent: a conditional put on attribute_not_exists(order_id)
// loses gracefully to a concurrent creator, in which case the winner's
// receipt is returned.
func (s *Store) GetOrCreate(ctx context.Context, o *orders.Order, text string) (*Receipt, error) {
	if existing, err := s.Get(ctx, o.OrderID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	r := &Receipt{
		OrderID:       o.OrderID,
		OrderNumber:   o.OrderNumber,
		ReceiptNumber: NewReceiptNumber(),
		Text:          text,
		GeneratedAt:   s.nowFunc(),
	}
	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return nil, fmt.Errorf("marshal receipt: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		if isConditionalFailure(err) {
			// another viewer created it first; reuse theirs
			existing, getErr := s.Get(ctx, o.OrderID)
			if getErr != nil {
				return nil, getErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("put receipt: %w", err)
	}
	return r, nil
}

func isConditionalFailure(err error) bool {
	var cc *types.ConditionalCheckFailedException
	if errors.As(err, &cc) {
		return true
	}
	var api smithy.APIError
	return errors.As(err, &api) && api.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }
