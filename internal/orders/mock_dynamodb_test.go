package orders

import (
	"context"
	"errors"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the DynamoDB client, keyed by
// order_id. It understands just the expressions the Store issues.
// NOTE: intentionally minimal, not production-grade.
type mockDynamo struct {
	mu          sync.Mutex
	items       map[string]map[string]types.AttributeValue
	putCalls    int
	getCalls    int
	updateCalls int
	queryCalls  int

	// failNext, when set, makes the next call return this error once.
	failNext error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func strAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	keyAttr := params.Item["order_id"]
	if keyAttr == nil {
		return nil, errors.New("missing order_id in put item")
	}
	k := strAttr(keyAttr)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_id)" {
		if _, exists := m.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	k := strAttr(params.Key["order_id"])
	item, ok := m.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	k := strAttr(params.Key["order_id"])
	item, exists := m.items[k]
	if !exists {
		if params.ConditionExpression != nil {
			return nil, &types.ConditionalCheckFailedException{}
		}
		return nil, errors.New("item not found")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		expected := strAttr(params.ExpressionAttributeValues[":expected"])
		if strAttr(item["status"]) != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	// naive application of the SET expressions the Store issues
	if v, ok := params.ExpressionAttributeValues[":new"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":on"]; ok {
		item["automation_started"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":a"]; ok {
		item["analysis"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	m.items[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	var attr, want string
	switch {
	case strings.Contains(*params.KeyConditionExpression, "order_number"):
		attr, want = "order_number", strAttr(params.ExpressionAttributeValues[":n"])
	case strings.Contains(*params.KeyConditionExpression, "customer_email"):
		attr, want = "customer_email", strAttr(params.ExpressionAttributeValues[":e"])
	default:
		return nil, errors.New("unsupported key condition")
	}
	out := &dyn.QueryOutput{}
	for _, item := range m.items {
		if strAttr(item[attr]) == want {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &dyn.ScanOutput{}
	for _, item := range m.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}
