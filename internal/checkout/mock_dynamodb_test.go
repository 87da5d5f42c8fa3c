package checkout

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo stores items per table: table -> pk -> item. It resolves the
// primary key from whichever known key attribute the item carries, which is
// enough for the products/customers/orders tables used here.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	// failSaves makes PutItem fail for the named table (commit-pass tests).
	failSaves map[string]error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables:    map[string]map[string]map[string]types.AttributeValue{},
		failSaves: map[string]error{},
	}
}

var keyAttrs = []string{"product_id", "email", "order_id"}

func pkOf(m map[string]types.AttributeValue) (string, error) {
	for _, attr := range keyAttrs {
		if v, ok := m[attr]; ok {
			if s, ok := v.(*types.AttributeValueMemberS); ok {
				return s.Value, nil
			}
		}
	}
	return "", errors.New("no known key attribute")
}

func (m *mockDynamo) ensure(table string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[table]
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	if err := m.failSaves[table]; err != nil {
		return nil, err
	}
	tbl := m.ensure(table)
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_id)" {
		if _, exists := tbl[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	tbl[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensure(*params.TableName)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := tbl[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensure(*params.TableName)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := tbl[pk]
	if !exists {
		return nil, errors.New("item not found")
	}
	// naive application of the SET expressions the stores issue
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
	tbl[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	return &dyn.QueryOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &dyn.ScanOutput{}
	for _, item := range m.ensure(*params.TableName) {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (m *mockDynamo) count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ensure(table))
}
