package dynamostore_test

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/dynamostore"
)

// fakeDynamo is an in-memory table that evaluates the handful of condition
// expressions the store issues.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	err      error
}

func newFakeDynamo(pageSize int) *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}, pageSize: pageSize}
}

var _ dynamostore.API = (*fakeDynamo)(nil)

func str(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

func itemKey(item map[string]types.AttributeValue) string {
	return str(item["PK"]) + "|" + str(item["SK"])
}

func check(existing map[string]types.AttributeValue, cond *string, values map[string]types.AttributeValue) bool {
	switch aws.ToString(cond) {
	case "":
		return true
	case dynamostore.CondAbsent:
		return existing == nil
	case dynamostore.CondVersion:
		return existing != nil && str(existing["version"]) == str(values[":version"])
	case dynamostore.CondOwner:
		return existing != nil && str(existing["userId"]) == str(values[":id"])
	}
	panic(fmt.Sprintf("fakeDynamo: unsupported condition %q", aws.ToString(cond)))
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	key := itemKey(in.Item)
	if !check(f.items[key], in.ConditionExpression, in.ExpressionAttributeValues) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, ti := range in.TransactItems {
		var ok bool
		switch {
		case ti.Put != nil:
			ok = check(f.items[itemKey(ti.Put.Item)], ti.Put.ConditionExpression, ti.Put.ExpressionAttributeValues)
		case ti.Delete != nil:
			ok = check(f.items[itemKey(ti.Delete.Key)], ti.Delete.ConditionExpression, ti.Delete.ExpressionAttributeValues)
		default:
			panic("fakeDynamo: unsupported transact item")
		}
		reasons[i].Code = aws.String("None")
		if !ok {
			reasons[i].Code = aws.String("ConditionalCheckFailed")
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}

	for _, ti := range in.TransactItems {
		if ti.Put != nil {
			f.items[itemKey(ti.Put.Item)] = ti.Put.Item
		} else {
			delete(f.items, itemKey(ti.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if aws.ToString(in.FilterExpression) != dynamostore.FilterUsers {
		panic("fakeDynamo: unsupported filter")
	}

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	if in.ExclusiveStartKey != nil {
		after := itemKey(in.ExclusiveStartKey)
		i, _ := slices.BinarySearch(keys, after)
		for i < len(keys) && keys[i] <= after {
			i++
		}
		keys = keys[i:]
	}

	out := &dynamodb.ScanOutput{}
	for i, k := range keys {
		if f.pageSize > 0 && i == f.pageSize {
			last := f.items[keys[i-1]]
			out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": last["PK"], "SK": last["SK"]}
			break
		}
		item := f.items[k]
		if str(item["type"]) == str(in.ExpressionAttributeValues[":type"]) {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *fakeDynamo) snapshot() map[string]map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]map[string]types.AttributeValue, len(f.items))
	for k, v := range f.items {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}
