// Package dynamostore provides a DynamoDB-backed user store.
//
// The table uses a single-table layout keyed by PK/SK. Every user is written
// as two items in one transaction: the profile item and an email marker whose
// key is the normalised address. Uniqueness of both id and email is enforced
// by condition expressions, so concurrent writers race inside DynamoDB rather
// than in this process.
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time check that Store implements ports.UserRepository.
var _ ports.UserRepository = (*Store)(nil)

// API is the subset of the DynamoDB client the store calls.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Condition expressions.
const (
	condAbsent  = "attribute_not_exists(PK)"
	condVersion = "version = :version"
	condOwner   = "userId = :id"
	filterUsers = "#type = :type"
)

const (
	typeUser  = "user"
	typeEmail = "email"

	skProfile = "PROFILE"
	skEmail   = "EMAIL"
)

// Config selects the table and, optionally, a local endpoint and static keys.
type Config struct {
	Table           string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Store is a DynamoDB user repository.
type Store struct {
	api   API
	table string
}

// New wraps an existing client.
func New(api API, table string) *Store {
	return &Store{api: api, table: table}
}

// Open builds a DynamoDB client from the default AWS credential chain.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Table == "" {
		return nil, errors.New("dynamodb: table is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(client, cfg.Table), nil
}

// Ping describes the table. It backs the store's health checker.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return wrap("describe table", err)
	}
	return nil
}

type userItem struct {
	PK            string  `dynamodbav:"PK"`
	SK            string  `dynamodbav:"SK"`
	Type          string  `dynamodbav:"type"`
	ID            string  `dynamodbav:"id"`
	Name          string  `dynamodbav:"name"`
	Email         string  `dynamodbav:"email"`
	EmailVerified bool    `dynamodbav:"emailVerified"`
	Image         *string `dynamodbav:"image,omitempty"`
	CreatedAt     int64   `dynamodbav:"createdAt"`
	UpdatedAt     int64   `dynamodbav:"updatedAt"`
	Version       int64   `dynamodbav:"version"`
}

type emailItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	Type   string `dynamodbav:"type"`
	UserID string `dynamodbav:"userId"`
}

func userKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "USER#" + id},
		"SK": &types.AttributeValueMemberS{Value: skProfile},
	}
}

func emailKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "EMAIL#" + email},
		"SK": &types.AttributeValueMemberS{Value: skEmail},
	}
}

func toItem(u *user.User, version int64) userItem {
	return userItem{
		PK:            "USER#" + u.ID,
		SK:            skProfile,
		Type:          typeUser,
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		CreatedAt:     u.CreatedAt.UTC().UnixMilli(),
		UpdatedAt:     u.UpdatedAt.UTC().UnixMilli(),
		Version:       version,
	}
}

func (it userItem) toUser() *user.User {
	return &user.User{
		ID:            it.ID,
		Name:          it.Name,
		Email:         it.Email,
		EmailVerified: it.EmailVerified,
		Image:         it.Image,
		CreatedAt:     time.UnixMilli(it.CreatedAt).UTC(),
		UpdatedAt:     time.UnixMilli(it.UpdatedAt).UTC(),
	}
}

func (s *Store) putUser(it userItem, cond string, values map[string]types.AttributeValue) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshaling user: %w", err)
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:                 aws.String(s.table),
		Item:                      av,
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeValues: values,
	}}, nil
}

func (s *Store) putEmail(email, id string) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(emailItem{
		PK:     "EMAIL#" + email,
		SK:     skEmail,
		Type:   typeEmail,
		UserID: id,
	})
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshaling email marker: %w", err)
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String(condAbsent),
	}}, nil
}

func (s *Store) deleteEmail(email, id string) types.TransactWriteItem {
	return types.TransactWriteItem{Delete: &types.Delete{
		TableName:           aws.String(s.table),
		Key:                 emailKey(email),
		ConditionExpression: aws.String(condOwner),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: id},
		},
	}}
}

func versionValue(v int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		":version": &types.AttributeValueMemberN{Value: fmt.Sprint(v)},
	}
}

// Create writes the profile and the email marker together.
func (s *Store) Create(ctx context.Context, u *user.User) error {
	profile, err := s.putUser(toItem(u, 1), condAbsent, nil)
	if err != nil {
		return err
	}
	marker, err := s.putEmail(u.Email, u.ID)
	if err != nil {
		return err
	}

	_, err = s.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{profile, marker},
	})
	if err != nil {
		return wrap("create user", err)
	}
	return nil
}

// Get returns the user with the given ID using a consistent read.
func (s *Store) Get(ctx context.Context, id string) (*user.User, error) {
	it, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return it.toUser(), nil
}

func (s *Store) get(ctx context.Context, id string) (*userItem, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            userKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, wrap("get user", err)
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}

	var it userItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshaling user: %w", err)
	}
	return &it, nil
}

// Update applies patch with an optimistic version check. An email change
// moves the marker in the same transaction.
func (s *Store) Update(ctx context.Context, id string, patch user.Patch) (*user.User, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	u := current.toUser()
	patch.Apply(u)
	next := toItem(u, current.Version+1)

	if u.Email == current.Email {
		av, err := attributevalue.MarshalMap(next)
		if err != nil {
			return nil, fmt.Errorf("marshaling user: %w", err)
		}
		_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                 aws.String(s.table),
			Item:                      av,
			ConditionExpression:       aws.String(condVersion),
			ExpressionAttributeValues: versionValue(current.Version),
		})
		if err != nil {
			return nil, s.conditionFailure(ctx, "update user", id, err)
		}
		return u, nil
	}

	profile, err := s.putUser(next, condVersion, versionValue(current.Version))
	if err != nil {
		return nil, err
	}
	marker, err := s.putEmail(u.Email, id)
	if err != nil {
		return nil, err
	}

	_, err = s.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{profile, s.deleteEmail(current.Email, id), marker},
	})
	if err != nil {
		return nil, s.conditionFailure(ctx, "update user", id, err)
	}
	return u, nil
}

// Delete removes the profile and releases its email.
func (s *Store) Delete(ctx context.Context, id string) error {
	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                 aws.String(s.table),
				Key:                       userKey(id),
				ConditionExpression:       aws.String(condVersion),
				ExpressionAttributeValues: versionValue(current.Version),
			}},
			s.deleteEmail(current.Email, id),
		},
	})
	if err != nil {
		return s.conditionFailure(ctx, "delete user", id, err)
	}
	return nil
}

// List scans every profile item and pages the sorted result in memory.
func (s *Store) List(ctx context.Context, filter user.Filter) (*user.Page, error) {
	filter = filter.Normalized()

	var (
		all   []user.User
		start map[string]types.AttributeValue
	)
	for {
		out, err := s.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(s.table),
			FilterExpression:         aws.String(filterUsers),
			ExpressionAttributeNames: map[string]string{"#type": "type"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":type": &types.AttributeValueMemberS{Value: typeUser},
			},
			ExclusiveStartKey: start,
			ConsistentRead:    aws.Bool(true),
		})
		if err != nil {
			return nil, wrap("scan users", err)
		}

		var items []userItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling users: %w", err)
		}
		for _, it := range items {
			all = append(all, *it.toUser())
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	slices.SortFunc(all, user.CompareCreated)

	page := &user.Page{Total: len(all), Limit: filter.Limit, Offset: filter.Offset, Users: []user.User{}}
	if filter.Offset < len(all) {
		end := min(filter.Offset+filter.Limit, len(all))
		page.Users = append(page.Users, all[filter.Offset:end]...)
	}
	return page, nil
}

// conditionFailure resolves a failed conditional write: the record vanished
// (not found) or something else won the race (conflict).
func (s *Store) conditionFailure(ctx context.Context, op, id string, err error) error {
	if !isConditionFailure(err) {
		return wrap(op, err)
	}
	if _, getErr := s.get(ctx, id); errors.Is(getErr, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s %s: %w", op, id, domain.ErrConflict)
}

func isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, r := range tce.CancellationReasons {
			if aws.ToString(r.Code) == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

// wrap maps SDK errors onto the domain sentinels.
func wrap(op string, err error) error {
	if isConditionFailure(err) {
		return fmt.Errorf("dynamodb %s: %w: %w", op, domain.ErrConflict, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException", "ProvisionedThroughputExceededException", "ThrottlingException":
			return fmt.Errorf("dynamodb %s (%s): %w: %w", op, apiErr.ErrorCode(), domain.ErrUnavailable, err)
		}
		return fmt.Errorf("dynamodb %s (%s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("dynamodb %s: %w", op, err)
}
