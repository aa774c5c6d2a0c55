package dynamo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/people-registry-api/internal/domain"
)

// PersonRepo provides typed DynamoDB operations for the people table.
type PersonRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPersonRepo(client *dynamodb.Client, tableName string) *PersonRepo {
	return &PersonRepo{client: client, tableName: tableName}
}

// Put creates a person. The condition expression rejects overwrites of an
// existing id so a retried create cannot clobber a record.
func (r *PersonRepo) Put(ctx context.Context, p *domain.Person) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal person: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(person_id)"),
	})
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return fmt.Errorf("person already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *PersonRepo) Get(ctx context.Context, personID string) (*domain.Person, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("person_id", personID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("person not found: %w", domain.ErrNotFound)
	}
	var p domain.Person
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PersonRepo) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	return r.queryGSI(ctx, "email-index", "email", email)
}

func (r *PersonRepo) GetByRefreshToken(ctx context.Context, token string) (*domain.Person, error) {
	return r.queryGSI(ctx, "refresh_token-index", "refresh_token", token)
}

func (r *PersonRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.Person, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("person not found: %w", domain.ErrNotFound)
	}
	var p domain.Person
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial update keyed by logical API field names. The
// expression builder resolves storage names, reserved-word aliases and the
// updated_at timestamp; Names passes through as nil when unused so the call
// signature never sees an empty alias map.
func (r *PersonRepo) Update(ctx context.Context, personID string, updates map[string]any) error {
	ue := BuildUpdateExpr(updates, PersonFieldMapping)
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("person_id", personID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(person_id)"),
	})
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return fmt.Errorf("person not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *PersonRepo) HardDelete(ctx context.Context, personID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("person_id", personID),
	})
	return err
}

// ScanPage returns a page of people. cursor is a base64-encoded person_id
// used as ExclusiveStartKey. Returns the items, a next cursor (empty string
// when no more pages), and any error.
func (r *PersonRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Person, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		personID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("person_id", personID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var people []domain.Person
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &people); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["person_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return people, nextCursor, nil
}

// Count returns the number of items in the people table. Used by the public
// stats endpoint; DynamoDB evaluates COUNT server-side so no items transfer.
func (r *PersonRepo) Count(ctx context.Context) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return total, nil
}

func encodeCursor(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeCursor(cursor string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
