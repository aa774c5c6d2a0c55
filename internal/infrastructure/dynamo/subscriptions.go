package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/people-registry-api/internal/domain"
)

// SubscriptionRepo provides typed DynamoDB operations for the subscriptions table.
type SubscriptionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubscriptionRepo(client *dynamodb.Client, tableName string) *SubscriptionRepo {
	return &SubscriptionRepo{client: client, tableName: tableName}
}

func (r *SubscriptionRepo) Put(ctx context.Context, s *domain.Subscription) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SubscriptionRepo) Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("subscription_id", subscriptionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("subscription not found: %w", domain.ErrNotFound)
	}
	var s domain.Subscription
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepo) ListByPerson(ctx context.Context, personID string) ([]domain.Subscription, error) {
	return r.queryGSI(ctx, "person_id-index", "person_id", personID)
}

func (r *SubscriptionRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Subscription, error) {
	return r.queryGSI(ctx, "project_id-index", "project_id", projectID)
}

// FindActive returns the person's active subscription to the project, or
// ErrNotFound. Used for duplicate prevention before creating a new one.
func (r *SubscriptionRepo) FindActive(ctx context.Context, personID, projectID string) (*domain.Subscription, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("person_id-index"),
		KeyConditionExpression: aws.String("person_id = :pid"),
		FilterExpression:       aws.String("project_id = :prj AND is_active = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: personID},
			":prj": &types.AttributeValueMemberS{Value: projectID},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("subscription not found: %w", domain.ErrNotFound)
	}
	var s domain.Subscription
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CountActiveByProject counts active subscriptions for capacity checks.
func (r *SubscriptionRepo) CountActiveByProject(ctx context.Context, projectID string) (int, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("project_id-index"),
		KeyConditionExpression: aws.String("project_id = :prj"),
		FilterExpression:       aws.String("is_active = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prj": &types.AttributeValueMemberS{Value: projectID},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return 0, err
	}
	return int(out.Count), nil
}

// Update applies a partial update keyed by logical API field names.
func (r *SubscriptionRepo) Update(ctx context.Context, subscriptionID string, updates map[string]any) error {
	ue := BuildUpdateExpr(updates, SubscriptionFieldMapping)
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("subscription_id", subscriptionID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *SubscriptionRepo) HardDelete(ctx context.Context, subscriptionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("subscription_id", subscriptionID),
	})
	return err
}

// DeleteByPerson removes every subscription belonging to a person. Used by
// the admin person-deletion cascade; partial failures are logged and the
// first error is returned after the sweep completes.
func (r *SubscriptionRepo) DeleteByPerson(ctx context.Context, personID string) error {
	subs, err := r.ListByPerson(ctx, personID)
	if err != nil {
		return err
	}
	var firstErr error
	for _, s := range subs {
		if err := r.HardDelete(ctx, s.SubscriptionID); err != nil {
			slog.Warn("failed to delete subscription during person cascade", "subscription_id", s.SubscriptionID, "person_id", personID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *SubscriptionRepo) queryGSI(ctx context.Context, index, attr, value string) ([]domain.Subscription, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
	})
	if err != nil {
		return nil, err
	}
	var subs []domain.Subscription
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
