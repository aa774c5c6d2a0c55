package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/people-registry-api/internal/domain"
)

// LockoutRepo tracks failed-login state per person in its own table so that
// hot login paths never touch the person item.
type LockoutRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLockoutRepo(client *dynamodb.Client, tableName string) *LockoutRepo {
	return &LockoutRepo{client: client, tableName: tableName}
}

func (r *LockoutRepo) Put(ctx context.Context, l *domain.AccountLockout) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal lockout: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Get returns the lockout row for a person, or ErrNotFound when the person
// has no recorded failures.
func (r *LockoutRepo) Get(ctx context.Context, personID string) (*domain.AccountLockout, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("person_id", personID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("lockout not found: %w", domain.ErrNotFound)
	}
	var l domain.AccountLockout
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Clear removes the lockout row after a successful login or expired lock.
func (r *LockoutRepo) Clear(ctx context.Context, personID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("person_id", personID),
	})
	return err
}
