package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/people-registry-api/internal/domain"
)

// ResetRepo stores one-time password reset tokens. Rows expire via the
// table's TTL on expires_at, but consumed tokens are deleted eagerly.
type ResetRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewResetRepo(client *dynamodb.Client, tableName string) *ResetRepo {
	return &ResetRepo{client: client, tableName: tableName}
}

func (r *ResetRepo) Put(ctx context.Context, pr *domain.PasswordReset) error {
	item, err := attributevalue.MarshalMap(pr)
	if err != nil {
		return fmt.Errorf("marshal password reset: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ResetRepo) Get(ctx context.Context, token string) (*domain.PasswordReset, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token", token),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reset token not found: %w", domain.ErrNotFound)
	}
	var pr domain.PasswordReset
	if err := attributevalue.UnmarshalMap(out.Item, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *ResetRepo) Delete(ctx context.Context, token string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token", token),
	})
	return err
}
