package repository

import (
	"context"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultSubscriptionsTableName = "subscriptions"
	subscriptionsProfileIDIndex   = "profile_id-index"
)

type subscriptionItem struct {
	ID        string `dynamodbav:"id"`
	ProfileID string `dynamodbav:"profile_id"`
	PaymentID string `dynamodbav:"payment_id"`
	Plan      string `dynamodbav:"plan"`
	StartsAt  string `dynamodbav:"starts_at"`
	ExpiresAt string `dynamodbav:"expires_at"`
	Active    bool   `dynamodbav:"active"`
	CreatedAt string `dynamodbav:"created_at"`
}

// SubscriptionDynamoRepository persists Subscription entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: profile_id-index (PK: profile_id)

type SubscriptionDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ISubscriptionRepository = (*SubscriptionDynamoRepository)(nil)

func NewSubscriptionDynamoRepository(ddb *dynamodb.Client, tableName string) *SubscriptionDynamoRepository {
	if tableName == "" {
		tableName = defaultSubscriptionsTableName
	}
	return &SubscriptionDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *SubscriptionDynamoRepository) Create(ctx context.Context, s entities.Subscription) (entities.Subscription, error) {
	av, err := attributevalue.MarshalMap(toSubscriptionItem(s))
	if err != nil {
		return entities.Subscription{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Subscription{}, err
	}
	return s, nil
}

func (r *SubscriptionDynamoRepository) GetByProfileID(ctx context.Context, profileID string) ([]entities.Subscription, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(subscriptionsProfileIDIndex),
		KeyConditionExpression: aws.String("profile_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: profileID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Subscription, 0, len(out.Items))
	for _, raw := range out.Items {
		var it subscriptionItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromSubscriptionItem(it))
	}
	return items, nil
}

func toSubscriptionItem(s entities.Subscription) subscriptionItem {
	return subscriptionItem{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		PaymentID: s.PaymentID,
		Plan:      string(s.Plan),
		StartsAt:  formatTime(s.StartsAt),
		ExpiresAt: formatTime(s.ExpiresAt),
		Active:    s.Active,
		CreatedAt: formatTime(s.CreatedAt),
	}
}

func fromSubscriptionItem(it subscriptionItem) entities.Subscription {
	return entities.Subscription{
		ID:        it.ID,
		ProfileID: it.ProfileID,
		PaymentID: it.PaymentID,
		Plan:      entities.SubscriptionPlan(it.Plan),
		StartsAt:  parseTime(it.StartsAt),
		ExpiresAt: parseTime(it.ExpiresAt),
		Active:    it.Active,
		CreatedAt: parseTime(it.CreatedAt),
	}
}
