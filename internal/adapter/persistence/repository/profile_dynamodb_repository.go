package repository

import (
	"context"
	"errors"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultProfilesTableName = "profiles"

type medicalProfileItem struct {
	ID                    string `dynamodbav:"id"`
	Name                  string `dynamodbav:"name"`
	TaxID                 string `dynamodbav:"tax_id,omitempty"`
	Phone                 string `dynamodbav:"phone,omitempty"`
	BloodType             string `dynamodbav:"blood_type,omitempty"`
	EmergencyContactName  string `dynamodbav:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `dynamodbav:"emergency_contact_phone,omitempty"`
	MedicalNotes          string `dynamodbav:"medical_notes,omitempty"`
	Plan                  string `dynamodbav:"plan"`
	PaymentStatus         string `dynamodbav:"payment_status"`
	QRCodeURL             string `dynamodbav:"qr_code_url,omitempty"`
	Active                bool   `dynamodbav:"active"`
	ExpiresAt             string `dynamodbav:"expires_at,omitempty"`
	CreatedAt             string `dynamodbav:"created_at"`
	UpdatedAt             string `dynamodbav:"updated_at"`
}

// ProfileDynamoRepository persists MedicalProfile entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)

type ProfileDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IProfileRepository = (*ProfileDynamoRepository)(nil)

func NewProfileDynamoRepository(ddb *dynamodb.Client, tableName string) *ProfileDynamoRepository {
	if tableName == "" {
		tableName = defaultProfilesTableName
	}
	return &ProfileDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ProfileDynamoRepository) Create(ctx context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
	av, err := attributevalue.MarshalMap(toMedicalProfileItem(p))
	if err != nil {
		return entities.MedicalProfile{}, err
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
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return entities.MedicalProfile{}, interfaces.ErrProfileAlreadyExists
		}
		return entities.MedicalProfile{}, err
	}
	return p, nil
}

func (r *ProfileDynamoRepository) GetByID(ctx context.Context, id string) (entities.MedicalProfile, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.MedicalProfile{}, err
	}
	if len(out.Item) == 0 {
		return entities.MedicalProfile{}, nil
	}

	var it medicalProfileItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.MedicalProfile{}, err
	}
	return fromMedicalProfileItem(it), nil
}

func (r *ProfileDynamoRepository) Update(ctx context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
	av, err := attributevalue.MarshalMap(toMedicalProfileItem(p))
	if err != nil {
		return entities.MedicalProfile{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.MedicalProfile{}, err
	}
	return p, nil
}

func toMedicalProfileItem(p entities.MedicalProfile) medicalProfileItem {
	return medicalProfileItem{
		ID:                    p.ID,
		Name:                  p.Name,
		TaxID:                 p.TaxID,
		Phone:                 p.Phone,
		BloodType:             p.BloodType,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		MedicalNotes:          p.MedicalNotes,
		Plan:                  string(p.Plan),
		PaymentStatus:         p.PaymentStatus.String(),
		QRCodeURL:             p.QRCodeURL,
		Active:                p.Active,
		ExpiresAt:             formatTime(p.ExpiresAt),
		CreatedAt:             formatTime(p.CreatedAt),
		UpdatedAt:             formatTime(p.UpdatedAt),
	}
}

func fromMedicalProfileItem(it medicalProfileItem) entities.MedicalProfile {
	return entities.MedicalProfile{
		ID:                    it.ID,
		Name:                  it.Name,
		TaxID:                 it.TaxID,
		Phone:                 it.Phone,
		BloodType:             it.BloodType,
		EmergencyContactName:  it.EmergencyContactName,
		EmergencyContactPhone: it.EmergencyContactPhone,
		MedicalNotes:          it.MedicalNotes,
		Plan:                  entities.SubscriptionPlan(it.Plan),
		PaymentStatus:         entities.PaymentStatus(it.PaymentStatus),
		QRCodeURL:             it.QRCodeURL,
		Active:                it.Active,
		ExpiresAt:             parseTime(it.ExpiresAt),
		CreatedAt:             parseTime(it.CreatedAt),
		UpdatedAt:             parseTime(it.UpdatedAt),
	}
}
