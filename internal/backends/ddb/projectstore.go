package ddb

import (
	"context"
	"time"

	"supadmin/internal/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProjectStore keeps one item per project: PK=PROJECT#<id>, SK=CREDENTIALS.
type ProjectStore struct {
	table string
	cli   *dynamodb.Client
}

type projectItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	types.AdminConfig
	UpdatedAt int64 `dynamodbav:"updated_at"`
}

// NewProjectStore creates the table if it doesn't exist and waits until it is usable.
func NewProjectStore(ctx context.Context, table string, cli *dynamodb.Client) (*ProjectStore, error) {
	if err := createTableIfNotExists(ctx, cli, table); err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "prepare table %s", table)
	}
	return &ProjectStore{table: table, cli: cli}, nil
}

func (s *ProjectStore) key(id string) map[string]ddbTypes.AttributeValue {
	return map[string]ddbTypes.AttributeValue{
		"PK": &ddbTypes.AttributeValueMemberS{Value: pkProject(id)},
		"SK": &ddbTypes.AttributeValueMemberS{Value: skCredentials()},
	}
}

func (s *ProjectStore) GetProjectConfig(ctx context.Context, id string) (types.AdminConfig, error) {
	out, err := s.cli.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.table,
		Key:            s.key(id),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return types.AdminConfig{}, types.Err(types.ErrDataStoreAccess, err, "get project %s", id)
	}
	if out.Item == nil {
		return types.AdminConfig{}, types.ErrNotFound
	}
	var item projectItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return types.AdminConfig{}, types.Err(types.ErrDataStoreAccess, err, "decode project %s", id)
	}
	return item.AdminConfig, nil
}

// ListProjects scans for credential items. Each project lives in its own partition, so there is no single key to query.
func (s *ProjectStore) ListProjects(ctx context.Context) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:        &s.table,
		FilterExpression: awsString("begins_with(PK, :pk) AND SK = :sk"),
		ExpressionAttributeValues: map[string]ddbTypes.AttributeValue{
			":pk": &ddbTypes.AttributeValueMemberS{Value: pkProjectPrefix()},
			":sk": &ddbTypes.AttributeValueMemberS{Value: skCredentials()},
		},
		ProjectionExpression: awsString("PK"),
	}
	ids := make([]string, 0)
	paginator := dynamodb.NewScanPaginator(s.cli, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, types.Err(types.ErrDataStoreAccess, err, "list projects")
		}
		for _, item := range page.Items {
			var pk struct {
				PK string `dynamodbav:"PK"`
			}
			if err := attributevalue.UnmarshalMap(item, &pk); err != nil {
				return nil, types.Err(types.ErrDataStoreAccess, err, "decode project key")
			}
			id, err := parseProjectID(pk.PK)
			if err != nil {
				return nil, types.Err(types.ErrDataStoreAccess, err, "list projects")
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *ProjectStore) PutProjectConfig(ctx context.Context, projectID string, config types.AdminConfig) error {
	config.ProjectID = projectID
	if err := config.ValidateStored(); err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(projectItem{
		PK:          pkProject(projectID),
		SK:          skCredentials(),
		AdminConfig: config.Normalized(),
		UpdatedAt:   time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = s.cli.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "put project %s", projectID)
	}
	return nil
}

func (s *ProjectStore) DeleteProjectConfig(ctx context.Context, projectID string) error {
	_, err := s.cli.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.table,
		Key:       s.key(projectID),
	})
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "delete project %s", projectID)
	}
	return nil
}

func (s *ProjectStore) ClearAll(ctx context.Context) error {
	_, err := s.cli.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: &s.table,
	})
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "delete table %s", s.table)
	}
	// wait until the table is deleted
	err = dynamodb.NewTableNotExistsWaiter(s.cli).Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, 30*time.Second)
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "delete table %s", s.table)
	}
	if err := createTableIfNotExists(ctx, s.cli, s.table); err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "recreate table %s", s.table)
	}
	return nil
}
