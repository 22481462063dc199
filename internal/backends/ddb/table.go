package ddb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"
)

const (
	SProject = "PROJECT"
	SCreds   = "CREDENTIALS"

	tableActiveTimeout = 2 * time.Minute
)

func pkProject(id string) string { return fmt.Sprintf("%s#%s", SProject, id) }
func pkProjectPrefix() string    { return SProject + "#" }
func skCredentials() string      { return SCreds }
func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }

func parseProjectID(pk string) (string, error) {
	id, ok := strings.CutPrefix(pk, pkProjectPrefix())
	if !ok || id == "" {
		return "", fmt.Errorf("unexpected partition key %q", pk)
	}
	return id, nil
}

// createTableIfNotExists creates the table when missing and waits until it is ACTIVE.
// A table that already exists (or is being created) is not an error.
func createTableIfNotExists(ctx context.Context, client *dynamodb.Client, table string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &table,
		AttributeDefinitions: []ddbTypes.AttributeDefinition{
			{AttributeName: awsString("PK"), AttributeType: ddbTypes.ScalarAttributeTypeS},
			{AttributeName: awsString("SK"), AttributeType: ddbTypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbTypes.KeySchemaElement{
			{AttributeName: awsString("PK"), KeyType: ddbTypes.KeyTypeHash},
			{AttributeName: awsString("SK"), KeyType: ddbTypes.KeyTypeRange},
		},
		BillingMode: ddbTypes.BillingModePayPerRequest,
	})
	var re *ddbTypes.ResourceInUseException
	if err != nil && !errors.As(err, &re) {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	if err == nil {
		log.WithField("table", table).Info("dynamodb table created")
	}
	err = dynamodb.NewTableExistsWaiter(client).Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: &table,
	}, tableActiveTimeout)
	if err != nil {
		return fmt.Errorf("wait for table %s: %w", table, err)
	}
	return nil
}
