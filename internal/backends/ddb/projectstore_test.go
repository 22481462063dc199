package ddb

import (
	"context"
	"os"
	"testing"

	"supadmin/internal/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/suite"
)

const TestTableName = "supadmin_projects_test"

// Requires a local AWS mock (moto/localstack) at TEST_DDB_ENDPOINT, e.g. http://localhost:4566.
type DDBStoreTestSuite struct {
	suite.Suite

	store *ProjectStore
}

func TestDDBStoreTestSuite(t *testing.T) {
	if os.Getenv("TEST_DDB_ENDPOINT") == "" {
		t.Skip("TEST_DDB_ENDPOINT not set")
	}
	suite.Run(t, new(DDBStoreTestSuite))
}

func (s *DDBStoreTestSuite) SetupSuite() {
	awsCfg, err := config.LoadDefaultConfig(context.Background())
	s.Require().NoError(err)
	cli := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(os.Getenv("TEST_DDB_ENDPOINT"))
		if o.Region == "" {
			o.Region = "us-east-1"
		}
		o.Credentials = credentials.NewStaticCredentialsProvider("test", "test", "")
	})
	s.store, err = NewProjectStore(context.Background(), TestTableName, cli)
	s.Require().NoError(err)
}

func (s *DDBStoreTestSuite) SetupTest() {
	s.NoError(s.store.ClearAll(context.Background()))
}

func (s *DDBStoreTestSuite) TestPutGetListDelete() {
	ctx := context.Background()
	for _, id := range []string{"acme", "globex"} {
		err := s.store.PutProjectConfig(ctx, id, types.AdminConfig{
			ServiceURL:     "https://" + id + ".example",
			ServiceRoleKey: "secret123",
			Schema:         "audit",
		})
		s.NoError(err)
	}

	cfg, err := s.store.GetProjectConfig(ctx, "globex")
	s.NoError(err)
	s.Equal("globex", cfg.ProjectID)
	s.Equal("https://globex.example", cfg.ServiceURL)
	s.Equal("audit", cfg.Schema)

	ids, err := s.store.ListProjects(ctx)
	s.NoError(err)
	s.ElementsMatch([]string{"acme", "globex"}, ids)

	s.NoError(s.store.DeleteProjectConfig(ctx, "acme"))
	_, err = s.store.GetProjectConfig(ctx, "acme")
	s.ErrorIs(err, types.ErrNotFound)
}
