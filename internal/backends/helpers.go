package backends

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strconv"

	"supadmin/internal/backends/ddb"
	redisbackend "supadmin/internal/backends/redis"
	"supadmin/internal/ports"
	"supadmin/internal/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	ProjectBackendEnvKey = "PROJECT_BACKEND"
	BackendDDB           = "ddb"
	BackendRedis         = "redis"

	DDBEndpointKey  = "DDB_ENDPOINT"
	DDBTableKey     = "DDB_TABLE"
	DefaultDDBTable = "supadmin_projects"

	SNSEndpointKey = "SNS_ENDPOINT"

	RedisHost   = "REDIS_HOST"
	RedisPort   = "REDIS_PORT"
	RedisUser   = "REDIS_USER"
	RedisPass   = "REDIS_PASS"
	RedisTLS    = "REDIS_SSL"
	RedisCAFile = "REDIS_CA_FILE"
	RedisDBNum  = "REDIS_DB_NUM"
)

// ProjectBackendFromEnv constructs a ProjectStore based on environment variables.
// Supported backends are "ddb" (DynamoDB) and "redis" (Redis). It first checks PROJECT_BACKEND
// to determine which backend to use, then reads the backend's own variables.
// An empty PROJECT_BACKEND means "ddb"; an unrecognized value is an ErrInvalidBackend.
func ProjectBackendFromEnv(ctx context.Context) (ports.ProjectStore, error) {
	backend := os.Getenv(ProjectBackendEnvKey)
	switch backend {
	case BackendRedis:
		redisClient, err := redisClientFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", redisClient.Options().Addr).Debug("using redis project store")
		return redisbackend.NewProjectStore(redisClient), nil

	case BackendDDB, "":
		ddbClient, err := ddbClientFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		table := getenv(DDBTableKey, DefaultDDBTable)
		log.WithField("table", table).Debug("using dynamodb project store")
		store, err := ddb.NewProjectStore(ctx, table, ddbClient)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, types.Err(types.ErrInvalidBackend, nil, "%s=%q, expected %q or %q",
			ProjectBackendEnvKey, backend, BackendDDB, BackendRedis)
	}
}

// SNSClientFromEnv creates an SNS client. When SNS_ENDPOINT is set it points at a local mock with static credentials.
func SNSClientFromEnv(ctx context.Context) (*sns.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	endpoint := os.Getenv(SNSEndpointKey)
	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			localAWS(&o.BaseEndpoint, &o.Region, &o.Credentials, endpoint)
		}
	}), nil
}

// ddbClientFromEnv creates a DynamoDB client. DDB_ENDPOINT is only meant for local testing.
func ddbClientFromEnv(ctx context.Context) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	endpoint := os.Getenv(DDBEndpointKey)
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			localAWS(&o.BaseEndpoint, &o.Region, &o.Credentials, endpoint)
		}
	}), nil
}

func localAWS(baseEndpoint **string, region *string, creds *aws.CredentialsProvider, endpoint string) {
	*baseEndpoint = aws.String(endpoint)
	*region = getenv("AWS_REGION", "us-east-1")
	*creds = credentials.NewStaticCredentialsProvider(
		getenv("AWS_ACCESS_KEY_ID", "x"),
		getenv("AWS_SECRET_ACCESS_KEY", "x"),
		"",
	)
}

// redisClientFromEnv creates a Redis client from environment variables and pings it.
func redisClientFromEnv(ctx context.Context) (*redis.Client, error) {
	opts, err := redisOptionsFromEnv()
	if err != nil {
		return nil, err
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "ping redis at %s", opts.Addr)
	}
	return redisClient, nil
}

func redisOptionsFromEnv() (*redis.Options, error) {
	dbNum, err := strconv.Atoi(getenv(RedisDBNum, "0"))
	if err != nil {
		return nil, types.NewConfigurationError(RedisDBNum, "invalid Redis DB number: %v", err)
	}

	var tlsConfig *tls.Config
	if parseBoolean(getenv(RedisTLS, "false")) {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		if caFile := os.Getenv(RedisCAFile); caFile != "" {
			pem, err := os.ReadFile(caFile)
			if err != nil {
				return nil, types.NewConfigurationError(RedisCAFile, "read CA file: %v", err)
			}
			caCerts := x509.NewCertPool()
			if !caCerts.AppendCertsFromPEM(pem) {
				return nil, types.NewConfigurationError(RedisCAFile, "no certificates found in %s", caFile)
			}
			tlsConfig.RootCAs = caCerts
		}
	}

	return &redis.Options{
		Addr:      fmt.Sprintf("%s:%s", getenv(RedisHost, "localhost"), getenv(RedisPort, "6379")),
		Username:  os.Getenv(RedisUser),
		Password:  os.Getenv(RedisPass),
		DB:        dbNum,
		TLSConfig: tlsConfig,
	}, nil
}

// getenv retrieves the value of the environment variable named by the key.
func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func parseBoolean(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
