package backends

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"supadmin/internal/types"

	"github.com/stretchr/testify/suite"
)

type BackendsTestSuite struct {
	suite.Suite
}

func TestBackendsTestSuite(t *testing.T) {
	suite.Run(t, new(BackendsTestSuite))
}

func (s *BackendsTestSuite) TestUnknownBackend() {
	s.T().Setenv(ProjectBackendEnvKey, "postgres")
	store, err := ProjectBackendFromEnv(context.Background())
	s.Nil(store)
	s.ErrorIs(err, types.ErrInvalidBackend)
	s.Contains(err.Error(), "postgres")
}

func (s *BackendsTestSuite) TestDDBBackendUnreachable() {
	s.T().Setenv(ProjectBackendEnvKey, BackendDDB)
	s.T().Setenv(DDBEndpointKey, "http://127.0.0.1:1")
	s.T().Setenv("AWS_REGION", "us-east-1")
	s.T().Setenv("AWS_MAX_ATTEMPTS", "1")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := ProjectBackendFromEnv(ctx)
	s.Nil(store)
	s.ErrorIs(err, types.ErrDataStoreAccess)
}

func (s *BackendsTestSuite) TestRedisOptionsDefaults() {
	for _, k := range []string{RedisHost, RedisPort, RedisUser, RedisPass, RedisTLS, RedisDBNum} {
		s.T().Setenv(k, "")
	}
	opts, err := redisOptionsFromEnv()
	s.NoError(err)
	s.Equal("localhost:6379", opts.Addr)
	s.Equal(0, opts.DB)
	s.Nil(opts.TLSConfig)
}

func (s *BackendsTestSuite) TestRedisOptionsFromEnv() {
	s.T().Setenv(RedisHost, "cache.internal")
	s.T().Setenv(RedisPort, "6380")
	s.T().Setenv(RedisUser, "svc")
	s.T().Setenv(RedisPass, "pw")
	s.T().Setenv(RedisDBNum, "3")
	s.T().Setenv(RedisTLS, "true")
	s.T().Setenv(RedisCAFile, "")
	opts, err := redisOptionsFromEnv()
	s.NoError(err)
	s.Equal("cache.internal:6380", opts.Addr)
	s.Equal("svc", opts.Username)
	s.Equal("pw", opts.Password)
	s.Equal(3, opts.DB)
	s.Require().NotNil(opts.TLSConfig)
	s.Nil(opts.TLSConfig.RootCAs)
}

func (s *BackendsTestSuite) TestRedisOptionsBadDBNum() {
	s.T().Setenv(RedisDBNum, "zero")
	_, err := redisOptionsFromEnv()
	s.ErrorIs(err, types.ErrConfiguration)
}

func (s *BackendsTestSuite) TestRedisOptionsBadCAFile() {
	s.T().Setenv(RedisDBNum, "0")
	s.T().Setenv(RedisTLS, "1")

	s.T().Setenv(RedisCAFile, filepath.Join(s.T().TempDir(), "missing.pem"))
	_, err := redisOptionsFromEnv()
	s.ErrorIs(err, types.ErrConfiguration)

	empty := filepath.Join(s.T().TempDir(), "empty.pem")
	s.Require().NoError(os.WriteFile(empty, []byte("not a cert"), 0o600))
	s.T().Setenv(RedisCAFile, empty)
	_, err = redisOptionsFromEnv()
	s.ErrorIs(err, types.ErrConfiguration)
}

func (s *BackendsTestSuite) TestGetenvAndParseBoolean() {
	s.T().Setenv("SUPADMIN_TEST_VALUE", "")
	s.Equal("def", getenv("SUPADMIN_TEST_VALUE", "def"))
	s.T().Setenv("SUPADMIN_TEST_VALUE", "set")
	s.Equal("set", getenv("SUPADMIN_TEST_VALUE", "def"))

	s.True(parseBoolean("true"))
	s.True(parseBoolean("1"))
	s.False(parseBoolean("yes"))
	s.False(parseBoolean(""))
}
