package flow

import (
	"context"
	"supadmin/internal/types"
	"time"
)

func (s *UnitTestSuite) putProject(id string) {
	err := s.store.PutProjectConfig(context.Background(), id, types.AdminConfig{
		ServiceURL:     "https://" + id + ".example",
		ServiceRoleKey: "secret123",
	})
	s.Require().NoError(err)
}

func (s *UnitTestSuite) TestLoadCachedProjectConfig() {
	ctx := context.Background()
	s.putProject("acme")

	cfg, err := LoadCachedProjectConfig(ctx, s.store, "acme")
	s.NoError(err)
	s.Equal("https://acme.example", cfg.ServiceURL)
	s.Equal(1, s.store.gets)

	_, err = LoadCachedProjectConfig(ctx, s.store, "acme")
	s.NoError(err)
	s.Equal(1, s.store.gets)

	ForgetProject("acme")
	_, err = LoadCachedProjectConfig(ctx, s.store, "acme")
	s.NoError(err)
	s.Equal(2, s.store.gets)
}

func (s *UnitTestSuite) TestLoadCachedProjectConfigExpires() {
	now := time.Unix(1700000000, 0)
	SetTimeNowFn(func() time.Time { return now })
	ctx := context.Background()
	s.putProject("acme")

	_, err := LoadCachedProjectConfig(ctx, s.store, "acme")
	s.NoError(err)
	now = now.Add(ConfigCacheTTL + time.Second)
	_, err = LoadCachedProjectConfig(ctx, s.store, "acme")
	s.NoError(err)
	s.Equal(2, s.store.gets)
}

func (s *UnitTestSuite) TestLoadUnknownProject() {
	_, err := LoadCachedProjectConfig(context.Background(), s.store, "nope")
	s.ErrorIs(err, types.ErrNotFound)

	_, err = LoadCachedProjectConfig(context.Background(), s.store, "")
	s.ErrorIs(err, types.ErrConfiguration)
}

func (s *UnitTestSuite) TestOpenProjectReturnsFreshHandles() {
	ctx := context.Background()
	s.putProject("acme")

	a, err := OpenProject(ctx, s.store, "acme")
	s.Require().NoError(err)
	b, err := OpenProject(ctx, s.store, "acme")
	s.Require().NoError(err)
	s.NotSame(a, b)
	s.Equal("https://acme.example", a.URL())
	s.False(a.Options().PersistSession)
	s.False(a.Options().AutoRefreshToken)
}

func (s *UnitTestSuite) TestOpenProjectWithBrokenStoredConfig() {
	// Bypass store validation to simulate a record written by an older tool.
	s.store.projects["legacy"] = types.AdminConfig{ProjectID: "legacy", ServiceURL: "https://legacy.example"}
	cli, err := OpenProject(context.Background(), s.store, "legacy")
	s.Nil(cli)
	s.ErrorIs(err, types.ErrConfiguration)
}
