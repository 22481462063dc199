package flow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"supadmin/internal/admin"
	"supadmin/internal/types"
)

func (s *UnitTestSuite) TestQueryAgainstRestEndpoint() {
	var gotPath, gotAPIKey, gotAuth string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"email":"a@example.com"},{"id":2,"email":"b@example.com"}]`))
	}))
	defer srv.Close()

	cli, err := admin.NewClient(types.AdminConfig{ServiceURL: srv.URL, ServiceRoleKey: "secret123"})
	s.Require().NoError(err)

	rows, err := Query(context.Background(), cli, QueryOptions{
		Table:   "profiles",
		Columns: []string{"id", "email"},
		Filters: map[string]string{"role": "admin"},
		Limit:   2,
	})
	s.Require().NoError(err)
	s.Len(rows, 2)
	s.Equal("/rest/v1/profiles", gotPath)
	s.Equal("secret123", gotAPIKey)
	s.Equal("Bearer secret123", gotAuth)
	s.Equal("id,email", gotQuery.Get("select"))
	s.Equal("eq.admin", gotQuery.Get("role"))
	s.Equal("2", gotQuery.Get("limit"))

	emails, err := Select("[*].email", rows)
	s.NoError(err)
	s.Equal([]any{"a@example.com", "b@example.com"}, emails)
}

func (s *UnitTestSuite) TestQueryValidation() {
	cli, err := admin.NewClient(types.AdminConfig{ServiceURL: "https://x.example", ServiceRoleKey: "secret123"})
	s.Require().NoError(err)

	_, err = Query(context.Background(), cli, QueryOptions{})
	s.ErrorIs(err, types.ErrConfiguration)

	_, err = Query(context.Background(), cli, QueryOptions{Table: "t", Limit: -1})
	s.ErrorIs(err, types.ErrConfiguration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Query(ctx, cli, QueryOptions{Table: "t"})
	s.ErrorIs(err, context.Canceled)
}
