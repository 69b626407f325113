package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/squintdb/squint/cache"
	"github.com/squintdb/squint/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() schema.Model {
	return schema.NewMemModel([]*schema.Table{
		{
			Name: "users",
			Columns: []schema.Column{
				{Name: "id", Type: schema.ColumnType{Base: schema.Integer}, PrimaryKey: true},
				{Name: "name", Type: schema.ColumnType{Base: schema.Text}},
				{Name: "email", Type: schema.ColumnType{Base: schema.Text, Nullable: true}},
			},
		},
	})
}

func testCore(t *testing.T, conf Config) *httptest.Server {
	t.Helper()
	if conf.Model == nil {
		conf.Model = testModel()
	}
	core, err := NewCore(conf)
	require.NoError(t, err)
	srv := httptest.NewServer(core.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := testCore(t, Config{})
	var got AnalyzeResponse
	resp := postJSON(t, srv.URL+"/query/analyze",
		map[string]string{"query": "SELECT id, email FROM users"}, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, ColumnInfo{
		Name:       "id",
		From:       "users",
		Type:       "INT",
		PrimaryKey: true,
	}, got.Columns[0])
	assert.True(t, got.Columns[1].Nullable)
	assert.Equal(t, []string{"users"}, got.References)
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	srv := testCore(t, Config{})

	var got struct {
		Errors []ErrorItem `json:"errors"`
	}
	resp := postJSON(t, srv.URL+"/query/analyze",
		map[string]string{"query": "SELECT id FROM users\nWHERE name + 1 > 0"}, &got)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, 2, got.Errors[0].Line)
	assert.Contains(t, got.Errors[0].Message, "conflicts")

	resp = postJSON(t, srv.URL+"/query/analyze", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/query/analyze", map[string]string{"query": "NOT SQL"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAnalyzeEndpointCaching(t *testing.T) {
	srv := testCore(t, Config{
		Cache: cache.Config{Kind: cache.KindLocal, LocalSize: 8},
	})
	const query = "SELECT name FROM users"
	var first, second AnalyzeResponse
	resp := postJSON(t, srv.URL+"/query/analyze", map[string]string{"query": query}, &first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/query/analyze", map[string]string{"query": query}, &second)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first, second)
}

func TestASTEndpoint(t *testing.T) {
	srv := testCore(t, Config{})
	var got map[string]interface{}
	resp := postJSON(t, srv.URL+"/query/ast",
		map[string]string{"query": "SELECT id FROM users"}, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, got, "ast")
}

func TestSchemaEndpoint(t *testing.T) {
	srv := testCore(t, Config{})
	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Tables []schemaTable `json:"tables"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Tables, 1)
	assert.Equal(t, "users", got.Tables[0].Name)
	assert.Len(t, got.Tables[0].Columns, 3)
}

func TestStatusAndVersion(t *testing.T) {
	srv := testCore(t, Config{Version: "1.2.3"})
	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "1.2.3", got["version"])
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	srv := testCore(t, Config{
		Auth: AuthConfig{Enabled: true, Secret: secret},
	})

	body := []byte(`{"query": "SELECT id FROM users"}`)
	resp, err := http.Post(srv.URL+"/query/analyze", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_1"}).
		SignedString([]byte(secret))
	require.NoError(t, err)
	req, err := http.NewRequest("POST", srv.URL+"/query/analyze", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A token signed with the wrong secret is rejected.
	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_1"}).
		SignedString([]byte("other"))
	require.NoError(t, err)
	req, err = http.NewRequest("POST", srv.URL+"/query/analyze", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bad)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	srv := testCore(t, Config{})
	resp := postJSON(t, srv.URL+"/query/analyze",
		map[string]string{"query": "SELECT id FROM users"}, nil)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}
