package endpoint

import (
	"testing"

	"github.com/mckinley/go-api-rest-client/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		in   string
		want Environment
	}{
		{"alpha", EnvironmentAlpha},
		{"BETA", EnvironmentBeta},
		{"preprod", EnvironmentPreProd},
		{"prod", EnvironmentProd},
	}
	for _, tt := range tests {
		got, err := ParseEnvironment(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseEnvironment("staging")
	assert.Error(t, err)
}

func TestDefaultRegistry_Login(t *testing.T) {
	registry, err := NewRegistry(DefaultEnvironment, nil, DefaultDefinitions())
	require.NoError(t, err)

	login, err := registry.Lookup(Login)
	require.NoError(t, err)
	assert.Equal(t, "https://reqres.in/", login.URL)
	assert.Equal(t, "cloudflare-nginx", login.Headers["server"])
	assert.Equal(t, "*", login.Headers["access-control-allow-origin"])
	assert.Equal(t, "GET, POST, PUT", login.Headers["access-control-allow-methods"])
	assert.Equal(t, "Origin, X-Requested-With, Content-Type, Accept", login.Headers["access-control-allow-headers"])
	assert.Equal(t, []string{Login}, registry.Names())
}

func TestRegistry_RelativePaths(t *testing.T) {
	baseURLs := map[Environment]string{
		EnvironmentAlpha: "https://alpha.example.com/api/",
		EnvironmentProd:  "https://api.example.com",
	}
	defs := []Definition{
		{Name: "users", Path: "/v1/users"},
		{Name: Login, Path: "https://reqres.in/"},
	}

	alpha, err := NewRegistry(EnvironmentAlpha, baseURLs, defs)
	require.NoError(t, err)
	users, err := alpha.Lookup("users")
	require.NoError(t, err)
	assert.Equal(t, "https://alpha.example.com/api/v1/users", users.URL)

	prod, err := NewRegistry(EnvironmentProd, baseURLs, defs)
	require.NoError(t, err)
	users, err = prod.Lookup("users")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/users", users.URL)
	assert.Equal(t, EnvironmentProd, prod.Environment())

	_, err = NewRegistry(EnvironmentBeta, baseURLs, defs)
	assert.Error(t, err)
}

func TestRegistry_LookupUnknown(t *testing.T) {
	registry, err := NewRegistry(EnvironmentBeta, nil, DefaultDefinitions())
	require.NoError(t, err)

	_, err = registry.Lookup("contacts")
	assert.ErrorIs(t, err, apierror.ErrInvalidEndpoint)
}

func TestRegistry_HeadersAreCopies(t *testing.T) {
	registry, err := NewRegistry(EnvironmentBeta, nil, DefaultDefinitions())
	require.NoError(t, err)

	first, err := registry.Lookup(Login)
	require.NoError(t, err)
	first.Headers["server"] = "changed"

	second, err := registry.Lookup(Login)
	require.NoError(t, err)
	assert.Equal(t, "cloudflare-nginx", second.Headers["server"])
}

func TestNewRegistry_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		env  Environment
		defs []Definition
	}{
		{"unknown environment", Environment("qa"), DefaultDefinitions()},
		{"missing name", EnvironmentBeta, []Definition{{Path: "https://reqres.in/"}}},
		{"duplicate name", EnvironmentBeta, []Definition{{Name: "a", Path: "https://a.example.com"}, {Name: "a", Path: "https://b.example.com"}}},
		{"absolute without host", EnvironmentBeta, []Definition{{Name: "a", Path: "https:///nohost"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.env, nil, tt.defs)
			assert.Error(t, err)
		})
	}
}
