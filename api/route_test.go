package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoute(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		params  Params
		wantURL string
		wantErr bool
	}{
		{
			name:    "int verbatim and string escaped",
			path:    "/x/{a}/{b}",
			params:  Params{"a": 1, "b": "s p"},
			wantURL: "http://localhost:5500/x/1/s%20p",
		},
		{
			name:    "snowflake verbatim",
			path:    "/guilds/{id}",
			params:  Params{"id": Snowflake(971803172056219728)},
			wantURL: "http://localhost:5500/guilds/971803172056219728",
		},
		{
			name:    "no params",
			path:    "/cdn/upload",
			wantURL: "http://localhost:5500/cdn/upload",
		},
		{
			name:    "string with slash",
			path:    "/arts/{name}",
			params:  Params{"name": "a/b"},
			wantURL: "http://localhost:5500/arts/a%2Fb",
		},
		{
			name:    "named string type escaped",
			path:    "/arts/{type}",
			params:  Params{"type": ArtType("FIGHTING STYLE")},
			wantURL: "http://localhost:5500/arts/FIGHTING%20STYLE",
		},
		{
			name:    "missing param",
			path:    "/users/{guild_id}/{id}",
			params:  Params{"guild_id": 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := NewRoute("http://localhost:5500/", "GET", tt.path, tt.params)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMissingRouteParam)
				assert.Contains(t, err.Error(), "id")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "GET", route.Method)
			assert.Equal(t, tt.path, route.Path)
			assert.Equal(t, tt.wantURL, route.URL)
		})
	}
}

func TestFromCDN(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "valid", ref: "cdn://123456789012345/pic", want: "http://localhost:5050/123456789012345/pic"},
		{name: "upper case scheme", ref: "CDN://123456789012345/Pic", want: "http://localhost:5050/123456789012345/Pic"},
		{name: "empty name", ref: "cdn://123456789012345/", want: "http://localhost:5050/123456789012345/"},
		{name: "id not numeric", ref: "cdn://abc/pic", wantErr: true},
		{name: "id too short", ref: "cdn://12345/pic", wantErr: true},
		{name: "id too long", ref: "cdn://1234567890123456789012345678901/pic", wantErr: true},
		{name: "digit in name", ref: "cdn://123456789012345/pic1", wantErr: true},
		{name: "space in name", ref: "cdn://123456789012345/my pic", wantErr: true},
		{name: "name too long", ref: "cdn://123456789012345/abcdefghijklmnopqrstuvwxyzabcdefg", wantErr: true},
		{name: "not cdn", ref: "https://example.com/pic.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromCDN("http://localhost:5050", tt.ref)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedCDNReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCDNReference(t *testing.T) {
	assert.True(t, IsCDNReference("cdn://1/x"))
	assert.True(t, IsCDNReference("CDN://1/x"))
	assert.False(t, IsCDNReference("https://x"))
}

func TestCDNReference(t *testing.T) {
	tests := []struct {
		name    string
		author  Snowflake
		file    string
		want    string
		wantErr bool
	}{
		{name: "valid", author: 123456789012345, file: "water", want: "cdn://123456789012345/water"},
		{name: "digit in name", author: 123456789012345, file: "pic1", wantErr: true},
		{name: "space in name", author: 123456789012345, file: "my pic", wantErr: true},
		{name: "colon in name", author: 123456789012345, file: "a:b", wantErr: true},
		{name: "name too long", author: 123456789012345, file: strings.Repeat("a", 33), wantErr: true},
		{name: "short author id", author: 42, file: "water", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := CDNReference(tt.author, tt.file)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedCDNReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)

			_, err = FromCDN("http://cdn.test", ref)
			assert.NoError(t, err)
		})
	}
}
