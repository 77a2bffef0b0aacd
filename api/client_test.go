package api

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Hosts{BaseURL: server.URL, CDNURL: "http://cdn.test"}, zerolog.Nop(), opts...)
	require.NoError(t, err)
	client.StaticLogin()
	t.Cleanup(client.Close)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name   string
		hosts  Hosts
		errMsg string
	}{
		{name: "valid", hosts: Hosts{BaseURL: "http://localhost:5500/", CDNURL: "http://localhost:5050"}},
		{name: "missing URL", hosts: Hosts{CDNURL: "http://localhost:5050"}, errMsg: "API URL is required"},
		{name: "missing CDN URL", hosts: Hosts{BaseURL: "http://localhost:5500"}, errMsg: "CDN URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.hosts, zerolog.Nop())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:5500", client.Hosts().BaseURL)
			assert.False(t, client.Connected())
		})
	}
}

func TestRequestRequiresLogin(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"id": "1"})
	}))
	defer server.Close()

	client, err := NewClient(Hosts{BaseURL: server.URL, CDNURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.FetchGuild(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotConnected)

	client.StaticLogin()
	assert.True(t, client.Connected())
	_, err = client.FetchGuild(context.Background(), 1)
	require.NoError(t, err)

	client.Close()
	assert.False(t, client.Connected())
	_, err = client.FetchGuild(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequestHeadersAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/arts/10/20", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "morkato (https://github.com/morkato/morkato-Bot 1.0)"))
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Thunder","breath":0}`, string(body))

		writeJSON(w, http.StatusOK, map[string]any{
			"id":          "20",
			"guild_id":    "10",
			"name":        "Thunder",
			"type":        "RESPIRATION",
			"description": nil,
			"banner":      nil,
			"updated_at":  1700000000000,
		})
	})

	art, err := client.UpdateArt(context.Background(), 10, 20, ArtUpdate{
		Name:   Some("Thunder"),
		Breath: Some(int64(0)),
	})
	require.NoError(t, err)
	assert.Equal(t, Snowflake(20), art.ID)
	assert.Equal(t, ArtRespiration, art.Type)
	assert.Nil(t, art.Description)
	require.NotNil(t, art.UpdatedAt)
	assert.Equal(t, int64(1700000000000), *art.UpdatedAt)
}

func TestRequestWithoutBodyHasNoContentType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, []map[string]any{})
	})

	arts, err := client.FetchArts(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestRequestTextResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "pong")
	})

	route, err := client.Route(http.MethodGet, "/ping", nil)
	require.NoError(t, err)

	var out string
	require.NoError(t, client.Request(context.Background(), route, nil, &out))
	assert.Equal(t, "pong", out)

	var payload GuildPayload
	err = client.Request(context.Background(), route, nil, &payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a JSON response")
}

func TestRequestEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.FetchGuild(context.Background(), 1)
	require.ErrorIs(t, err, ErrEmptyResponse)

	route, err := client.Route(http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	require.NoError(t, client.Request(context.Background(), route, nil, nil))

	out := "unchanged"
	require.NoError(t, client.Request(context.Background(), route, nil, &out))
	assert.Empty(t, out)
}

func TestErrorMapping(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"model": "USER", "extra": map[string]any{"id": "5"}})
		})

		_, err := client.FetchUser(context.Background(), 1, 5)
		var userErr *UserNotFoundError
		require.ErrorAs(t, err, &userErr)
		assert.Equal(t, map[string]any{"id": "5"}, userErr.Extra)
		assert.Equal(t, http.StatusNotFound, userErr.StatusCode)
		assert.NotNil(t, userErr.Response)

		var notFound *NotFoundError
		assert.False(t, errors.As(err, &notFound))
	})

	t.Run("art not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"model": "ART", "extra": map[string]any{}})
		})

		_, err := client.FetchArt(context.Background(), 1, 2)
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, ModelArt, notFound.Model)
		assert.True(t, notFound.IsNotFound())

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
	})

	t.Run("unknown model", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"model": "DRAGON", "extra": map[string]any{}})
		})

		_, err := client.FetchGuild(context.Background(), 1)
		require.ErrorIs(t, err, ErrUnknownModel)
		assert.Contains(t, err.Error(), "DRAGON")
	})

	t.Run("missing model", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		_, err := client.FetchGuild(context.Background(), 1)
		require.ErrorIs(t, err, ErrUnknownModel)
	})

	t.Run("server error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"extra": map[string]any{"reason": "maintenance"}})
		})

		_, err := client.FetchGuild(context.Background(), 1)
		var serverErr *ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.True(t, serverErr.IsServerError())
		assert.Equal(t, "maintenance", serverErr.Extra["reason"])
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("other status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Trace", "abc")
			writeJSON(w, http.StatusBadRequest, map[string]any{"extra": map[string]any{"field": "name"}})
		})

		_, err := client.CreateArt(context.Background(), 1, ArtCreate{Name: "", Type: ArtKekkijutsu})
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
		assert.Equal(t, "abc", httpErr.Header.Get("X-Trace"))
		assert.Equal(t, "name", httpErr.Extra["field"])

		var serverErr *ServerError
		assert.False(t, errors.As(err, &serverErr))
	})
}

func TestRegistryRoutes(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": "3", "guild_id": "1", "type": "ONI"})
	})

	_, err := client.RegistryUserAbility(context.Background(), 1, 3, 7)
	require.NoError(t, err)
	_, err = client.RegistryUserFamily(context.Background(), 1, 3, 9)
	require.NoError(t, err)

	assert.Equal(t, []string{"/users/1/3/abilities/7", "/users/1/3/families/9"}, paths)
}

func TestUploadImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cdn/upload", r.URL.Path)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Len(t, body, 8+4+3+4)
		assert.Equal(t, uint64(123456789012345), binary.BigEndian.Uint64(body[:8]))
		assert.Equal(t, uint32(3), binary.BigEndian.Uint32(body[8:12]))
		assert.Equal(t, "pic", string(body[12:15]))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body[15:])

		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UploadImage(context.Background(), []byte{0x89, 'P', 'N', 'G'}, 123456789012345, "pic")
	require.NoError(t, err)
}

func TestEncodeUpload(t *testing.T) {
	frame, err := EncodeUpload(1, "ç", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 2, 0xc3, 0xa7}, frame)
}

func TestResolveCDN(t *testing.T) {
	client, err := NewClient(Hosts{BaseURL: "http://api.test", CDNURL: "http://cdn.test/"}, zerolog.Nop())
	require.NoError(t, err)

	got, err := client.ResolveCDN("cdn://123456789012345/pic")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/123456789012345/pic", got)
}

func TestCustomUserAgent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "morkato-admin/2.0", r.Header.Get("User-Agent"))
		writeJSON(w, http.StatusOK, map[string]any{"id": "1"})
	}, WithUserAgent("morkato-admin/2.0"))

	_, err := client.FetchGuild(context.Background(), 1)
	require.NoError(t, err)
}

func TestUploadImageRejectsUnresolvableName(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})

	for _, name := range []string{"pic1", "my pic", "a:b"} {
		err := client.UploadImage(context.Background(), []byte{1}, 123456789012345, name)
		require.ErrorIs(t, err, ErrMalformedCDNReference, name)
	}
	assert.Equal(t, int32(0), calls.Load())
}
