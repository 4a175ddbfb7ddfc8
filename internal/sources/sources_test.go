package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacebookSource_Network(t *testing.T) {
	source := NewFacebookSource("https://graph.example", "page", "token", time.Second)
	assert.Equal(t, "facebook", source.Network())
}

func TestFacebookSource_Enabled(t *testing.T) {
	tests := []struct {
		name        string
		pageID      string
		accessToken string
		expected    bool
	}{
		{name: "Both configured", pageID: "page", accessToken: "token", expected: true},
		{name: "Missing page id", pageID: "", accessToken: "token", expected: false},
		{name: "Missing token", pageID: "page", accessToken: "", expected: false},
		{name: "Both missing", pageID: "", accessToken: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewFacebookSource("https://graph.example", tt.pageID, tt.accessToken, time.Second)
			assert.Equal(t, tt.expected, source.Enabled())
		})
	}
}

func TestFacebookSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page123/tagged", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("access_token"))
		assert.Equal(t, "id,from,message,created_time,permalink_url", r.URL.Query().Get("fields"))
		assert.Equal(t, "39", r.URL.Query().Get("limit"))

		fmt.Fprint(w, `{"data":[
			{"id":"1","message":"hola","from":{"name":"Ana","id":"9"}},
			{"id":"2","created_time":"2025-01-01T00:00:00+0000"}
		]}`)
	}))
	defer server.Close()

	source := NewFacebookSource(server.URL, "page123", "secret", time.Second)
	records, err := source.Fetch(context.Background(), 39)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].String("id"))
	assert.Equal(t, "hola", records[0].String("message"))
	assert.Equal(t, "Ana", records[0].Object("from").String("name"))
	assert.Equal(t, "2025-01-01T00:00:00+0000", records[1].String("created_time"))
}

func TestFacebookSource_Fetch_Unconfigured(t *testing.T) {
	source := NewFacebookSource("https://graph.example", "", "", time.Second)

	records, err := source.Fetch(context.Background(), 39)

	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetch_FeatureUnavailableIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"(#10) Tagged media is not available","type":"OAuthException","code":10}}`)
	}))
	defer server.Close()

	source := NewInstagramSource(server.URL, StaticUserID("ig42"), "secret", time.Second)
	records, err := source.Fetch(context.Background(), 39)

	assert.NoError(t, err, "feature-unavailable is not a fetch failure")
	assert.Empty(t, records)
}

func TestFetch_GraphErrorIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`)
	}))
	defer server.Close()

	source := NewFacebookSource(server.URL, "page", "expired", time.Second)
	records, err := source.Fetch(context.Background(), 39)

	assert.Nil(t, records)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindUpstream, fetchErr.Kind)
	assert.Equal(t, "facebook", fetchErr.Network)
	assert.Contains(t, fetchErr.Error(), "Invalid OAuth access token")
	assert.Contains(t, fetchErr.Error(), "code 190")
}

func TestFetch_MalformedBodyIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	source := NewFacebookSource(server.URL, "page", "token", time.Second)
	_, err := source.Fetch(context.Background(), 39)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindUpstream, fetchErr.Kind)
}

func TestFetch_ErrorStatusWithoutBodyIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewFacebookSource(server.URL, "page", "token", time.Second)
	_, err := source.Fetch(context.Background(), 39)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindUpstream, fetchErr.Kind)
	assert.Contains(t, fetchErr.Error(), "status 502")
}

func TestFetch_TimeoutKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()

	source := NewFacebookSource(server.URL, "page", "token", 50*time.Millisecond)
	_, err := source.Fetch(context.Background(), 39)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindTimeout, fetchErr.Kind)
	assert.True(t, fetchErr.IsTimeout())
}

func TestFetch_ContextDeadlineIsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	source := NewFacebookSource(server.URL, "page", "token", time.Second)
	_, err := source.Fetch(ctx, 39)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindTimeout, fetchErr.Kind)
}

func TestInstagramSource_Network(t *testing.T) {
	source := NewInstagramSource("https://graph.example", StaticUserID("ig"), "token", time.Second)
	assert.Equal(t, "instagram", source.Network())
}

func TestInstagramSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ig42/tags", r.URL.Path)
		assert.Equal(t, "id,caption,username,timestamp,permalink", r.URL.Query().Get("fields"))
		fmt.Fprint(w, `{"data":[{"id":"m1","caption":"hola","username":"cliente"}]}`)
	}))
	defer server.Close()

	source := NewInstagramSource(server.URL, StaticUserID("ig42"), "secret", time.Second)
	records, err := source.Fetch(context.Background(), 39)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cliente", records[0].String("username"))
}

func TestInstagramSource_Fetch_NoUserID(t *testing.T) {
	source := NewInstagramSource("https://graph.example", StaticUserID(""), "token", time.Second)

	records, err := source.Fetch(context.Background(), 39)

	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, source.Enabled())
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &FetchError{Network: "facebook", Kind: KindUpstream, Err: cause}
	assert.ErrorIs(t, err, cause)
}
