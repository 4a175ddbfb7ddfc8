package accounts

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/brandpulse/mentions-dashboard/internal/config"
	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_IGUserID(t *testing.T) {
	store := NewStore("fallback-id")
	assert.Equal(t, "fallback-id", store.IGUserID())
	assert.Nil(t, store.Profile())

	store.SetProfile(models.IGProfile{ID: "linked-id", Username: "brand"})
	assert.Equal(t, "linked-id", store.IGUserID())
	require.NotNil(t, store.Profile())
	assert.Equal(t, "brand", store.Profile().Username)

	store.Clear()
	assert.Equal(t, "fallback-id", store.IGUserID())
	assert.Nil(t, store.Profile())
}

func newTestConfig(graphBase string) *config.Config {
	return &config.Config{
		GraphAPIBase:     graphBase,
		MetaAppID:        "app-id",
		MetaAppSecret:    "app-secret",
		OAuthRedirectURL: "http://localhost:8080/instagram/callback",
	}
}

func TestService_Connect_RedirectsToDialog(t *testing.T) {
	store := NewStore("")
	service := NewService(newTestConfig("https://graph.example"), store)

	req := httptest.NewRequest("GET", "/instagram/connect", nil)
	rec := httptest.NewRecorder()

	service.Connect(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "www.facebook.com", location.Host)
	assert.Equal(t, "app-id", location.Query().Get("client_id"))
	assert.Equal(t, "code", location.Query().Get("response_type"))
	assert.Contains(t, location.Query().Get("scope"), "instagram_basic")
	assert.NotEmpty(t, location.Query().Get("state"))
}

func TestService_Connect_RequiresAppID(t *testing.T) {
	cfg := newTestConfig("https://graph.example")
	cfg.MetaAppID = ""
	service := NewService(cfg, NewStore(""))

	rec := httptest.NewRecorder()
	service.Connect(rec, httptest.NewRequest("GET", "/instagram/connect", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestService_Callback_Validation(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		expectedCode int
	}{
		{name: "OAuth error parameter", target: "/instagram/callback?error=access_denied", expectedCode: http.StatusBadRequest},
		{name: "Missing code", target: "/instagram/callback", expectedCode: http.StatusBadRequest},
		{name: "Unknown state", target: "/instagram/callback?code=abc&state=bogus", expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(newTestConfig("https://graph.example"), NewStore(""))

			rec := httptest.NewRecorder()
			service.Callback(rec, httptest.NewRequest("GET", tt.target, nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestService_LinkFlow(t *testing.T) {
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/access_token":
			assert.Equal(t, "app-id", r.URL.Query().Get("client_id"))
			assert.Equal(t, "the-code", r.URL.Query().Get("code"))
			fmt.Fprint(w, `{"access_token":"user-token"}`)
		case "/me/accounts":
			assert.Equal(t, "user-token", r.URL.Query().Get("access_token"))
			fmt.Fprint(w, `{"data":[{"id":"page-1"},{"id":"page-2"}]}`)
		case "/page-1":
			fmt.Fprint(w, `{"name":"Page without IG"}`)
		case "/page-2":
			fmt.Fprint(w, `{"name":"Brand page","connected_instagram_account":{"id":"ig-77"}}`)
		case "/ig-77":
			fmt.Fprint(w, `{"id":"ig-77","username":"brand_ig","biography":"bio"}`)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer graph.Close()

	store := NewStore("env-fallback")
	service := NewService(newTestConfig(graph.URL), store)

	// Connect to obtain a valid state
	connectRec := httptest.NewRecorder()
	service.Connect(connectRec, httptest.NewRequest("GET", "/instagram/connect", nil))
	location, err := url.Parse(connectRec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	rec := httptest.NewRecorder()
	service.Callback(rec, httptest.NewRequest("GET",
		"/instagram/callback?code=the-code&state="+state, nil))

	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/", rec.Header().Get("Location"))

	assert.Equal(t, "ig-77", store.IGUserID())
	require.NotNil(t, store.Profile())
	assert.Equal(t, "brand_ig", store.Profile().Username)

	// Disconnect restores the configured fallback
	discRec := httptest.NewRecorder()
	service.Disconnect(discRec, httptest.NewRequest("GET", "/instagram/disconnect", nil))
	assert.Equal(t, http.StatusFound, discRec.Code)
	assert.Equal(t, "env-fallback", store.IGUserID())
}

func TestService_LinkFlow_NoConnectedAccount(t *testing.T) {
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/access_token":
			fmt.Fprint(w, `{"access_token":"user-token"}`)
		case "/me/accounts":
			fmt.Fprint(w, `{"data":[{"id":"page-1"}]}`)
		case "/page-1":
			fmt.Fprint(w, `{"name":"Page without IG"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer graph.Close()

	store := NewStore("")
	service := NewService(newTestConfig(graph.URL), store)

	connectRec := httptest.NewRecorder()
	service.Connect(connectRec, httptest.NewRequest("GET", "/instagram/connect", nil))
	location, _ := url.Parse(connectRec.Header().Get("Location"))
	state := location.Query().Get("state")

	rec := httptest.NewRecorder()
	service.Callback(rec, httptest.NewRequest("GET",
		"/instagram/callback?code=the-code&state="+state, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, store.Profile())
}
