package accounts

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brandpulse/mentions-dashboard/internal/config"
	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const oauthDialogURL = "https://www.facebook.com/v21.0/dialog/oauth"

var oauthScopes = []string{
	"instagram_basic",
	"pages_show_list",
	"pages_read_engagement",
	"pages_read_user_content",
}

// Service implements the Meta OAuth flow that links an Instagram business
// account to the dashboard. The mention pipeline only ever sees the
// resolved account id through the store.
type Service struct {
	config *config.Config
	store  *Store
	client *resty.Client
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type pagesResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type pageDetail struct {
	Name                      string `json:"name"`
	ConnectedInstagramAccount *struct {
		ID string `json:"id"`
	} `json:"connected_instagram_account"`
}

// NewService creates a new account linking service
func NewService(cfg *config.Config, store *Store) *Service {
	return &Service{
		config: cfg,
		store:  store,
		client: resty.New().SetTimeout(15 * time.Second),
	}
}

// Connect handles GET /instagram/connect, redirecting to the Meta OAuth
// dialog.
func (s *Service) Connect(w http.ResponseWriter, r *http.Request) {
	if s.config.MetaAppID == "" {
		http.Error(w, "META_APP_ID is not configured", http.StatusInternalServerError)
		return
	}

	state := randomState()
	s.store.setState(state)

	params := url.Values{}
	params.Set("client_id", s.config.MetaAppID)
	params.Set("redirect_uri", s.config.OAuthRedirectURL)
	params.Set("scope", strings.Join(oauthScopes, ","))
	params.Set("response_type", "code")
	params.Set("state", state)

	http.Redirect(w, r, oauthDialogURL+"?"+params.Encode(), http.StatusFound)
}

// Callback handles GET /instagram/callback: exchanges the code for a user
// token, finds the first managed page with a connected Instagram account,
// stores that account's profile, and returns to the dashboard.
func (s *Service) Callback(w http.ResponseWriter, r *http.Request) {
	if oauthErr := r.URL.Query().Get("error"); oauthErr != "" {
		http.Error(w, fmt.Sprintf("OAuth error: %s", oauthErr), http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing 'code' parameter in OAuth response", http.StatusBadRequest)
		return
	}

	if !s.store.consumeState(r.URL.Query().Get("state")) {
		http.Error(w, "OAuth state mismatch", http.StatusBadRequest)
		return
	}

	if s.config.MetaAppID == "" || s.config.MetaAppSecret == "" {
		http.Error(w, "META_APP_ID or META_APP_SECRET is not configured", http.StatusInternalServerError)
		return
	}

	userToken, err := s.exchangeCode(code)
	if err != nil {
		logrus.Errorf("OAuth code exchange failed: %v", err)
		http.Error(w, fmt.Sprintf("failed to obtain access token: %v", err), http.StatusInternalServerError)
		return
	}

	igID, err := s.findConnectedAccount(userToken)
	if err != nil {
		logrus.Errorf("Instagram account lookup failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := s.fetchProfile(igID, userToken)
	if err != nil {
		logrus.Errorf("Instagram profile fetch failed: %v", err)
		http.Error(w, fmt.Sprintf("failed to fetch Instagram profile: %v", err), http.StatusInternalServerError)
		return
	}

	s.store.SetProfile(*profile)
	logrus.Infof("Linked Instagram account @%s (%s)", profile.Username, profile.ID)

	http.Redirect(w, r, "/", http.StatusFound)
}

// Disconnect handles GET /instagram/disconnect.
func (s *Service) Disconnect(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	logrus.Info("Unlinked Instagram account")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Service) exchangeCode(code string) (string, error) {
	resp, err := s.client.R().
		SetQueryParams(map[string]string{
			"client_id":     s.config.MetaAppID,
			"redirect_uri":  s.config.OAuthRedirectURL,
			"client_secret": s.config.MetaAppSecret,
			"code":          code,
		}).
		Get(s.config.GraphAPIBase + "/oauth/access_token")

	if err != nil {
		return "", err
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return "", fmt.Errorf("unexpected token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access_token: %s", string(resp.Body()))
	}

	return token.AccessToken, nil
}

func (s *Service) findConnectedAccount(userToken string) (string, error) {
	resp, err := s.client.R().
		SetQueryParam("access_token", userToken).
		Get(s.config.GraphAPIBase + "/me/accounts")

	if err != nil {
		return "", fmt.Errorf("failed to list managed pages: %w", err)
	}

	var pages pagesResponse
	if err := json.Unmarshal(resp.Body(), &pages); err != nil {
		return "", fmt.Errorf("failed to parse managed pages: %w", err)
	}

	for _, page := range pages.Data {
		if page.ID == "" {
			continue
		}

		detailResp, err := s.client.R().
			SetQueryParams(map[string]string{
				"access_token": userToken,
				"fields":       "name,connected_instagram_account",
			}).
			Get(fmt.Sprintf("%s/%s", s.config.GraphAPIBase, page.ID))
		if err != nil {
			logrus.Debugf("Skipping page %s: %v", page.ID, err)
			continue
		}

		var detail pageDetail
		if err := json.Unmarshal(detailResp.Body(), &detail); err != nil {
			continue
		}

		if detail.ConnectedInstagramAccount != nil && detail.ConnectedInstagramAccount.ID != "" {
			return detail.ConnectedInstagramAccount.ID, nil
		}
	}

	return "", fmt.Errorf("no managed page has a connected Instagram professional account")
}

func (s *Service) fetchProfile(igID, userToken string) (*models.IGProfile, error) {
	resp, err := s.client.R().
		SetQueryParams(map[string]string{
			"access_token": userToken,
			"fields":       "id,username,biography,profile_picture_url",
		}).
		Get(fmt.Sprintf("%s/%s", s.config.GraphAPIBase, igID))

	if err != nil {
		return nil, err
	}

	var profile models.IGProfile
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse Instagram profile: %w", err)
	}

	return &profile, nil
}

func randomState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "fallback-state"
	}
	return hex.EncodeToString(buf)
}
