package sources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// InstagramSource fetches media where the monitored business account has
// been tagged. The account id is resolved per request so a freshly linked
// account takes effect without a restart.
type InstagramSource struct {
	baseURL     string
	users       UserIDProvider
	accessToken string
	client      *resty.Client
}

// NewInstagramSource creates a new Instagram tagged-media source
func NewInstagramSource(baseURL string, users UserIDProvider, accessToken string, timeout time.Duration) *InstagramSource {
	return &InstagramSource{
		baseURL:     baseURL,
		users:       users,
		accessToken: accessToken,
		client:      resty.New().SetTimeout(timeout),
	}
}

func (i *InstagramSource) Network() string {
	return "instagram"
}

func (i *InstagramSource) Enabled() bool {
	return i.users.IGUserID() != "" && i.accessToken != ""
}

func (i *InstagramSource) Fetch(ctx context.Context, limit int) ([]models.RawRecord, error) {
	userID := i.users.IGUserID()
	if userID == "" || i.accessToken == "" {
		logrus.Debug("Instagram source disabled - missing user id or access token")
		return nil, nil
	}

	resp, err := i.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": i.accessToken,
			"fields":       "id,caption,username,timestamp,permalink",
			"limit":        strconv.Itoa(limit),
		}).
		Get(fmt.Sprintf("%s/%s/tags", i.baseURL, userID))

	if err != nil {
		return nil, classifyTransport("instagram", err)
	}

	return decodeGraphList("instagram", resp)
}
