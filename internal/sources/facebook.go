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

// FacebookSource fetches posts where the monitored page has been tagged.
type FacebookSource struct {
	baseURL     string
	pageID      string
	accessToken string
	client      *resty.Client
}

// NewFacebookSource creates a new Facebook tagged-posts source
func NewFacebookSource(baseURL, pageID, accessToken string, timeout time.Duration) *FacebookSource {
	return &FacebookSource{
		baseURL:     baseURL,
		pageID:      pageID,
		accessToken: accessToken,
		client:      resty.New().SetTimeout(timeout),
	}
}

func (f *FacebookSource) Network() string {
	return "facebook"
}

func (f *FacebookSource) Enabled() bool {
	return f.pageID != "" && f.accessToken != ""
}

func (f *FacebookSource) Fetch(ctx context.Context, limit int) ([]models.RawRecord, error) {
	if !f.Enabled() {
		logrus.Debug("Facebook source disabled - missing page id or access token")
		return nil, nil
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": f.accessToken,
			"fields":       "id,from,message,created_time,permalink_url",
			"limit":        strconv.Itoa(limit),
		}).
		Get(fmt.Sprintf("%s/%s/tagged", f.baseURL, f.pageID))

	if err != nil {
		return nil, classifyTransport("facebook", err)
	}

	return decodeGraphList("facebook", resp)
}
