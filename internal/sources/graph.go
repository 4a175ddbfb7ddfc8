package sources

import (
	"encoding/json"
	"fmt"

	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// graphCodeUnsupported is the Graph API error code reported when tagged
// media is not available for the account (e.g. no professional account).
// It means "nothing to fetch", not a failure.
const graphCodeUnsupported = 10

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

type graphListResponse struct {
	Data  []models.RawRecord `json:"data"`
	Error *graphError        `json:"error"`
}

// decodeGraphList turns a Graph API list response into raw records,
// swallowing the feature-unavailable error code and surfacing everything
// else as an upstream FetchError.
func decodeGraphList(network string, resp *resty.Response) ([]models.RawRecord, error) {
	var body graphListResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		if resp.IsError() {
			return nil, &FetchError{
				Network: network,
				Kind:    KindUpstream,
				Err:     fmt.Errorf("graph API returned status %d", resp.StatusCode()),
			}
		}
		return nil, &FetchError{
			Network: network,
			Kind:    KindUpstream,
			Err:     fmt.Errorf("failed to parse graph API response: %w", err),
		}
	}

	if body.Error != nil {
		if body.Error.Code == graphCodeUnsupported {
			logrus.Debugf("%s tagged media unavailable for this account (code %d)", network, body.Error.Code)
			return nil, nil
		}
		return nil, &FetchError{
			Network: network,
			Kind:    KindUpstream,
			Err:     fmt.Errorf("graph API error: %s (code %d)", body.Error.Message, body.Error.Code),
		}
	}

	if resp.IsError() {
		return nil, &FetchError{
			Network: network,
			Kind:    KindUpstream,
			Err:     fmt.Errorf("graph API returned status %d", resp.StatusCode()),
		}
	}

	return body.Data, nil
}
