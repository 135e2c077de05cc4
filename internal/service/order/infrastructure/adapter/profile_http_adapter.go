// internal/service/order/infrastructure/adapter/profile_http_adapter.go
package adapter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"nexmall/internal/pkg/httpclient"
	"nexmall/internal/service/order/domain/port"
)

// ProfileHTTPAdapter 实现 port.ProfileService，查询用户档案服务。
type ProfileHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewProfileHTTPAdapter(client *httpclient.Client, baseURL string) *ProfileHTTPAdapter {
	return &ProfileHTTPAdapter{client: client, baseURL: baseURL}
}

type profileResponse struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    *port.Profile `json:"data"`
}

func (a *ProfileHTTPAdapter) GetProfile(ctx context.Context, userID string) (*port.Profile, error) {
	var resp profileResponse
	url := fmt.Sprintf("%s/profiles/%s", a.baseURL, userID)
	if err := a.client.GetJSON(ctx, url, &resp, nil); err != nil {
		return nil, errors.Wrap(err, "profile lookup failed")
	}
	if resp.Data == nil {
		return nil, errors.Errorf("profile service returned empty payload for user %s", userID)
	}
	return resp.Data, nil
}
