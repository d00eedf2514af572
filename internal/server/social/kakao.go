package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/signkeeper/internal/common"
)

// KakaoProvider is the provider tag of Kakao accounts.
const KakaoProvider = "kakao"

// DefaultKakaoProfileURL is Kakao's "current user" endpoint.
const DefaultKakaoProfileURL = "https://kapi.kakao.com/v2/user/me"

// maxProfileBody caps how much of a profile response is read.
const maxProfileBody = 1 << 20

// KakaoClient fetches the profile owning a Kakao access token.
type KakaoClient struct {
	profileURL string
	timeout    time.Duration
	httpClient *http.Client
}

var _ Fetcher = (*KakaoClient)(nil)

// NewKakaoClient returns a client for profileURL. Each call is bounded by
// timeout. httpClient may be nil.
func NewKakaoClient(profileURL string, timeout time.Duration, httpClient *http.Client) *KakaoClient {
	if profileURL == "" {
		profileURL = DefaultKakaoProfileURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &KakaoClient{profileURL: profileURL, timeout: timeout, httpClient: httpClient}
}

type kakaoProfileResponse struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
	KakaoAccount struct {
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (k *KakaoClient) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", common.ErrSocialAuth)
	}

	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	client := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, k.httpClient),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", common.ErrSocialAuth, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: kakao request: %v", common.ErrSocialAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read kakao response: %v", common.ErrSocialAuth, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: kakao status %d", common.ErrSocialAuth, resp.StatusCode)
	}

	var r kakaoProfileResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: decode kakao profile: %v", common.ErrSocialAuth, err)
	}
	if r.ID == 0 {
		return nil, fmt.Errorf("%w: kakao profile without id", common.ErrSocialAuth)
	}

	nickname := r.Properties.Nickname
	if nickname == "" {
		nickname = r.KakaoAccount.Profile.Nickname
	}

	return &Profile{
		ID:       strconv.FormatInt(r.ID, 10),
		Provider: KakaoProvider,
		Nickname: nickname,
	}, nil
}
