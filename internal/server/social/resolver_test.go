package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/signkeeper/internal/common"
)

type fakeFetcher struct {
	profile *Profile
	err     error
	gotTok  string
}

func (f *fakeFetcher) FetchProfile(_ context.Context, accessToken string) (*Profile, error) {
	f.gotTok = accessToken
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

func TestRegistry_Resolve(t *testing.T) {
	f := &fakeFetcher{profile: &Profile{ID: "99", Nickname: "n"}}
	r := NewRegistry()
	r.Register("kakao", f)

	p, err := r.Resolve(context.Background(), "kakao", "tok")
	require.NoError(t, err)
	assert.Equal(t, "tok", f.gotTok)
	assert.Equal(t, &Profile{ID: "99", Provider: "kakao", Nickname: "n"}, p)
	assert.Equal(t, []string{"kakao"}, r.Providers())
}

func TestRegistry_UnknownProvider(t *testing.T) {
	_, err := NewRegistry().Resolve(context.Background(), "naver", "tok")

	assert.ErrorIs(t, err, common.ErrUnsupportedProvider)
	assert.ErrorIs(t, err, common.ErrSocialAuth)
}

func TestRegistry_PropagatesFetcherError(t *testing.T) {
	boom := errors.Join(common.ErrSocialAuth, errors.New("boom"))
	r := NewRegistry()
	r.Register("kakao", &fakeFetcher{err: boom})

	_, err := r.Resolve(context.Background(), "kakao", "tok")
	assert.ErrorIs(t, err, common.ErrSocialAuth)
}
