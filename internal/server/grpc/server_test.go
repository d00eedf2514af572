package grpc

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/logging"
	pb "github.com/dmitrijs2005/signkeeper/internal/proto"
	"github.com/dmitrijs2005/signkeeper/internal/server/auth"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
	"github.com/dmitrijs2005/signkeeper/internal/server/repositories/users/userstest"
	"github.com/dmitrijs2005/signkeeper/internal/server/services"
	"github.com/dmitrijs2005/signkeeper/internal/server/social"
)

type stubFetcher struct {
	profiles map[string]*social.Profile
}

func (f stubFetcher) FetchProfile(_ context.Context, accessToken string) (*social.Profile, error) {
	p, ok := f.profiles[accessToken]
	if !ok {
		return nil, common.ErrSocialAuth
	}
	out := *p
	return &out, nil
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// startBufServer runs the full stack over an in-memory listener and returns a
// connected client.
func startBufServer(t *testing.T) (*pb.SignServiceClient, *userstest.Memory) {
	t.Helper()

	repo := userstest.NewMemory()
	tokens := auth.NewJWTProvider([]byte("grpc-test"), time.Hour)
	registry := social.NewRegistry()
	registry.Register(social.KakaoProvider, stubFetcher{profiles: map[string]*social.Profile{
		"kakao-ok": {ID: "555", Nickname: "neo"},
	}})

	as := services.NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), tokens, registry, logging.Nop{})
	us := services.NewUserService(repo, logging.Nop{})
	gs := NewGRPCServer("bufnet", logging.Nop{}, as, us, tokens)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})

	return pb.NewSignServiceClient(conn), repo
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AuthTokenHeaderName, token)
}

func TestSignService_LocalFlow(t *testing.T) {
	client, _ := startBufServer(t)
	ctx := context.Background()

	u, err := client.Signup(ctx, "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.GetFields()["uid"].GetStringValue())
	assert.NotContains(t, u.String(), "s3cret")
	assert.NotContains(t, u.GetFields(), "password_hash")

	_, err = client.Signup(ctx, "alice@example.com", "other", "Alice")
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = client.Signin(ctx, "alice@example.com", "wrong")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = client.Signin(ctx, "nobody@example.com", "s3cret")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := client.Signin(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	me, err := client.GetCurrentUser(withToken(ctx, token))
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.GetFields()["name"].GetStringValue())

	_, err = client.GetCurrentUser(ctx)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSignService_SocialFlow(t *testing.T) {
	client, repo := startBufServer(t)
	ctx := context.Background()

	_, err := client.SigninByProvider(ctx, social.KakaoProvider, "kakao-ok")
	assert.Equal(t, codes.NotFound, status.Code(err))

	u, err := client.SignupProvider(ctx, social.KakaoProvider, "kakao-ok", "Neo")
	require.NoError(t, err)
	id, err := strconv.ParseInt(u.GetFields()["msrl"].GetStringValue(), 10, 64)
	require.NoError(t, err)

	_, err = client.SignupProvider(ctx, social.KakaoProvider, "kakao-ok", "Neo")
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	token, err := client.SigninByProvider(ctx, social.KakaoProvider, "kakao-ok")
	require.NoError(t, err)

	identity, err := auth.NewJWTProvider([]byte("grpc-test"), time.Hour).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(id, 10), identity.Subject)

	_, err = client.SignupProvider(ctx, social.KakaoProvider, "bad-token", "X")
	assert.Equal(t, codes.Unavailable, status.Code(err))
	_, err = client.SignupProvider(ctx, "naver", "kakao-ok", "X")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, 1, repo.Len())
}

func TestSignService_UserManagement(t *testing.T) {
	client, repo := startBufServer(t)
	ctx := context.Background()

	alice, err := client.Signup(ctx, "alice", "pw", "Alice")
	require.NoError(t, err)
	bob, err := client.Signup(ctx, "bob", "pw", "Bob")
	require.NoError(t, err)

	token, err := client.Signin(ctx, "alice", "pw")
	require.NoError(t, err)
	authed := withToken(ctx, token)

	list, err := client.Call(authed, pb.MethodListUsers, nil)
	require.NoError(t, err)
	assert.Len(t, list.GetFields()["users"].GetListValue().GetValues(), 2)

	aliceID := alice.GetFields()["msrl"].GetStringValue()
	bobID, err := strconv.ParseInt(bob.GetFields()["msrl"].GetStringValue(), 10, 64)
	require.NoError(t, err)

	renamed, err := client.Call(authed, pb.MethodUpdateUser, map[string]any{"msrl": aliceID, "name": "Alicia"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", renamed.GetFields()["name"].GetStringValue())

	_, err = client.Call(authed, pb.MethodUpdateUser, map[string]any{"msrl": float64(bobID), "name": "Hacked"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = client.Call(authed, pb.MethodDeleteUser, map[string]any{"msrl": aliceID})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestUserStruct_KeepsLargeIDsExact(t *testing.T) {
	const id = int64(1)<<53 + 1

	st, err := userStruct(&models.User{ID: id, UID: "alice", Name: "Alice", Roles: []string{common.RoleUser}})
	require.NoError(t, err)

	assert.Equal(t, "9007199254740993", st.GetFields()["msrl"].GetStringValue())
	assert.Equal(t, id, num(st, "msrl"))
}
