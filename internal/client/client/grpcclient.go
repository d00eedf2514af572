package client

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	pb "github.com/dmitrijs2005/signkeeper/internal/proto"
)

// Account is the client-side view of a user returned by the server.
type Account struct {
	ID       int64
	UID      string
	Provider string
	Name     string
	Roles    []string
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *pb.SignServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthTokenHeaderName)
	if token != "" {
		md.Set(common.AuthTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.Token()), method, req, reply, cc, opts...)
}

// NewSignKeeperClient dials endpointURL lazily; the first RPC establishes the
// connection.
func NewSignKeeperClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(extra ...grpc.DialOption) error {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}
	opts = append(opts, extra...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewSignServiceClient(conn)
	return nil
}

// Token returns the access token stored by the last successful sign-in.
func (s *GRPCClient) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// SignedIn reports whether an access token is held.
func (s *GRPCClient) SignedIn() bool {
	return s.Token() != ""
}

// Signout forgets the stored access token.
func (s *GRPCClient) Signout() {
	s.setToken("")
}

func (s *GRPCClient) Signup(ctx context.Context, id, password, name string) (*Account, error) {
	resp, err := s.client.Signup(ctx, id, password, name)
	if err != nil {
		return nil, s.mapError(err)
	}
	return accountFrom(resp), nil
}

func (s *GRPCClient) Signin(ctx context.Context, id, password string) error {
	token, err := s.client.Signin(ctx, id, password)
	if err != nil {
		return s.mapError(err)
	}
	s.setToken(token)
	return nil
}

func (s *GRPCClient) SignupProvider(ctx context.Context, provider, accessToken, name string) (*Account, error) {
	resp, err := s.client.SignupProvider(ctx, provider, accessToken, name)
	if err != nil {
		return nil, s.mapError(err)
	}
	return accountFrom(resp), nil
}

func (s *GRPCClient) SigninByProvider(ctx context.Context, provider, accessToken string) error {
	token, err := s.client.SigninByProvider(ctx, provider, accessToken)
	if err != nil {
		return s.mapError(err)
	}
	s.setToken(token)
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (*Account, error) {
	if !s.SignedIn() {
		return nil, ErrNotSignedIn
	}
	resp, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return accountFrom(resp), nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]*Account, error) {
	if !s.SignedIn() {
		return nil, ErrNotSignedIn
	}
	resp, err := s.client.Call(ctx, pb.MethodListUsers, nil)
	if err != nil {
		return nil, s.mapError(err)
	}

	values := resp.GetFields()["users"].GetListValue().GetValues()
	list := make([]*Account, 0, len(values))
	for _, v := range values {
		list = append(list, accountFrom(v.GetStructValue()))
	}
	return list, nil
}

func (s *GRPCClient) UpdateName(ctx context.Context, id int64, name string) (*Account, error) {
	if !s.SignedIn() {
		return nil, ErrNotSignedIn
	}
	resp, err := s.client.Call(ctx, pb.MethodUpdateUser, map[string]any{"msrl": strconv.FormatInt(id, 10), "name": name})
	if err != nil {
		return nil, s.mapError(err)
	}
	return accountFrom(resp), nil
}

func (s *GRPCClient) Delete(ctx context.Context, id int64) error {
	if !s.SignedIn() {
		return ErrNotSignedIn
	}
	if _, err := s.client.Call(ctx, pb.MethodDeleteUser, map[string]any{"msrl": strconv.FormatInt(id, 10)}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func accountFrom(st *structpb.Struct) *Account {
	f := st.GetFields()
	a := &Account{
		ID:       int64Field(f["msrl"]),
		UID:      f["uid"].GetStringValue(),
		Provider: f["provider"].GetStringValue(),
		Name:     f["name"].GetStringValue(),
	}
	for _, r := range f["roles"].GetListValue().GetValues() {
		a.Roles = append(a.Roles, r.GetStringValue())
	}
	return a
}

// int64Field reads an id sent as a decimal string, falling back to a number.
func int64Field(v *structpb.Value) int64 {
	if sv, ok := v.GetKind().(*structpb.Value_StringValue); ok {
		n, _ := strconv.ParseInt(sv.StringValue, 10, 64)
		return n
	}
	return int64(v.GetNumberValue())
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.NotFound:
		return ErrAccountNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
