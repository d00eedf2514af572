// Package proto declares the signkeeper.v1.SignService gRPC contract. The
// messages are google.protobuf.Struct values, so no generated code is needed:
// field names are listed next to each method.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "signkeeper.v1.SignService"

// Method names. Request fields → response fields:
//
//	Signin           {id, password}                → {token}
//	Signup           {id, password, name}          → user
//	SigninByProvider {provider, access_token}      → {token}
//	SignupProvider   {provider, access_token, name} → user
//	ListUsers        {}                            → {users: [user]}
//	GetCurrentUser   {}                            → user
//	UpdateUser       {msrl, name}                  → user
//	DeleteUser       {msrl}                        → {}
//
// where user is {msrl, uid, provider, name, roles}. msrl travels as a decimal
// string so 64-bit ids stay exact; requests may also send it as a number.
const (
	MethodSignin           = "Signin"
	MethodSignup           = "Signup"
	MethodSigninByProvider = "SigninByProvider"
	MethodSignupProvider   = "SignupProvider"
	MethodListUsers        = "ListUsers"
	MethodGetCurrentUser   = "GetCurrentUser"
	MethodUpdateUser       = "UpdateUser"
	MethodDeleteUser       = "DeleteUser"
)

// FullMethod returns the "/service/method" path gRPC uses for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// SignServiceServer is implemented by the server transport.
type SignServiceServer interface {
	Signin(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SigninByProvider(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignupProvider(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCurrentUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SignServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SignServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SignServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SignServiceDesc is the grpc.ServiceDesc for SignService.
var SignServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SignServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodSignin, Handler: unaryHandler(MethodSignin, SignServiceServer.Signin)},
		{MethodName: MethodSignup, Handler: unaryHandler(MethodSignup, SignServiceServer.Signup)},
		{MethodName: MethodSigninByProvider, Handler: unaryHandler(MethodSigninByProvider, SignServiceServer.SigninByProvider)},
		{MethodName: MethodSignupProvider, Handler: unaryHandler(MethodSignupProvider, SignServiceServer.SignupProvider)},
		{MethodName: MethodListUsers, Handler: unaryHandler(MethodListUsers, SignServiceServer.ListUsers)},
		{MethodName: MethodGetCurrentUser, Handler: unaryHandler(MethodGetCurrentUser, SignServiceServer.GetCurrentUser)},
		{MethodName: MethodUpdateUser, Handler: unaryHandler(MethodUpdateUser, SignServiceServer.UpdateUser)},
		{MethodName: MethodDeleteUser, Handler: unaryHandler(MethodDeleteUser, SignServiceServer.DeleteUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "signkeeper/v1/sign.proto",
}

// RegisterSignServiceServer registers srv on s.
func RegisterSignServiceServer(s grpc.ServiceRegistrar, srv SignServiceServer) {
	s.RegisterService(&SignServiceDesc, srv)
}

// SignServiceClient calls SignService over cc.
type SignServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSignServiceClient(cc grpc.ClientConnInterface) *SignServiceClient {
	return &SignServiceClient{cc: cc}
}

// Call invokes method with the given request fields and returns the response
// struct.
func (c *SignServiceClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SignServiceClient) Signin(ctx context.Context, id, password string, opts ...grpc.CallOption) (string, error) {
	out, err := c.Call(ctx, MethodSignin, map[string]any{"id": id, "password": password}, opts...)
	if err != nil {
		return "", err
	}
	return out.GetFields()["token"].GetStringValue(), nil
}

func (c *SignServiceClient) Signup(ctx context.Context, id, password, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Call(ctx, MethodSignup, map[string]any{"id": id, "password": password, "name": name}, opts...)
}

func (c *SignServiceClient) SigninByProvider(ctx context.Context, provider, accessToken string, opts ...grpc.CallOption) (string, error) {
	out, err := c.Call(ctx, MethodSigninByProvider, map[string]any{"provider": provider, "access_token": accessToken}, opts...)
	if err != nil {
		return "", err
	}
	return out.GetFields()["token"].GetStringValue(), nil
}

func (c *SignServiceClient) SignupProvider(ctx context.Context, provider, accessToken, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Call(ctx, MethodSignupProvider, map[string]any{"provider": provider, "access_token": accessToken, "name": name}, opts...)
}

func (c *SignServiceClient) GetCurrentUser(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Call(ctx, MethodGetCurrentUser, nil, opts...)
}
