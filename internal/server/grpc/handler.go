package grpc

import (
	"context"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
)

func str(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

// num reads an integer field sent either as a number or a decimal string.
func num(in *structpb.Struct, key string) int64 {
	v := in.GetFields()[key]
	if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
		n, _ := strconv.ParseInt(s.StringValue, 10, 64)
		return n
	}
	return int64(v.GetNumberValue())
}

func userStruct(u *models.User) (*structpb.Struct, error) {
	v := u.View()
	roles := make([]any, len(v.Roles))
	for i, r := range v.Roles {
		roles[i] = r
	}
	return structpb.NewStruct(map[string]any{
		"msrl":     strconv.FormatInt(v.ID, 10),
		"uid":      v.UID,
		"provider": v.Provider,
		"name":     v.Name,
		"roles":    roles,
	})
}

func tokenStruct(token string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"token": structpb.NewStringValue(token)}}
}

func (s *GRPCServer) Signin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	token, err := s.auth.Signin(ctx, str(in, "id"), str(in, "password"))
	if err != nil {
		return nil, toStatus(err)
	}
	return tokenStruct(token), nil
}

func (s *GRPCServer) Signup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.logger.Info(ctx, "Registration request")

	u, err := s.auth.Signup(ctx, str(in, "id"), str(in, "password"), str(in, "name"))
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return s.user(u)
}

func (s *GRPCServer) SigninByProvider(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	token, err := s.auth.SigninByProvider(ctx, str(in, "provider"), str(in, "access_token"))
	if err != nil {
		return nil, toStatus(err)
	}
	return tokenStruct(token), nil
}

func (s *GRPCServer) SignupProvider(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.auth.SignupProvider(ctx, str(in, "provider"), str(in, "access_token"), str(in, "name"))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.user(u)
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	values := make([]*structpb.Value, 0, len(list))
	for _, u := range list {
		st, err := userStruct(u)
		if err != nil {
			return nil, toStatus(err)
		}
		values = append(values, structpb.NewStructValue(st))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"users": structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

func (s *GRPCServer) GetCurrentUser(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.users.FindCurrent(ctx, identityFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.user(u)
}

func (s *GRPCServer) UpdateUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.users.UpdateName(ctx, identityFrom(ctx), num(in, "msrl"), str(in, "name"))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.user(u)
}

func (s *GRPCServer) DeleteUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.users.Delete(ctx, identityFrom(ctx), num(in, "msrl")); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func (s *GRPCServer) user(u *models.User) (*structpb.Struct, error) {
	st, err := userStruct(u)
	if err != nil {
		return nil, toStatus(common.ErrorInternal)
	}
	return st, nil
}
