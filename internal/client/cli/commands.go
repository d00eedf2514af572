package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/signkeeper/internal/client/client"
	"github.com/dmitrijs2005/signkeeper/internal/common"
)

var errEmptyInput = errors.New("input must not be empty")

func (a *App) prompt(text string) (string, error) {
	v, err := GetSimpleText(a.reader, text, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errEmptyInput
	}
	return v, nil
}

func (a *App) password() (string, error) {
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	if len(pw) == 0 {
		return "", errEmptyInput
	}
	return string(pw), nil
}

// report prints err to the user and returns it unchanged.
func (a *App) report(ctx context.Context, op string, err error) error {
	a.logger.Debug(ctx, op+" failed", "error", err)
	fmt.Fprintf(a.out, "%s failed: %s\n", op, err)
	return err
}

func (a *App) printAccount(acc *client.Account) {
	uid := acc.UID
	if acc.Provider != "" {
		uid = acc.Provider + ":" + acc.UID
	}
	fmt.Fprintf(a.out, "#%d %s (%s) [%s]\n", acc.ID, acc.Name, uid, strings.Join(acc.Roles, ","))
}

func (a *App) Signup(ctx context.Context) error {
	id, err := a.prompt("Enter account id")
	if err != nil {
		return a.report(ctx, "signup", err)
	}
	pw, err := a.password()
	if err != nil {
		return a.report(ctx, "signup", err)
	}
	name, err := a.prompt("Enter display name")
	if err != nil {
		return a.report(ctx, "signup", err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.Signup(ctx, id, pw, name)
	if err != nil {
		return a.report(ctx, "signup", err)
	}
	fmt.Fprint(a.out, "Account created: ")
	a.printAccount(acc)
	return nil
}

func (a *App) Signin(ctx context.Context) error {
	id, err := a.prompt("Enter account id")
	if err != nil {
		return a.report(ctx, "signin", err)
	}
	pw, err := a.password()
	if err != nil {
		return a.report(ctx, "signin", err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Signin(ctx, id, pw); err != nil {
		return a.report(ctx, "signin", err)
	}
	a.userName = id
	fmt.Fprintln(a.out, "Signed in as", id)
	return nil
}

func (a *App) SignupSocial(ctx context.Context, provider string) error {
	if provider == "" {
		provider = defaultSocialProvider
	}
	token, err := a.prompt(fmt.Sprintf("Enter %s access token", provider))
	if err != nil {
		return a.report(ctx, "signup", err)
	}
	name, err := a.prompt("Enter display name")
	if err != nil {
		return a.report(ctx, "signup", err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.SignupProvider(ctx, provider, token, name)
	if err != nil {
		return a.report(ctx, "signup", err)
	}
	fmt.Fprint(a.out, "Account created: ")
	a.printAccount(acc)
	return nil
}

func (a *App) SigninSocial(ctx context.Context, provider string) error {
	if provider == "" {
		provider = defaultSocialProvider
	}
	token, err := a.prompt(fmt.Sprintf("Enter %s access token", provider))
	if err != nil {
		return a.report(ctx, "signin", err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.SigninByProvider(ctx, provider, token); err != nil {
		return a.report(ctx, "signin", err)
	}

	a.userName = provider
	if me, err := a.api.Me(ctx); err == nil {
		a.userName = me.Name
	}
	fmt.Fprintln(a.out, "Signed in with", provider)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.Me(ctx)
	if err != nil {
		return a.report(ctx, "me", err)
	}
	a.printAccount(acc)
	return nil
}

func (a *App) Users(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.api.ListUsers(ctx)
	if err != nil {
		return a.report(ctx, "users", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, acc := range list {
		a.printAccount(acc)
	}
	return nil
}

func (a *App) Rename(ctx context.Context, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return a.report(ctx, "rename", fmt.Errorf("invalid account number %q", rawID))
	}
	name, err := a.prompt("Enter new display name")
	if err != nil {
		return a.report(ctx, "rename", err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.UpdateName(ctx, id, name)
	if err != nil {
		return a.report(ctx, "rename", err)
	}
	a.printAccount(acc)
	return nil
}

func (a *App) Delete(ctx context.Context, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return a.report(ctx, "delete", fmt.Errorf("invalid account number %q", rawID))
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Delete(ctx, id); err != nil {
		return a.report(ctx, "delete", err)
	}
	fmt.Fprintf(a.out, "Account #%d deleted\n", id)
	return nil
}

func (a *App) Signout(_ context.Context) error {
	a.api.Signout()
	a.userName = ""
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
