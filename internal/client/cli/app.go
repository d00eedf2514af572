package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/signkeeper/internal/client/client"
	"github.com/dmitrijs2005/signkeeper/internal/client/config"
	"github.com/dmitrijs2005/signkeeper/internal/logging"
)

// API is the server surface the CLI drives. *client.GRPCClient satisfies it.
type API interface {
	Signup(ctx context.Context, id, password, name string) (*client.Account, error)
	Signin(ctx context.Context, id, password string) error
	SignupProvider(ctx context.Context, provider, accessToken, name string) (*client.Account, error)
	SigninByProvider(ctx context.Context, provider, accessToken string) error
	Me(ctx context.Context) (*client.Account, error)
	ListUsers(ctx context.Context) ([]*client.Account, error)
	UpdateName(ctx context.Context, id int64, name string) (*client.Account, error)
	Delete(ctx context.Context, id int64) error
	SignedIn() bool
	Signout()
	Close() error
}

type App struct {
	config *config.Config
	api    API
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	userName string
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	apiClient, err := client.NewSignKeeperClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api API, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &App{config: c, api: api, logger: logger, reader: bufio.NewReader(in), out: out}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.api.Close(); err != nil {
			a.logger.Error(ctx, "closing connection", "error", err)
		}
	}()
	runREPL(ctx, a, a.status, bufio.NewScanner(&lineReader{r: a.reader}))
}

// lineReader hands the REPL scanner one line per Read, leaving the rest in r
// for the prompts issued by commands.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.SignedIn()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.userName
	}
	return "guest"
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := a.config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// defaultSocialProvider is used by the social commands when no provider
// argument is given.
const defaultSocialProvider = "kakao"
