package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/client"
	"github.com/noah-isme/council-console/internal/console"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
	"github.com/noah-isme/council-console/internal/validation"
	"github.com/noah-isme/council-console/pkg/cache"
	"github.com/noah-isme/council-console/pkg/config"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

const keyringService = "council-console"

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	// store overrides the configured session store.
	store session.Store
}

type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	api       *client.Client
	sessions  *session.Manager
	validator *validation.Validator
	notifier  console.Notifier
	registry  *prometheus.Registry
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	closers   []func() error
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, args []string, s streams) int {
	if wantsHelp(args) {
		usage(s.out)
		return 0
	}
	cmd, rest, ok := lookup(args)
	if !ok {
		fmt.Fprintf(s.errOut, "unknown command %q\n\n", strings.Join(args, " "))
		usage(s.errOut)
		return 2
	}

	a, err := newApp(ctx, cfg, logr, s)
	if err != nil {
		fmt.Fprintf(s.errOut, "error: %v\n", err)
		return 1
	}
	defer a.Close()

	err = cmd.run(ctx, a, rest)
	a.reportCalls()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	default:
		printError(s.errOut, err)
		return 1
	}
}

func newApp(ctx context.Context, cfg *config.Config, logr *zap.Logger, s streams) (*app, error) {
	a := &app{
		cfg:       cfg,
		logger:    logr,
		validator: validation.New(),
		registry:  prometheus.NewRegistry(),
		in:        bufio.NewReader(s.in),
		out:       s.out,
		errOut:    s.errOut,
	}
	a.notifier = printNotifier(s.errOut, logr)

	opts := []client.Option{client.WithLogger(logr)}
	if cfg.Metrics.Enabled {
		opts = append(opts, client.WithMetrics(client.NewMetrics(a.registry)))
	}
	a.api = client.New(cfg.API.BaseURL, cfg.API.Timeout, opts...)

	store := s.store
	if store == nil {
		var err error
		store, err = a.openStore(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.sessions = session.NewManager(a.api, store, logr)
	return a, nil
}

// openStore builds the session store selected by SESSION_STORE.
func (a *app) openStore(ctx context.Context) (session.Store, error) {
	cfg := a.cfg.Session
	switch cfg.Store {
	case config.SessionStoreFile, "":
		return session.NewFileStore(cfg.FilePath)
	case config.SessionStoreRedis:
		rdb, err := cache.NewRedis(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return session.NewRedisStore(rdb, cache.Key(cfg.RedisPrefix, operator()), cfg.TTL), nil
	case config.SessionStoreKeyring:
		return session.NewKeyringStore(keyringService, operator()), nil
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.Store)
	}
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Debug("close failed", zap.Error(err))
		}
	}
}

func (a *app) options(yes bool) console.Options {
	confirmer := promptConfirmer(a.in, a.errOut)
	if yes {
		confirmer = console.AlwaysConfirm
	}
	return console.Options{
		PageSize:  a.cfg.API.PageSize,
		Validator: a.validator,
		Notifier:  a.notifier,
		Confirmer: confirmer,
		Logger:    a.logger,
	}
}

func (a *app) admin(ctx context.Context) (*session.Session, error) {
	return a.sessions.Require(ctx, models.RoleAdmin)
}

// reportCalls logs the remote call counters gathered during the command.
func (a *app) reportCalls() {
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Debug("gather client metrics", zap.Error(err))
		return
	}
	for _, family := range families {
		if family.GetName() != "council_client_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, label.GetName()+"="+label.GetValue())
			}
			a.logger.Debug("council api calls",
				zap.String("labels", strings.Join(labels, ",")),
				zap.Float64("count", metric.GetCounter().GetValue()))
		}
	}
}

func operator() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "default"
}

func printNotifier(w io.Writer, logr *zap.Logger) console.Notifier {
	return console.NotifierFunc(func(n console.Notification) {
		mark := "ok"
		if n.Level == console.LevelError {
			mark = "!!"
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, n.Message)
		if n.Err != nil {
			logr.Debug("notification", zap.String("message", n.Message), zap.Error(n.Err))
		}
	})
}

func promptConfirmer(in *bufio.Reader, out io.Writer) console.Confirmer {
	return console.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

func printError(w io.Writer, err error) {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %s\n", appErr.Message)
	keys := make([]string, 0, len(appErr.Fields))
	for k := range appErr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, appErr.Fields[k])
	}
}

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

// visited returns the names of the flags given on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
