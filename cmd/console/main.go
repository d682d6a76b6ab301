// Command console is the terminal client for the LB Marketing scheduling
// service: it manages the authenticated session, the per-platform OAuth
// connections, and composing/scheduling posts across connected platforms.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
	"github.com/lbmarketing/marketing-console/internal/core/service"
	"github.com/lbmarketing/marketing-console/internal/infrastructure/api"
	"github.com/lbmarketing/marketing-console/internal/infrastructure/callback"
	"github.com/lbmarketing/marketing-console/internal/infrastructure/config"
	filestore "github.com/lbmarketing/marketing-console/internal/infrastructure/store/file"
	redisstore "github.com/lbmarketing/marketing-console/internal/infrastructure/store/redis"
	"github.com/lbmarketing/marketing-console/pkg/logger"
)

const scheduleLayout = "2006-01-02 15:04"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: console <command> [flags]

commands:
  register      create an account and log in
  login         authenticate and store the session
  logout        discard the stored session
  me            show the current user
  status        show platform connection status
  connect       start OAuth authorization for a platform
  disconnect    revoke a platform connection
  post          compose and schedule a post
  posts         list scheduled posts
  publish       publish one post by id
  publish-all   publish every pending post
  profiles      list linked social profiles
  link          manually link a social profile
  serve         run the callback/metrics listener`)
}

type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	sessions *service.SessionService
	registry *service.ConnectionService
	composer *service.ComposerService
	listener *callback.Server
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	var (
		repo ports.SessionRepository
		err  error
	)
	switch cfg.Session.Backend {
	case "redis":
		client, cerr := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Session.Redis.Addr,
			DB:   cfg.Session.Redis.DB,
		})
		if cerr != nil {
			return nil, cerr
		}
		repo = redisstore.NewRepository(client)
	default:
		repo, err = filestore.NewRepository(cfg.Session.Dir)
		if err != nil {
			return nil, err
		}
	}

	store := service.NewSessionStore(repo, log)
	gateway := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	}, store, log)

	return &app{
		cfg:      cfg,
		log:      log,
		sessions: service.NewSessionService(store, gateway, log),
		registry: service.NewConnectionService(gateway, store, log, service.ConnectionOptions{
			PollInterval: cfg.OAuth.PollInterval,
			PollTimeout:  cfg.OAuth.PollTimeout,
		}),
		composer: service.NewComposerService(gateway, log, cfg.DefaultBusinessID, time.Now),
		listener: callback.NewServer(log),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.registerCmd(ctx, args)
	case "login":
		return a.loginCmd(ctx, args)
	case "logout":
		a.sessions.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "me":
		return a.meCmd(ctx)
	case "status":
		return a.statusCmd(ctx)
	case "connect":
		return a.connectCmd(ctx, args)
	case "disconnect":
		return a.disconnectCmd(ctx, args)
	case "post":
		return a.postCmd(ctx, args)
	case "posts":
		return a.postsCmd(ctx)
	case "publish":
		return a.publishCmd(ctx, args)
	case "publish-all":
		return a.publishAllCmd(ctx)
	case "profiles":
		return a.profilesCmd(ctx)
	case "link":
		return a.linkCmd(ctx, args)
	case "serve":
		return a.serveCmd(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireSession restores and revalidates the persisted session; commands
// that talk to authenticated endpoints refuse to run without one.
func (a *app) requireSession(ctx context.Context) error {
	if !a.sessions.Restore(ctx) {
		return errors.New("not logged in (run 'console login')")
	}
	return nil
}

func (a *app) registerCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "full name (optional)")
	_ = fs.Parse(args)

	user, err := a.sessions.Register(ctx, ports.RegisterInput{
		Email:    *email,
		Password: *password,
		FullName: *name,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s\n", user.Email)
	return nil
}

func (a *app) loginCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	user, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", user.Email)
	return nil
}

func (a *app) meCmd(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	user, _ := a.sessions.Current()
	fmt.Printf("%s (id %d, active: %v)\n", user.Email, user.ID, user.IsActive)
	return nil
}

func (a *app) statusCmd(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	conns, err := a.registry.RefreshAll(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(conns))
	for k := range conns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		conn := conns[k]
		if conn.Connected {
			fmt.Printf("%-12s connected (@%s)\n", k, conn.Handle)
		} else {
			fmt.Printf("%-12s not connected\n", k)
		}
	}
	return nil
}

// connectCmd initiates authorization (fire-and-forget navigation) and then
// waits for the loopback listener to report the redirect-back before
// re-checking connection state.
func (a *app) connectCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("connect", flag.ExitOnError)
	platform := fs.String("platform", domain.PlatformTwitter, "platform to connect")
	_ = fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	authURL, err := a.registry.Connect(ctx, *platform)
	if err != nil {
		return err
	}

	go func() {
		if err := a.listener.Start(a.cfg.Callback.Addr); err != nil {
			a.log.Error().Err(err).Msg("callback listener failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = a.listener.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Open this URL in a browser to authorize %s:\n\n  %s\n\nWaiting for the redirect...\n", *platform, authURL)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.listener.Notify():
	}

	if err := a.registry.ResumeAfterAuthorization(ctx, *platform); err != nil {
		return err
	}
	fmt.Printf("%s connected\n", *platform)
	return nil
}

func (a *app) disconnectCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("disconnect", flag.ExitOnError)
	platform := fs.String("platform", "", "platform to disconnect")
	_ = fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}
	if err := a.registry.Disconnect(ctx, *platform); err != nil {
		return err
	}
	fmt.Printf("%s disconnected\n", *platform)
	return nil
}

func (a *app) postCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	platform := fs.String("platform", domain.PlatformTwitter, "target platform")
	tone := fs.String("tone", domain.ToneProfessional, "post tone")
	content := fs.String("content", "", "post content")
	mediaURL := fs.String("media", "", "media URL (optional)")
	schedule := fs.String("schedule", "", "local schedule time, e.g. '2026-01-15 09:30' (empty = post now)")
	_ = fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	draft := domain.PostDraft{
		Platform: *platform,
		Tone:     *tone,
		MediaURL: *mediaURL,
		Content:  *content,
	}
	if *schedule != "" {
		when, err := time.ParseInLocation(scheduleLayout, *schedule, time.Local)
		if err != nil {
			return fmt.Errorf("parse schedule time (%s, %s): %w", scheduleLayout, a.composer.TimezoneLabel(), err)
		}
		draft.ScheduleEnabled = true
		draft.ScheduledAt = when
	}

	post, err := a.composer.Submit(ctx, draft)
	if err != nil {
		return err
	}

	if post.Scheduled {
		fmt.Printf("post %d scheduled on %s for %s\n", post.ID, post.Platform, post.ScheduledAt.Local().Format(scheduleLayout))
	} else {
		fmt.Printf("post %d created on %s\n", post.ID, post.Platform)
	}
	return nil
}

func (a *app) postsCmd(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	posts, err := a.composer.ListPosts(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("no posts yet")
		return nil
	}
	for _, p := range posts {
		fmt.Printf("%4d  %-12s %-10s %s  %s\n",
			p.ID, p.Platform, p.Status, p.ScheduledAt.Local().Format(scheduleLayout), p.Content)
	}
	return nil
}

func (a *app) publishCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	id := fs.Int64("id", 0, "post id")
	_ = fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	post, err := a.composer.PublishPost(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("post %d published on %s\n", post.ID, post.Platform)
	return nil
}

func (a *app) publishAllCmd(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	count, err := a.composer.PublishAll(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("published %d post(s)\n", count)
	return nil
}

func (a *app) profilesCmd(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	profiles, err := a.registry.Profiles(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("no linked profiles")
		return nil
	}
	for _, p := range profiles {
		fmt.Printf("%4d  %-12s @%-20s %s\n", p.ID, domain.ToUIPlatform(p.Platform), p.Handle, p.Status)
	}
	return nil
}

func (a *app) linkCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("link", flag.ExitOnError)
	platform := fs.String("platform", "", "platform of the profile")
	handle := fs.String("handle", "", "profile handle")
	externalID := fs.String("external-id", "", "provider-side account id (optional)")
	_ = fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	user, ok := a.sessions.Current()
	if !ok {
		return errors.New("no session user")
	}

	rec, err := a.registry.LinkProfile(ctx, ports.CreateSocialProfileInput{
		UserID:     user.ID,
		BusinessID: a.cfg.DefaultBusinessID,
		Platform:   *platform,
		Handle:     *handle,
		ExternalID: *externalID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("profile %d linked (@%s on %s)\n", rec.ID, rec.Handle, domain.ToUIPlatform(rec.Platform))
	return nil
}

// serveCmd runs the listener indefinitely, resuming connection refreshes on
// every redirect-back. Useful when authorization is initiated elsewhere.
func (a *app) serveCmd(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	if _, err := a.registry.RefreshAll(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial connection refresh failed")
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case platform := <-a.listener.Notify():
				if err := a.registry.ResumeAfterAuthorization(ctx, platform); err != nil {
					a.log.Warn().Err(err).Str("platform", platform).Msg("post-redirect re-check failed")
				}
			}
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = a.listener.Shutdown(shutdownCtx)
	}()

	a.log.Info().Str("addr", a.cfg.Callback.Addr).Msg("callback listener running")
	return a.listener.Start(a.cfg.Callback.Addr)
}
