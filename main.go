// Command pong-client joins a paddle ball match on a game server.
//
// It supports four commands:
//  1. "play" – opens a desktop window, renders the match and sends paddle input
//  2. "headless" – plays without a window and exposes the session over a
//     control API with an /mcp endpoint, optionally through an ngrok tunnel
//  3. "mcp" – runs an MCP stdio server that proxies a running headless client
//  4. "replay" – feeds a recorded frame journal through a session and prints
//     the final state
//
// Global flags select the server, room code, profile and journal directory.
// Every flag can also come from the environment, including a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/inconshreveable/log15/v3"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/pong-client/api"
	"github.com/wricardo/pong-client/game/config"
	"github.com/wricardo/pong-client/game/render"
	"github.com/wricardo/pong-client/game/service"
	"github.com/wricardo/pong-client/game/session"
	"github.com/wricardo/pong-client/transport/mcp"
	"github.com/wricardo/pong-client/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	ngrokLog15 "golang.ngrok.com/ngrok/log/log15"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Pong Client"
)

const shutdownTimeout = 10 * time.Second

var logger = log15.New("pkg", "main")

// envErr holds the result of loading .env, reported once logging is set up.
var envErr error

func main() {
	envErr = godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logger.Error("exiting", "err", err)
		os.Exit(1)
	}
}

// newApp builds the command tree.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "pong-client",
		Usage:   "join a paddle ball match",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing client profiles",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "profile name (defaults to the directory's default profile)",
				Sources: cli.EnvVars("PONG_PROFILE"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "game server host[:port]",
				Sources: cli.EnvVars("PONG_SERVER"),
			},
			&cli.StringFlag{
				Name:    "code",
				Usage:   "room code to join",
				Sources: cli.EnvVars("PONG_CODE"),
			},
			&cli.StringFlag{
				Name:    "journal-dir",
				Usage:   "record inbound frames under this directory",
				Sources: cli.EnvVars("JOURNAL_DIR"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(os.Stderr, cmd.Bool("debug"))
			switch {
			case envErr == nil:
				logger.Debug("loaded environment variables from .env file")
			case !os.IsNotExist(envErr):
				logger.Warn("error loading .env file", "err", envErr)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			playCommand(),
			headlessCommand(),
			mcpCommand(),
			replayCommand(),
		},
	}
}

// setupLogging routes every package logger to w in logfmt.
func setupLogging(w io.Writer, debug bool) {
	lvl := log15.LvlInfo
	if debug {
		lvl = log15.LvlDebug
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(w, log15.LogfmtFormat())))
}

// loadProfile resolves the active profile and applies command line overrides.
func loadProfile(cmd *cli.Command) (*config.Profile, *config.Manager, error) {
	profile := config.MinimalProfile()

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		logger.Warn("using built-in profile", "err", err)
	} else if name := cmd.String("profile"); name != "" {
		profile, err = manager.LoadProfile(name)
		if err != nil {
			return nil, nil, err
		}
	} else {
		profile = manager.GetDefault()
	}

	p := applyOverrides(profile, cmd.String("server"), cmd.String("code"), cmd.String("journal-dir"))
	if err := config.ValidateProfile(p); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", config.ErrInvalidProfile, err)
	}
	return p, manager, nil
}

// applyOverrides returns a copy of p with every non-empty override set.
func applyOverrides(p *config.Profile, server, code, journalDir string) *config.Profile {
	out := *p
	if server != "" {
		out.Server = server
	}
	if code != "" {
		out.Code = code
	}
	if journalDir != "" {
		out.JournalDir = journalDir
	}
	return &out
}

func targetFor(p *config.Profile) websocket.Target {
	return websocket.Target{Host: p.Server, Code: p.Code, Path: p.Path}
}

// openJournal returns nil when recording is disabled.
func openJournal(p *config.Profile) (session.Journal, error) {
	if p.JournalDir == "" {
		return nil, nil
	}
	j, err := session.OpenFileJournal(p.JournalDir, p.Code, time.Now())
	if err != nil {
		return nil, err
	}
	logger.Info("recording frames", "path", j.Path())
	return j, nil
}

func headlessCommand() *cli.Command {
	return &cli.Command{
		Name:  "headless",
		Usage: "play without a window and expose the session over HTTP and MCP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "control API address (defaults to the profile's)",
				Sources: cli.EnvVars("PONG_LISTEN"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the control API through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (defaults to the profile's)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, manager, err := loadProfile(cmd)
			if err != nil {
				return err
			}
			listen := p.Control.Listen
			if cmd.String("listen") != "" {
				listen = cmd.String("listen")
			}
			domain := p.Control.NgrokDomain
			if cmd.String("ngrok-domain") != "" {
				domain = cmd.String("ngrok-domain")
			}

			var profiles api.ProfileStore
			if manager != nil {
				profiles = manager
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runHeadless(ctx, p, headlessOptions{
				Listen:      listen,
				Profiles:    profiles,
				Ngrok:       cmd.Bool("ngrok"),
				NgrokAuth:   cmd.String("ngrok-auth"),
				NgrokDomain: domain,
			})
		},
	}
}

type headlessOptions struct {
	Listen      string
	Profiles    api.ProfileStore
	Ngrok       bool
	NgrokAuth   string
	NgrokDomain string
}

// runHeadless plays until the connection ends, the opponent leaves and the
// navigation delay passes, or ctx is cancelled.
func runHeadless(ctx context.Context, p *config.Profile, opts headlessOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := websocket.Dial(ctx, targetFor(p), websocket.Options{})
	if err != nil {
		return err
	}
	defer conn.Close()

	journal, err := openJournal(p)
	if err != nil {
		return err
	}

	sess := session.New(session.Options{
		Width:         p.Width,
		Height:        p.Height,
		PaddleSpeed:   p.PaddleSpeed,
		NavigateDelay: p.NavigateDelay.Duration,
		Sender:        conn,
		Journal:       journal,
		Navigator: session.NavigatorFunc(func() {
			logger.Info("opponent left, ending session")
			cancel()
		}),
	})
	defer sess.Close()

	loop := session.NewLoop(sess, conn.Frames())
	svc := service.NewClientService(loop, service.Info{
		Server:    conn.URL(),
		Code:      p.Code,
		StartedAt: time.Now(),
	})

	ln, err := net.Listen("tcp", opts.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Listen, err)
	}
	baseURL := controlBaseURL(ln.Addr())
	handler := newRouter(api.NewServer(svc, opts.Profiles), mcp.NewClient(baseURL))
	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("control API listening", "addr", ln.Addr().String(), "api", baseURL+"/api", "mcp", baseURL+"/mcp")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCanceled(conn.Run(gctx))
	})
	g.Go(func() error {
		defer cancel()
		return ignoreCanceled(loop.Run(gctx))
	})
	g.Go(func() error {
		return serve(gctx, httpServer, ln)
	})
	if opts.Ngrok {
		g.Go(func() error {
			return serveNgrok(gctx, handler, opts.NgrokAuth, opts.NgrokDomain)
		})
	}

	err = g.Wait()
	stats := sess.Stats()
	logger.Info("session ended", "frames", stats.Engine.Frames, "journaled", stats.Journaled)
	return err
}

// newRouter mounts the control API at the root and the MCP endpoint at /mcp.
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Warn("failed to write mcp response", "err", err)
		}
	})
	return router
}

// controlBaseURL returns a loopback URL for addr, used by the MCP proxy to
// reach the API in the same process.
func controlBaseURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown error", "err", err)
		}
		return nil
	}
}

// serveNgrok exposes handler through a tunnel. A missing token only warns.
func serveNgrok(ctx context.Context, handler http.Handler, authToken, domain string) error {
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel,
		ngrok.WithAuthtoken(authToken),
		ngrok.WithLogger(ngrokLog15.NewLogger(log15.New("pkg", "ngrok"))),
	)
	if err != nil {
		logger.Warn("failed to start ngrok tunnel", "err", err)
		return nil
	}

	url := tun.URL()
	logger.Info("ngrok tunnel established", "url", url, "api", url+"/api", "mcp", url+"/mcp")

	srv := &http.Server{Handler: handler}
	return serve(ctx, srv, tun)
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server that proxies a headless client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://127.0.0.1:8081",
				Usage:   "base URL of the headless client's control API",
				Sources: cli.EnvVars("PONG_API"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			baseURL := strings.TrimSuffix(cmd.String("api"), "/")

			probe := &http.Client{Timeout: 2 * time.Second}
			resp, err := probe.Get(baseURL + "/api/health")
			if err != nil {
				logger.Warn("control API not reachable yet", "url", baseURL, "err", err)
			} else {
				resp.Body.Close()
				logger.Info("control API found", "url", baseURL, "status", resp.StatusCode)
			}

			return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
		},
	}
}

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "feed a recorded journal through a session and print the final state",
		ArgsUsage: "[journal]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the final world snapshot as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				dir := cmd.String("journal-dir")
				if dir == "" {
					dir = "journals"
				}
				paths, err := session.ListJournals(dir)
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					return fmt.Errorf("no journals found in %s", dir)
				}
				path = paths[len(paths)-1]
			}
			return replayJournal(os.Stdout, path, cmd.Bool("json"))
		},
	}
}

// replayJournal prints the final frame, or the final snapshot as JSON.
func replayJournal(w io.Writer, path string, asJSON bool) error {
	entries, err := session.ReadJournal(path)
	if err != nil {
		return err
	}

	rec := render.NewRecorder()
	sess := session.New(session.Options{Surface: rec})
	defer sess.Close()

	for _, entry := range entries {
		if err := sess.HandleFrame(entry.Bytes()); err != nil {
			logger.Debug("frame dropped", "err", err)
		}
	}
	sess.Render()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Snapshot any           `json:"snapshot"`
			Stats    session.Stats `json:"stats"`
		}{sess.Snapshot(), sess.Stats()})
	}

	stats := sess.Stats()
	fmt.Fprintf(w, "Replayed %d frames (%d dropped) from %s\n", stats.Engine.Frames, stats.Engine.Dropped, path)
	fmt.Fprintln(w, rec.String())
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
