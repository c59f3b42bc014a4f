// Command worldcache serves the World benchmark routes from a warmed cache.
//
// Exit codes: 0 clean shutdown, 1 startup or serve failure, 2 invalid
// configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/unkn0wn-root/worldcache"
	"github.com/unkn0wn-root/worldcache/internal/config"
)

const (
	exitOK     = 0
	exitInit   = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("worldcache", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "YAML config file (default $"+config.ConfigPathEnvVar+")")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "worldcache: %v\n", err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "worldcache: %v\n", err)
		return exitCode(err)
	}
	defer a.close()

	if err := a.serve(ctx); err != nil {
		a.log.Error("worldcache stopped", worldcache.Fields{"err": err})
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var ce *worldcache.ConfigError
	if errors.As(err, &ce) {
		return exitConfig
	}
	return exitInit
}

// serve starts the listener, warms the cache and blocks until ctx is done
// or the server fails. Cache routes answer 503 while the warm pass runs.
func (a *app) serve(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", worldcache.Fields{"addr": a.srv.Addr, "strategy": a.svc.Kind().String()})
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	if err := a.svc.Warm(ctx); err != nil {
		a.shutdown()
		return err
	}

	select {
	case <-ctx.Done():
		a.log.Info("shutting down", nil)
		return a.shutdown()
	case err, ok := <-errc:
		if !ok {
			return nil
		}
		return &worldcache.InitError{Op: "serve", Err: err}
	}
}

func (a *app) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return a.srv.Shutdown(ctx)
}
