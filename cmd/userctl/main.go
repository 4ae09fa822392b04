// Command userctl runs the user actions against the configured store from
// the command line. Every command prints the result envelope as JSON or
// YAML and exits with status 1 when the action did not succeed.
//
//	APP_PROFILE=dev userctl create --name Ann --email ann@example.com
//	userctl --profile dev list --limit 10 -o yaml
//	userctl --profile dev import users.json --atomic
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/store"
	"github.com/jsamuelsen11/user-action-service/internal/container"
	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, openStore))
}

// execute runs the command line and returns the process exit status.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, open opener) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, open: open}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if c.close != nil {
		if cerr := c.close(); cerr != nil {
			fmt.Fprintf(stderr, "warning: closing store: %v\n", cerr)
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errActionFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}

// overrides collects the flags that take precedence over the profile.
func (c *cli) overrides() map[string]any {
	values := map[string]any{}
	if c.backend != "" {
		values["store.backend"] = c.backend
	}
	if c.sqlitePath != "" {
		values["store.sqlite.path"] = c.sqlitePath
	}
	return values
}

// openStore loads the profile's configuration and resolves the action
// stack from the same container the HTTP server uses. Telemetry is off.
func openStore(ctx context.Context, c *cli) (ports.UserActions, func() error, error) {
	cfg, err := config.Load(c.profile, config.WithConfigDir(c.configDir), config.WithOverrides(c.overrides()))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, c.stderr)
	logger = logger.With(slog.String("component", "userctl"))

	injector := do.New()
	container.Register(ctx, injector, cfg, logger, nil)

	actions, err := do.Invoke[ports.UserActions](injector)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	backend := do.MustInvoke[*store.Backend](injector)
	return actions, backend.Close, nil
}
