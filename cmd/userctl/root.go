package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// errActionFailed marks a command whose envelope was printed with
// success=false. The envelope already explains the failure.
var errActionFailed = errors.New("action failed")

// opener resolves the user actions for one invocation. The returned func
// releases the store.
type opener func(ctx context.Context, c *cli) (ports.UserActions, func() error, error)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	profile    string
	configDir  string
	backend    string
	sqlitePath string
	output     string

	open    opener
	actions ports.UserActions
	close   func() error
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "userctl",
		Short:         "Create, read, update and delete users",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.output != outputJSON && c.output != outputYAML {
				return fmt.Errorf("unknown output format %q (want %s or %s)", c.output, outputJSON, outputYAML)
			}
			if c.profile == "" {
				return errors.New("--profile or APP_PROFILE is required (e.g. local, dev, qa, prod)")
			}
			actions, closeFn, err := c.open(cmd.Context(), c)
			if err != nil {
				return err
			}
			c.actions, c.close = actions, closeFn
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.profile, "profile", os.Getenv("APP_PROFILE"), "configuration profile")
	flags.StringVar(&c.configDir, "config-dir", "configs", "directory holding the profile YAML files")
	flags.StringVar(&c.backend, "backend", "", "store backend, overriding the profile (memory, sqlite, postgres, dynamodb, remote)")
	flags.StringVar(&c.sqlitePath, "sqlite-path", "", "SQLite database file, overriding the profile")
	flags.StringVarP(&c.output, "output", "o", outputJSON, "output format: json or yaml")

	root.AddCommand(
		newCreateCmd(c),
		newGetCmd(c),
		newUpdateCmd(c),
		newDeleteCmd(c),
		newListCmd(c),
		newImportCmd(c),
	)
	return root
}
