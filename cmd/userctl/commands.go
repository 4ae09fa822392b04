package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
)

func newCreateCmd(c *cli) *cobra.Command {
	var req dto.CreateUserRequest
	var image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("image") {
				req.Image = &image
			}
			res := c.actions.Create(cmd.Context(), req.ToInput())
			return printEnvelope(c, dto.FromResult(res, dto.ToUserResponse))
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().BoolVar(&req.EmailVerified, "email-verified", false, "mark the email as verified")
	cmd.Flags().StringVar(&image, "image", "", "avatar URL")
	return cmd
}

func newGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.actions.Get(cmd.Context(), args[0])
			return printEnvelope(c, dto.FromResult(res, dto.ToUserResponse))
		},
	}
}

func newUpdateCmd(c *cli) *cobra.Command {
	var (
		name, email, image string
		verified           bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a user",
		Long:  "Change the given fields of a user. Fields whose flags are not set keep their value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch user.Patch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("email-verified") {
				patch.EmailVerified = &verified
			}
			if flags.Changed("image") {
				patch.Image = &image
			}
			res := c.actions.Update(cmd.Context(), args[0], patch)
			return printEnvelope(c, dto.FromResult(res, dto.ToUserResponse))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().BoolVar(&verified, "email-verified", false, "new verification state")
	cmd.Flags().StringVar(&image, "image", "", "new avatar URL")
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.actions.Delete(cmd.Context(), args[0])
			return printEnvelope(c, dto.FromResult(res, dto.ToUserResponse))
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	var filter user.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := c.actions.List(cmd.Context(), filter)
			return printEnvelope(c, dto.FromResult(res, dto.ToUserListResponse))
		},
	}

	cmd.Flags().IntVar(&filter.Limit, "limit", user.DefaultLimit, fmt.Sprintf("page size (at most %d)", user.MaxLimit))
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "number of users to skip")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	var atomic bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create many users from a JSON file (- for stdin)",
		Long: `Create many users from a JSON array of user objects, or an object with
a "users" array, read from FILE or from stdin when FILE is "-".

With --atomic either every user is created or none is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := c.readImport(args[0])
			if err != nil {
				return err
			}
			res := c.actions.Import(cmd.Context(), req.Inputs(), atomic || req.Atomic)
			return printEnvelope(c, dto.FromResult(res, dto.ToImportResponse))
		},
	}

	cmd.Flags().BoolVar(&atomic, "atomic", false, "create all users or none")
	return cmd
}

// readImport accepts either a bare array or an ImportUsersRequest object.
func (c *cli) readImport(path string) (*dto.ImportUsersRequest, error) {
	var r io.Reader = c.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	var req dto.ImportUsersRequest
	if err := json.Unmarshal(raw, &req.Users); err == nil {
		return &req, nil
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &req, nil
}
