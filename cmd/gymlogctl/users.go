package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registered users",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered user aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGymlog(cmd, opts, func(g *gymlog, out io.Writer) error {
				st := newStyles(out)
				users, err := g.service.ListUsers(cmd.Context())
				if err != nil {
					return fmt.Errorf("list users: %w", err)
				}
				if len(users) == 0 {
					_, err := fmt.Fprintln(out, st.header.Render("no users registered"))
					return err
				}
				if _, err := fmt.Fprintln(out, st.header.Render(fmt.Sprintf("%d user(s)", len(users)))); err != nil {
					return err
				}
				for _, u := range users {
					if _, err := fmt.Fprintln(out, st.user.Render(u)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <alias>",
		Short: "Register a user alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGymlog(cmd, opts, func(g *gymlog, out io.Writer) error {
				st := newStyles(out)
				if err := g.service.RegisterUser(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("add user [%s]: %w", args[0], err)
				}
				_, err := fmt.Fprintf(out, "user %s registered\n", st.user.Render(args[0]))
				return err
			})
		},
	}

	usersCmd.AddCommand(listCmd, addCmd)
	return usersCmd
}
