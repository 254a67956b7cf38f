package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-web/internal/apiclient"
	"library-web/internal/config"
	"library-web/internal/model"
	"library-web/internal/session"
	"library-web/internal/ui"
)

type rootOptions struct {
	apiBase string
	email   string
	token   string

	readPassword func(prompt string) (string, error)
}

// readTerminalPassword securely reads a password with masking
func readTerminalPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(os.Stderr)
	return strings.TrimSpace(string(bytePassword)), nil
}

func newRootCmd(readPassword func(prompt string) (string, error)) *cobra.Command {
	opts := &rootOptions{readPassword: readPassword}

	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Query the library backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultBase := apiclient.DefaultBase
	defaultOrigin := apiclient.DefaultOrigin
	if cfg, err := config.Load(); err == nil {
		defaultBase, defaultOrigin = cfg.APIBase, cfg.APIOrigin
	}
	if resolved, err := apiclient.ResolveBase(defaultBase, defaultOrigin); err == nil {
		defaultBase = resolved
	}

	root.PersistentFlags().StringVar(&opts.apiBase, "api", defaultBase, "backend API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LIBRARY_TOKEN"), "access token (defaults to $LIBRARY_TOKEN)")
	root.PersistentFlags().StringVar(&opts.email, "email", os.Getenv("LIBRARY_EMAIL"), "account email (defaults to $LIBRARY_EMAIL)")

	root.AddCommand(
		newHealthCmd(opts),
		newLoginCmd(opts),
		newBooksCmd(opts),
		newReviewsCmd(opts),
	)
	return root
}

// client builds an API client carrying the token and email from flags.
func (o *rootOptions) client() (*apiclient.Client, error) {
	store := session.New(session.NewMemoryStorage())
	store.SetToken(o.token)
	store.SetEmail(o.email)
	return apiclient.New(o.apiBase, apiclient.WithCredentials(store))
}

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			status := ui.HealthOnline
			if err := client.Health(cmd.Context()); err != nil {
				status = ui.HealthOffline
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			if status == ui.HealthOffline {
				return fmt.Errorf("backend unreachable at %s", client.Base())
			}
			return nil
		},
	}
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Long:  "Log in and print an access token. Export it as LIBRARY_TOKEN for the other commands.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := strings.TrimSpace(opts.email)
			if email == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return fmt.Errorf("failed to read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}
			password, err := opts.readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if email == "" || password == "" {
				return ui.HintCredentials
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			res, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %s", apiclient.Message(err))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Logged in as %s (%s)\n", email, res.Role)
			fmt.Fprintln(cmd.OutOrStdout(), res.AccessToken)
			return nil
		},
	}
}

func newBooksCmd(opts *rootOptions) *cobra.Command {
	var (
		availableOnly bool
		genres        string
		query         string
	)
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List or search the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			books, err := client.ListBooks(cmd.Context(), model.BookQuery{
				AvailableOnly: availableOnly,
				Genres:        ui.SplitList(genres),
				Query:         strings.TrimSpace(query),
			})
			if err != nil {
				return fmt.Errorf("failed to load books: %s", apiclient.Message(err))
			}
			return printBooks(cmd.OutOrStdout(), books)
		},
	}
	cmd.Flags().BoolVar(&availableOnly, "available-only", false, "only books with a free copy")
	cmd.Flags().StringVar(&genres, "genre", "", "comma separated genres")
	cmd.Flags().StringVar(&query, "query", "", "search title and author")
	return cmd
}

func printBooks(out io.Writer, books []model.Book) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tAVAILABLE")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n", b.ID, b.Title, b.Author, b.Available(), b.TotalCopies)
	}
	return w.Flush()
}

func newReviewsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <book-id>",
		Short: "Show a book's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			list, err := client.ListReviews(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load reviews: %s", apiclient.Message(err))
			}
			return printReviews(cmd.OutOrStdout(), list)
		},
	}
}

func printReviews(out io.Writer, list *model.ReviewList) error {
	fmt.Fprintf(out, "Average %.1f from %d reviews\n", list.AverageRating, list.Count)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range list.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("★", r.Rating), r.UserEmail, strings.ReplaceAll(r.Comment, "\n", " "))
	}
	return w.Flush()
}

