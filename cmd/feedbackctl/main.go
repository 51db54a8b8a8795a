// Command feedbackctl is a terminal client for the feedback board API.
//
//	feedbackctl login -u admin -p adminpassword
//	feedbackctl list -q login -sort upvotes
//	feedbackctl submit -title "Dark mode" -description "Please" -category Feature
//	feedbackctl status <id> In Progress
//
// The login is a local mock: it decides which commands the CLI offers and
// is stored in FEEDBACKCTL_SESSION (default ~/.feedbackctl.yaml).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"feedbackboard/internal/client"
	"feedbackboard/internal/models"
)

const usage = `usage: feedbackctl <command> [flags] [args]

commands:
  login -u <user> -p <password>   log in with a mock account
  logout                          clear the saved session
  whoami                          show the saved session
  list [-q text] [-status s] [-category c] [-sort createdAt|upvotes] [-order asc|desc]
  show <id>                       show one item and its comments
  submit -title t -description d -category c
  upvote <id>
  comment <id> <text...>
  status <id> <status...>         admin only

environment:
  FEEDBACK_API_URL     API base URL (default http://localhost:5000)
  FEEDBACKCTL_SESSION  session file (default ~/.feedbackctl.yaml)
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	api      *client.Client
	sessions *client.SessionStore
	out      io.Writer
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(stderr, usage)
		return 2
	}

	sessionPath := os.Getenv("FEEDBACKCTL_SESSION")
	if sessionPath == "" {
		sessionPath = client.DefaultSessionPath()
	}
	sessions, err := client.OpenSession(sessionPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	baseURL := os.Getenv("FEEDBACK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	a := &app{api: client.New(baseURL), sessions: sessions, out: stdout}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.dispatch(ctx, args[0], args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(args)
	case "logout":
		if err := client.Logout(a.sessions); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	case "whoami":
		sess := a.sessions.Current()
		if !sess.Authenticated {
			fmt.Fprintln(a.out, "Not logged in.")
			return nil
		}
		fmt.Fprintf(a.out, "Logged in as %s.\n", sess.Role)
		return nil
	}

	// Everything else is behind the login.
	sess := a.sessions.Current()
	if err := client.RequireAuth(sess); err != nil {
		return err
	}

	switch cmd {
	case "list":
		return a.list(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "submit":
		return a.submit(ctx, args)
	case "upvote":
		return a.upvote(ctx, args)
	case "comment":
		return a.comment(ctx, args)
	case "status":
		if err := client.RequireAdmin(sess); err != nil {
			return err
		}
		return a.status(ctx, args)
	}
	return fmt.Errorf("unknown command %q (run feedbackctl help)", cmd)
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := client.Login(a.sessions, *user, *pass)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", sess.Role)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var opts client.ListOptions
	fs.StringVar(&opts.Q, "q", "", "search title and description")
	fs.StringVar(&opts.Status, "status", "", "filter by status")
	fs.StringVar(&opts.Category, "category", "", "filter by category")
	fs.StringVar(&opts.SortBy, "sort", "", "createdAt or upvotes")
	fs.StringVar(&opts.SortOrder, "order", "", "asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := a.api.ListFeedback(ctx, opts)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No feedback found.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUPVOTES\tSTATUS\tCATEGORY\tTITLE")
	for _, fb := range items {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", fb.ID, fb.Upvotes, fb.Status, fb.Category, fb.Title)
	}
	return tw.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	id, _, err := idArg("show", args)
	if err != nil {
		return err
	}

	fb, err := a.api.GetFeedback(ctx, id)
	if err != nil {
		return err
	}
	comments, err := a.api.ListComments(ctx, id)
	if err != nil {
		return err
	}

	printFeedback(a.out, fb)
	fmt.Fprintf(a.out, "\nComments (%d):\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(a.out, "  [%s] %s\n", c.CreatedAt.Local().Format(time.DateTime), c.Content)
	}
	return nil
}

func (a *app) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	title := fs.String("title", "", "short summary")
	description := fs.String("description", "", "details")
	category := fs.String("category", "", "Feature, Bug, UI or Other")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fb, err := a.api.SubmitFeedback(ctx, *title, *description, *category)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Feedback submitted: %s\n", fb.ID)
	return nil
}

func (a *app) upvote(ctx context.Context, args []string) error {
	id, _, err := idArg("upvote", args)
	if err != nil {
		return err
	}
	fb, err := a.api.Upvote(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Upvoted %q (%d upvotes).\n", fb.Title, fb.Upvotes)
	return nil
}

func (a *app) comment(ctx context.Context, args []string) error {
	id, rest, err := idArg("comment", args)
	if err != nil {
		return err
	}
	c, err := a.api.AddComment(ctx, id, strings.Join(rest, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment added: %s\n", c.ID)
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	id, rest, err := idArg("status", args)
	if err != nil {
		return err
	}
	fb, err := a.api.SetStatus(ctx, id, strings.Join(rest, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Status of %q is now %s.\n", fb.Title, fb.Status)
	return nil
}

// idArg splits the leading feedback id from the remaining arguments.
func idArg(cmd string, args []string) (string, []string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", nil, fmt.Errorf("%s needs a feedback id", cmd)
	}
	return args[0], args[1:], nil
}

func printFeedback(w io.Writer, fb *models.Feedback) {
	fmt.Fprintf(w, "%s\n", fb.Title)
	fmt.Fprintf(w, "  id:       %s\n", fb.ID)
	fmt.Fprintf(w, "  category: %s\n", fb.Category)
	fmt.Fprintf(w, "  status:   %s\n", fb.Status)
	fmt.Fprintf(w, "  upvotes:  %d\n", fb.Upvotes)
	fmt.Fprintf(w, "  created:  %s\n", fb.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "\n%s\n", fb.Description)
}
