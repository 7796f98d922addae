package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"taskboard/internal/client"
	"taskboard/internal/model"
)

const usage = `taskboard - task tracking CLI

Usage:
  taskboard register            create an account and log in
  taskboard login               log in with email and password
  taskboard logout              forget the stored session
  taskboard whoami              show the logged-in profile
  taskboard list [flags]        show tasks (-filter all|pending|completed, -search <text>)
  taskboard add <title> [desc]  add a task
  taskboard edit <id> <title> [desc]
  taskboard done <id>           toggle completion (local, not synced)
  taskboard rm <id>             delete a task
  taskboard clear-done          delete all completed tasks

Environment:
  TASKBOARD_API   API base URL (default http://localhost:5000/api)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	sessionPath, err := client.DefaultSessionPath()
	if err != nil {
		fatal(err)
	}
	session, err := client.LoadSession(sessionPath)
	if err != nil {
		fatal(err)
	}
	if os.Args[1] != "logout" {
		// Fires when any request comes back 401 and the client wipes the session.
		session.OnLogout(func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		})
	}

	baseURL := os.Getenv("TASKBOARD_API")
	if baseURL == "" {
		baseURL = "http://localhost:5000/api"
	}
	api := client.New(baseURL, session)

	ctx := context.Background()
	switch os.Args[1] {
	case "register":
		err = register(ctx, api)
	case "login":
		err = login(ctx, api)
	case "logout":
		if err = session.Clear(); err == nil {
			fmt.Println("logged out")
		}
	case "whoami":
		err = whoami(ctx, api)
	case "list":
		err = list(ctx, api, session, os.Args[2:])
	case "add":
		err = add(ctx, api, os.Args[2:])
	case "edit":
		err = edit(ctx, api, os.Args[2:])
	case "done":
		err = toggleDone(ctx, api, session, os.Args[2:])
	case "rm":
		err = remove(ctx, api, os.Args[2:])
	case "clear-done":
		err = clearDone(ctx, api, session)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func register(ctx context.Context, api *client.Client) error {
	name, err := prompt("name")
	if err != nil {
		return err
	}
	email, err := prompt("email")
	if err != nil {
		return err
	}
	password, err := promptPassword("password")
	if err != nil {
		return err
	}

	user, err := api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func login(ctx context.Context, api *client.Client) error {
	email, err := prompt("email")
	if err != nil {
		return err
	}
	password, err := promptPassword("password")
	if err != nil {
		return err
	}

	user, err := api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func whoami(ctx context.Context, api *client.Client) error {
	user, err := api.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("#%d  %s <%s>\n", user.ID, user.Name, user.Email)
	return nil
}

func list(ctx context.Context, api *client.Client, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filter := fs.String("filter", "all", "all, pending, or completed")
	search := fs.String("search", "", "match against title and description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tasks, err := api.Tasks(ctx)
	if err != nil {
		return err
	}

	existing := make(map[uint]bool, len(tasks))
	for _, t := range tasks {
		existing[t.ID] = true
	}
	if err := session.PruneDone(existing); err != nil {
		return err
	}

	shown := 0
	for _, t := range tasks {
		done := session.IsDone(t.ID)
		if !matches(t, done, *filter, *search) {
			continue
		}
		mark := " "
		if done {
			mark = "x"
		}
		fmt.Printf("[%s] #%-4d %s", mark, t.ID, t.Title)
		if t.Description != "" {
			fmt.Printf("  - %s", t.Description)
		}
		fmt.Println()
		shown++
	}
	if shown == 0 {
		fmt.Println("no tasks")
	}
	return nil
}

func matches(t model.Task, done bool, filter, search string) bool {
	switch filter {
	case "pending":
		if done {
			return false
		}
	case "completed":
		if !done {
			return false
		}
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func add(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taskboard add <title> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = strings.Join(args[1:], " ")
	}

	task, err := api.CreateTask(ctx, args[0], description)
	if err != nil {
		return err
	}
	fmt.Printf("added #%d %s\n", task.ID, task.Title)
	return nil
}

func edit(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: taskboard edit <id> <title> [description]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	description := ""
	if len(args) > 2 {
		description = strings.Join(args[2:], " ")
	}

	task, err := api.UpdateTask(ctx, id, args[1], description)
	if err != nil {
		return err
	}
	fmt.Printf("updated #%d %s\n", task.ID, task.Title)
	return nil
}

func toggleDone(ctx context.Context, api *client.Client, session *client.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskboard done <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	// Confirm the task exists and is ours before flipping local state.
	tasks, err := api.Tasks(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("task #%d not found", id)
	}

	done, err := session.ToggleDone(id)
	if err != nil {
		return err
	}
	if done {
		fmt.Printf("#%d marked completed\n", id)
	} else {
		fmt.Printf("#%d marked pending\n", id)
	}
	return nil
}

func remove(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskboard rm <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := api.DeleteTask(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted #%d\n", id)
	return nil
}

func clearDone(ctx context.Context, api *client.Client, session *client.Session) error {
	deleted := 0
	for _, id := range session.DoneIDs() {
		if err := api.DeleteTask(ctx, id); err != nil {
			return err
		}
		deleted++
	}
	// Everything marked completed is gone now.
	if err := session.PruneDone(map[uint]bool{}); err != nil {
		return err
	}
	fmt.Printf("deleted %d completed task(s)\n", deleted)
	return nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return uint(id), nil
}
