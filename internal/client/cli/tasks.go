package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	apiclient "github.com/iudanet/tasklist/internal/client/api"
	"github.com/iudanet/tasklist/internal/client/storage"
	"github.com/iudanet/tasklist/pkg/api"
)

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("missing task title. Usage: tasklist add <title>")
	}

	authData, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	task, err := c.apiClient.CreateTask(ctx, authData.Token, api.CreateTaskRequest{Title: title})
	if err != nil {
		return sessionError(err)
	}

	c.io.Printf("✓ Task #%d created: %s\n", task.ID, task.Title)
	return nil
}

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	offline := fs.Bool("offline", false, "show cached tasks")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	if *offline {
		return c.listCached(ctx)
	}

	authData, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	tasks, err := c.apiClient.ListTasks(ctx, authData.Token)
	if err != nil {
		return sessionError(err)
	}

	if err := c.store.SaveTasks(ctx, authData.Username, tasks); err != nil {
		// Кэш вспомогательный, список все равно показываем
		c.io.Printf("Warning: failed to cache tasks: %v\n", err)
	}

	c.printTasks(tasks)
	return nil
}

func (c *Cli) listCached(ctx context.Context) error {
	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	cached, err := c.store.GetTasks(ctx, authData.Username)
	if err != nil {
		if errors.Is(err, storage.ErrCacheNotFound) {
			return fmt.Errorf("no cached tasks. Run 'tasklist list' while online first")
		}
		return fmt.Errorf("failed to get cached tasks: %w", err)
	}

	c.io.Printf("Cached at %s\n", cached.FetchedAt.Local().Format(time.RFC3339))
	c.printTasks(cached.Tasks)
	return nil
}

func (c *Cli) printTasks(tasks []api.TaskResponse) {
	if len(tasks) == 0 {
		c.io.Println("No tasks.")
		return
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDONE\tTITLE")
	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "%d\t[%s]\t%s\n", task.ID, mark, task.Title)
	}
	_ = w.Flush()
}

func (c *Cli) runSetCompleted(ctx context.Context, args []string, completed bool) error {
	command := "done"
	if !completed {
		command = "undone"
	}

	if len(args) != 1 {
		return fmt.Errorf("usage: tasklist %s <id>", command)
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	return c.updateTask(ctx, id, api.UpdateTaskRequest{Completed: &completed})
}

func (c *Cli) runRename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: tasklist rename <id> <title>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return fmt.Errorf("task title cannot be empty")
	}

	return c.updateTask(ctx, id, api.UpdateTaskRequest{Title: &title})
}

func (c *Cli) updateTask(ctx context.Context, id int64, req api.UpdateTaskRequest) error {
	authData, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	if err := c.apiClient.UpdateTask(ctx, authData.Token, id, req); err != nil {
		return taskError(id, err)
	}

	c.io.Printf("✓ Task #%d updated\n", id)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasklist delete <id>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	authData, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	if err := c.apiClient.DeleteTask(ctx, authData.Token, id); err != nil {
		return taskError(id, err)
	}

	c.io.Printf("✓ Task #%d deleted\n", id)
	return nil
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func taskError(id int64, err error) error {
	if errors.Is(err, apiclient.ErrNotFound) {
		return fmt.Errorf("task #%d not found", id)
	}
	return sessionError(err)
}
