package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"viralflow/internal/history"
)

func runProjects(args []string) error {
	if len(args) == 0 {
		return runProjectsList(nil)
	}
	switch args[0] {
	case "list":
		return runProjectsList(args[1:])
	case "show":
		return runProjectsShow(args[1:])
	case "help", "-h", "--help":
		printProjectsUsage()
		return nil
	default:
		// Bare flags mean list, e.g. "projects --json".
		if strings.HasPrefix(args[0], "-") {
			return runProjectsList(args)
		}
		printProjectsUsage()
		return fmt.Errorf("unknown projects subcommand %q", args[0])
	}
}

func runProjectsList(args []string) error {
	fs := flag.NewFlagSet("projects list", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := backend.client()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := history.NewStore(client)
	if err := store.Refresh(ctx); err != nil {
		return err
	}
	projects := store.Projects()

	if *jsonOut {
		return printJSON(projects)
	}
	if len(projects) == 0 {
		fmt.Println("no projects stored on the backend")
		return nil
	}
	for _, p := range projects {
		marker := " "
		if p.HasVideo {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, p.ID, p.Prompt)
	}
	fmt.Println()
	fmt.Println("* = final video available")
	return nil
}

func runProjectsShow(args []string) error {
	fs := flag.NewFlagSet("projects show", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	id := fs.String("id", "", "project id")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	projectID := strings.TrimSpace(*id)
	if projectID == "" {
		return errors.New("--id is required")
	}

	client, _, err := backend.client()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	detail, err := client.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(detail)
	}

	fmt.Printf("project: %s\n", detail.ID)
	fmt.Printf("prompt: %s\n", detail.Prompt)
	if detail.VideoURL != "" {
		fmt.Printf("video: %s\n", detail.VideoURL)
	}
	fmt.Printf("scenes: %d\n", len(detail.Assets))
	for _, sc := range detail.Assets {
		fmt.Printf("  %d. [%s] %.1fs %s\n", sc.ID, sc.Type, sc.Duration, sc.MediaURL)
		if sc.Narration != "" {
			fmt.Printf("     %s\n", sc.Narration)
		}
	}
	return nil
}

func printProjectsUsage() {
	fmt.Println("projects commands:")
	fmt.Println("  projects list [--json]")
	fmt.Println("  projects show --id <project-id> [--json]")
}
