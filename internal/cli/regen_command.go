package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"viralflow/internal/scenes"
)

func runRegen(args []string) error {
	fs := flag.NewFlagSet("regen", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	project := fs.String("project", "", "project id")
	sceneID := fs.Int("scene", 0, "scene id to regenerate")
	searchTerm := fs.String("search-term", "", "stock footage search term (empty = keep planned term)")
	aiPrompt := fs.String("ai-prompt", "", "image generation prompt (empty = keep planned prompt)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	projectID := strings.TrimSpace(*project)
	if projectID == "" {
		return errors.New("--project is required")
	}
	if *sceneID <= 0 {
		return errors.New("--scene is required")
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
	set := scenes.NewSet()
	set.Replace(detail.Assets)

	term := strings.TrimSpace(*searchTerm)
	prompt := strings.TrimSpace(*aiPrompt)
	for _, plan := range detail.Plan.Scenes {
		if plan.ID != *sceneID {
			continue
		}
		if term == "" {
			term = plan.VisualSearchTerm
		}
		if prompt == "" {
			prompt = plan.VisualAIPrompt
		}
	}

	if !*jsonOut {
		fmt.Printf("regenerating scene %d of %s...\n", *sceneID, projectID)
	}
	if err := set.Regenerate(ctx, client, projectID, *sceneID, term, prompt); err != nil {
		return err
	}

	for _, sc := range set.Scenes() {
		if sc.ID != *sceneID {
			continue
		}
		if *jsonOut {
			return printJSON(sc)
		}
		fmt.Printf("scene %d: %s (%s)\n", sc.ID, sc.MediaURL, sc.Type)
		return nil
	}
	return fmt.Errorf("scene %d missing after regeneration", *sceneID)
}
