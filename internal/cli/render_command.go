package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"viralflow/internal/api"
	"viralflow/internal/history"
	"viralflow/internal/scenes"
)

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	project := fs.String("project", "", "project id to render")
	subtitleStyle := fs.String("subtitle-style", "", "subtitle style: static|karaoke (empty = settings default)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	projectID := strings.TrimSpace(*project)
	if projectID == "" {
		return errors.New("--project is required")
	}

	client, settings, err := backend.client()
	if err != nil {
		return err
	}
	style := strings.TrimSpace(*subtitleStyle)
	if style == "" {
		style = settings.SubtitleStyle
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	detail, err := client.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if len(detail.Assets) == 0 {
		return fmt.Errorf("project %s has no assets to render", projectID)
	}
	set := scenes.NewSet()
	set.Replace(detail.Assets)

	if !*jsonOut {
		fmt.Printf("rendering %d scenes (%s subtitles)...\n", set.Len(), style)
	}
	videoURL, err := client.RenderVideo(ctx, api.RenderRequest{
		ProjectID:     projectID,
		Assets:        set.Scenes(),
		SubtitleStyle: style,
	})
	if err != nil {
		return err
	}

	// Best effort: the history list is stale until the next refresh anyway.
	_ = history.NewStore(client).Refresh(ctx)

	if *jsonOut {
		return printJSON(map[string]any{
			"project_id": projectID,
			"video_url":  videoURL,
		})
	}
	fmt.Printf("video: %s\n", videoURL)
	return nil
}
