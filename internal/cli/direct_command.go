package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"viralflow/internal/api"
	"viralflow/internal/history"
	"viralflow/internal/scenes"
	"viralflow/internal/session"
)

func runDirect(args []string) error {
	fs := flag.NewFlagSet("direct", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	prompt := fs.String("prompt", "", "raw prompt describing the whole video")
	subtitleStyle := fs.String("subtitle-style", "", "subtitle style: static|karaoke (empty = settings default)")
	noRender := fs.Bool("no-render", false, "stop after asset generation, do not render")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw := strings.TrimSpace(*prompt)
	if raw == "" {
		var err error
		raw, err = promptRequired("prompt")
		if err != nil {
			return err
		}
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

	cfg := session.DefaultConfig()
	cfg.Topic = raw
	sess := session.New(client)
	if err := sess.BeginRender(cfg); err != nil {
		return err
	}

	if !*jsonOut {
		fmt.Println("generating project...")
	}
	detail, err := client.DirectGenerate(ctx, raw)
	if err != nil {
		sess.FailRender(err.Error())
		return err
	}
	set := scenes.NewSet()
	set.Replace(detail.Assets)

	if *noRender {
		if *jsonOut {
			return printJSON(detail)
		}
		fmt.Printf("project: %s\n", detail.ID)
		fmt.Printf("scenes: %d\n", set.Len())
		fmt.Printf("next: viralflow render --project %s\n", detail.ID)
		return nil
	}

	if !*jsonOut {
		fmt.Printf("project %s generated with %d scenes, rendering...\n", detail.ID, set.Len())
	}
	videoURL, err := client.RenderVideo(ctx, api.RenderRequest{
		ProjectID:     detail.ID,
		Assets:        set.Scenes(),
		SubtitleStyle: style,
	})
	if err != nil {
		sess.FailRender(err.Error())
		return err
	}
	if err := sess.FinishRender(videoURL); err != nil {
		return err
	}

	// Best effort: the history list is stale until the next refresh anyway.
	_ = history.NewStore(client).Refresh(ctx)

	if *jsonOut {
		return printJSON(map[string]any{
			"project_id": detail.ID,
			"status":     sess.Status(),
			"video_url":  videoURL,
		})
	}
	fmt.Printf("project: %s\n", detail.ID)
	fmt.Printf("video: %s\n", videoURL)
	return nil
}
