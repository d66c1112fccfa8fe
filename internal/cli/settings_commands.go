package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"viralflow/internal/config"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultSettingsPath, "settings file path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := strings.TrimSpace(*configPath)
	settings, err := config.Load(path)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": path,
			"settings":    settings,
		})
	}

	fmt.Printf("config: %s\n", path)
	fmt.Printf("base_url: %s\n", settings.BaseURL)
	fmt.Printf("timeout_seconds: %d\n", settings.TimeoutSeconds)
	fmt.Printf("transcripts_dir: %s\n", settings.TranscriptsDir)
	fmt.Printf("subtitle_style: %s\n", settings.SubtitleStyle)
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultSettingsPath, "settings file path")
	baseURL := fs.String("base-url", "", "backend base URL (empty keeps current)")
	timeout := fs.Int("timeout-seconds", -1, "request timeout in seconds (>=1, -1 keeps current)")
	transcriptsDir := fs.String("transcripts-dir", "", "transcript output directory (empty keeps current)")
	subtitleStyle := fs.String("subtitle-style", "", "subtitle style: static|karaoke (empty keeps current)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := strings.TrimSpace(*configPath)
	settings, err := config.Read(path)
	if err != nil {
		return err
	}

	if strings.TrimSpace(*baseURL) != "" {
		settings.BaseURL = strings.TrimSpace(*baseURL)
	}
	if *timeout != -1 {
		if *timeout <= 0 {
			return errors.New("--timeout-seconds must be >= 1")
		}
		settings.TimeoutSeconds = *timeout
	}
	if strings.TrimSpace(*transcriptsDir) != "" {
		settings.TranscriptsDir = strings.TrimSpace(*transcriptsDir)
	}
	if style := strings.ToLower(strings.TrimSpace(*subtitleStyle)); style != "" {
		if style != "static" && style != "karaoke" {
			return errors.New("--subtitle-style must be static or karaoke")
		}
		settings.SubtitleStyle = style
	}

	saved, err := config.Update(path, settings)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": path,
			"settings":    saved,
		})
	}

	fmt.Printf("updated settings in %s\n", path)
	fmt.Printf("base_url: %s\n", saved.BaseURL)
	fmt.Printf("timeout_seconds: %d\n", saved.TimeoutSeconds)
	fmt.Printf("transcripts_dir: %s\n", saved.TranscriptsDir)
	fmt.Printf("subtitle_style: %s\n", saved.SubtitleStyle)
	return nil
}

func printSettingsUsage() {
	fmt.Println("settings commands:")
	fmt.Println("  settings show [--json]")
	fmt.Println("  settings set [--base-url URL] [--timeout-seconds N] [--transcripts-dir PATH] [--subtitle-style static|karaoke]")
}
