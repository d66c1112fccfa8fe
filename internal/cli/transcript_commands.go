package cli

import (
	"flag"
	"fmt"
	"strings"

	"viralflow/internal/session"
	"viralflow/internal/transcript"
)

func runTranscripts(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "list":
			args = args[1:]
		case "help", "-h", "--help":
			fmt.Println("transcripts commands:")
			fmt.Println("  transcripts [list] [--dir <path>] [--json]")
			return nil
		}
	}

	fs := flag.NewFlagSet("transcripts list", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	dir := fs.String("dir", "", "transcripts directory (empty = settings default)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := backend.settings()
	if err != nil {
		return err
	}
	target := strings.TrimSpace(*dir)
	if target == "" {
		target = settings.TranscriptsDir
	}

	transcripts, err := transcript.List(target)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(transcripts)
	}
	if len(transcripts) == 0 {
		fmt.Printf("no transcripts in %s\n", target)
		return nil
	}
	for _, t := range transcripts {
		subject := t.Config.Topic
		if t.Config.ScriptMode == session.ScriptModeManual || subject == "" {
			subject = "(manual script)"
		}
		fmt.Printf("%s  %-9s  %s\n", t.CreatedAt, t.Status, subject)
		if t.VideoURL != "" {
			fmt.Printf("  video: %s\n", t.VideoURL)
		}
	}
	return nil
}
