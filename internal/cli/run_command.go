package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"viralflow/internal/seo"
	"viralflow/internal/session"
	"viralflow/internal/stream"
	"viralflow/internal/transcript"
)

type runResult struct {
	SessionID      string         `json:"session_id"`
	Status         string         `json:"status"`
	VideoURL       string         `json:"video_url,omitempty"`
	Metadata       *seo.Canonical `json:"metadata,omitempty"`
	LogLines       int            `json:"log_lines"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
}

// tapOpener forwards stream events to an observer after the session has
// processed them, so the command sees the same terminal state the session
// settled on.
type tapOpener struct {
	inner session.Opener
	tap   func(stream.Event)
}

func (o *tapOpener) OpenStream(cfg session.Config, handle func(stream.Event)) (session.Stream, error) {
	return o.inner.OpenStream(cfg, func(ev stream.Event) {
		handle(ev)
		o.tap(ev)
	})
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	defaults := session.DefaultConfig()
	topic := fs.String("topic", "", "video topic (ai script mode)")
	scriptFile := fs.String("script-file", "", "path to a manual script (switches to manual mode)")
	writerProvider := fs.String("writer-provider", defaults.WriterProvider, "script writer provider")
	writerModel := fs.String("writer-model", "", "script writer model (empty = backend default)")
	criticProvider := fs.String("critic-provider", defaults.CriticProvider, "script critic provider")
	criticModel := fs.String("critic-model", "", "script critic model (empty = backend default)")
	duration := fs.String("duration", defaults.Duration, "target length: short|medium|long|surprise")
	voice := fs.String("voice", "", "narration voice id")
	voiceStyle := fs.String("voice-style", defaults.VoiceStyle, "narration style")
	aspect := fs.String("aspect", defaults.AspectRatio, "aspect ratio: horizontal|vertical")
	imageProvider := fs.String("image-provider", defaults.ImageProvider, "image provider")
	visualStyle := fs.String("visual-style", defaults.VisualStyle, "visual style")
	seed := fs.Bool("consistent-seed", defaults.UseConsistentSeed, "reuse one seed across scene images")
	noSave := fs.Bool("no-save", false, "do not save a transcript")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaults
	cfg.Topic = strings.TrimSpace(*topic)
	cfg.WriterProvider = *writerProvider
	cfg.WriterModel = *writerModel
	cfg.CriticProvider = *criticProvider
	cfg.CriticModel = *criticModel
	cfg.Duration = *duration
	cfg.VoiceConfig = *voice
	cfg.VoiceStyle = *voiceStyle
	cfg.AspectRatio = *aspect
	cfg.ImageProvider = *imageProvider
	cfg.VisualStyle = *visualStyle
	cfg.UseConsistentSeed = *seed

	if strings.TrimSpace(*scriptFile) != "" {
		script, err := readScriptFile(strings.TrimSpace(*scriptFile))
		if err != nil {
			return err
		}
		cfg.ScriptMode = session.ScriptModeManual
		cfg.ManualScript = script
	} else if cfg.Topic == "" {
		value, err := promptRequired("topic")
		if err != nil {
			return err
		}
		cfg.Topic = value
	}

	client, settings, err := backend.client()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	var once sync.Once
	opener := &tapOpener{inner: client, tap: func(ev stream.Event) {
		switch ev.Kind {
		case stream.EventLog:
			if !*jsonOut {
				fmt.Println(ev.Log)
			}
		case stream.EventDone, stream.EventError, stream.EventProtocolError, stream.EventDisconnect:
			once.Do(func() { close(done) })
		}
	}}

	sess := session.New(opener)
	if err := sess.Ignite(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	select {
	case <-done:
	case <-ctx.Done():
		sess.Abort()
	}

	view := sess.View()
	res := runResult{
		SessionID: view.ID,
		Status:    view.Status,
		VideoURL:  view.VideoURL,
		Metadata:  view.Metadata,
		LogLines:  len(view.Logs),
	}
	if !*noSave {
		path, err := transcript.Save(settings.TranscriptsDir, transcript.FromView(view, time.Now()))
		if err != nil {
			return err
		}
		res.TranscriptPath = path
	}

	if *jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printRunSummary(res)
	}
	if view.Status == session.StatusError {
		return errors.New("pipeline run ended in error")
	}
	return nil
}

func printRunSummary(res runResult) {
	fmt.Println()
	fmt.Printf("status: %s\n", res.Status)
	if res.VideoURL != "" {
		fmt.Printf("video: %s\n", res.VideoURL)
	}
	if res.Metadata != nil {
		fmt.Println("titles:")
		for _, line := range res.Metadata.TitleLines {
			fmt.Printf("  %s\n", line)
		}
		fmt.Printf("description: %s\n", res.Metadata.Description)
		fmt.Printf("tags: %s\n", res.Metadata.Tags)
	}
	if res.TranscriptPath != "" {
		fmt.Printf("transcript: %s\n", res.TranscriptPath)
	}
}
