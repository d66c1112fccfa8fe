package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "run":
		return runGenerate(args[1:])
	case "studio":
		return runStudio(args[1:])
	case "direct":
		return runDirect(args[1:])
	case "render":
		return runRender(args[1:])
	case "regen":
		return runRegen(args[1:])
	case "projects":
		return runProjects(args[1:])
	case "catalog":
		return runCatalog(args[1:])
	case "transcripts":
		return runTranscripts(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("viralflow: generative video pipeline client")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  viralflow catalog")
	fmt.Println("  viralflow run --topic \"the hidden history of bitcoin\"")
	fmt.Println("  viralflow studio")
	fmt.Println()
	fmt.Println("Generation Commands:")
	fmt.Println("  run         run the streaming pipeline for one topic or script")
	fmt.Println("  studio      interactive pipeline console (live log + metadata)")
	fmt.Println("  direct      one-shot generation from a raw prompt, then render")
	fmt.Println("  render      render a stored project's assets into a final video")
	fmt.Println("  regen       regenerate the media of one scene in place")
	fmt.Println()
	fmt.Println("Workspace Commands:")
	fmt.Println("  projects    list or inspect stored projects on the backend")
	fmt.Println("  catalog     show available models, voices, and image providers")
	fmt.Println("  transcripts list locally saved run transcripts")
	fmt.Println("  settings    show/update client settings")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - VIRALFLOW_BASE_URL overrides the configured backend URL")
}
