package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"viralflow/internal/catalog"
)

func runCatalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
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

	cat, err := catalog.Fetch(ctx, client)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"models":          cat.Models,
			"voices":          cat.Voices,
			"image_providers": cat.Images,
		})
	}

	providers := make([]string, 0, len(cat.Models))
	for provider := range cat.Models {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	fmt.Println("models:")
	for _, provider := range providers {
		fmt.Printf("  %s:\n", provider)
		for _, m := range cat.Models[provider] {
			fmt.Printf("    %s  %s\n", m.ID, m.Name)
		}
	}

	fmt.Println("voices:")
	for _, v := range cat.Voices.Voices {
		note := ""
		if !v.Available {
			note = "  (unavailable)"
		}
		fmt.Printf("  %s  %s%s\n", v.ID, v.Name, note)
	}
	fmt.Println("voice styles:")
	for _, s := range cat.Voices.Styles {
		fmt.Printf("  %s  %s\n", s.ID, s.Name)
	}

	fmt.Println("image providers:")
	for _, p := range cat.Images.Providers {
		note := ""
		if !p.Available {
			note = "  (unavailable)"
		}
		if p.Cost != "" {
			note += "  cost: " + p.Cost
		}
		fmt.Printf("  %s  %s%s\n", p.ID, p.Name, note)
	}
	fmt.Println("visual styles:")
	for _, s := range cat.Images.VisualStyles {
		fmt.Printf("  %s  %s\n", s.ID, s.Name)
	}
	return nil
}
