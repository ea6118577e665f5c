// Package main checks a modules directory without connecting to Discord.
// Every entry is interpreted and reported; the exit status is 1 when any
// entry fails to load.
//
// Usage:
//   go run ./cmd/modcheck [-dir modules] [-strict]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/PancyStudios/DiscModGo/pkg/config"
	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/loader"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	dir := flag.String("dir", cfg.ModulesDir, "Modules directory to check")
	strict := flag.Bool("strict", true, "Fail when the directory does not exist")
	flag.Parse()

	log := logger.Init("", "")
	defer log.Close()

	results, err := loader.Inspect(*dir, loader.Options{Strict: *strict})
	if err != nil {
		logger.Critical(err.Error(), "ModCheck")
		os.Exit(1)
	}

	failed := report(results)
	if failed > 0 {
		logger.Error(fmt.Sprintf("%d de %d módulos con errores", failed, len(results)), "ModCheck")
		os.Exit(1)
	}
	logger.Success(fmt.Sprintf("%d módulos revisados en %s", len(results), *dir), "ModCheck")
}

// report logs one line per result and returns how many failed
func report(results []loader.Result) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.Skipped != "":
			logger.Info(fmt.Sprintf("⏭  %s: %s", r.Path, r.Skipped), "ModCheck")
		case r.Err != nil:
			failed++
			logger.Error(fmt.Sprintf("❌ %s: %v", r.Path, r.Err), "ModCheck")
		default:
			logger.Success(fmt.Sprintf("✅ %s → %s%s", r.Path, r.Module.Name(), details(r)), "ModCheck")
		}
	}
	return failed
}

func details(r loader.Result) string {
	var parts []string
	if cmds := r.Module.Commands(); len(cmds) > 0 {
		parts = append(parts, "comandos: "+strings.Join(cmds, ", "))
	}
	n := 0
	for _, name := range r.Module.Events() {
		if name != events.ModuleInit {
			n++
		}
	}
	if n > 0 {
		parts = append(parts, fmt.Sprintf("%d eventos", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}
