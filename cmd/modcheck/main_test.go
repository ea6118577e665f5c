package main

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/PancyStudios/DiscModGo/pkg/loader"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
)

func TestMain(m *testing.M) {
	logger.Get().SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestReport(t *testing.T) {
	dice := module.New("Dice")
	dice.Command("roll", func(*module.Command) error { return nil })

	results := []loader.Result{
		{Path: "modules/dice/module.go", Module: dice},
		{Path: "modules/off", Skipped: "deshabilitado"},
		{Path: "modules/broken.go", Err: errors.New("interpret: boom")},
	}

	if failed := report(results); failed != 1 {
		t.Errorf("report() = %d, want 1", failed)
	}
}

func TestDetails(t *testing.T) {
	quiet := module.New("Quiet")
	if got := details(loader.Result{Module: quiet}); got != "" {
		t.Errorf("details() = %q, want empty", got)
	}

	dice := module.New("Dice")
	dice.Command("roll", func(*module.Command) error { return nil })
	if got := details(loader.Result{Module: dice}); got != " (comandos: roll; 1 eventos)" {
		t.Errorf("details() = %q", got)
	}
}
