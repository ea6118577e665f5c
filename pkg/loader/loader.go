package loader

import (
	"context"
	stderrors "errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const (
	// DefaultEntryFile is looked up inside packaged module directories
	DefaultEntryFile = "module.go"
	// SourceExt is the extension of script modules
	SourceExt = ".go"
	// EntrySymbol must be a func() *module.Module in every script
	EntrySymbol = "New"
)

var (
	// ErrNoModulesDir is returned in strict mode when the directory is missing
	ErrNoModulesDir = stderrors.New("loader: modules directory does not exist")
	// ErrNoFactory is returned when a script lacks a usable New function
	ErrNoFactory = stderrors.New("loader: script does not define func New() *module.Module")
)

// Options tune directory discovery
type Options struct {
	// Strict turns a missing directory into an error instead of a warning
	Strict bool
	// EntryFile overrides DefaultEntryFile
	EntryFile string
	// Timeout bounds the interpretation of a single script; zero means 10s
	Timeout time.Duration
}

func (o Options) entryFile() string {
	if o.EntryFile != "" {
		return o.EntryFile
	}
	return DefaultEntryFile
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return 10 * time.Second
}

// Result is the outcome for one directory entry
type Result struct {
	Path    string
	Module  *module.Module
	Skipped string
	Err     error
}

// OK reports whether the entry produced a module
func (r Result) OK() bool {
	return r.Module != nil && r.Err == nil
}

// LoadDir interprets every module found in dir, in directory order. Faulty
// entries are logged and skipped; only a missing directory in strict mode
// fails the whole call.
func LoadDir(dir string, opts Options) ([]*module.Module, error) {
	results, err := Inspect(dir, opts)
	if err != nil {
		return nil, err
	}

	mods := make([]*module.Module, 0, len(results))
	for _, r := range results {
		switch {
		case r.Skipped != "":
			logger.Debug(fmt.Sprintf("Omitiendo %s: %s", r.Path, r.Skipped), "Loader")
		case r.Err != nil:
			logger.Error(fmt.Sprintf("Error cargando el módulo \"%s\": %v", r.Path, r.Err), "Loader")
		default:
			mods = append(mods, r.Module)
		}
	}
	return mods, nil
}

// Inspect evaluates dir like LoadDir but returns one Result per entry
// without logging them.
func Inspect(dir string, opts Options) ([]Result, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if opts.Strict {
			return nil, fmt.Errorf("%w: %s", ErrNoModulesDir, dir)
		}
		logger.Warn(fmt.Sprintf("La carpeta de módulos no existe (%s), continuando sin módulos", dir), "Loader")
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read modules directory: %w", err)
	}

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		if entry.IsDir() {
			results = append(results, inspectPackage(path, opts))
			continue
		}

		if !strings.HasSuffix(name, SourceExt) || strings.HasSuffix(name, "_test"+SourceExt) {
			continue
		}
		results = append(results, inspectFile(path, opts))
	}
	return results, nil
}

// inspectPackage resolves the entry file of a packaged module directory
func inspectPackage(dir string, opts Options) Result {
	mf, err := readManifest(dir)
	if err != nil {
		return Result{Path: dir, Err: err}
	}

	entry := opts.entryFile()
	if mf != nil {
		if mf.Disabled {
			return Result{Path: dir, Skipped: "deshabilitado en " + ManifestFile}
		}
		if mf.Entry != "" {
			entry = mf.Entry
		}
	}

	path := filepath.Join(dir, entry)
	if _, err := os.Stat(path); err != nil {
		return Result{Path: dir, Err: fmt.Errorf("entry file %s not found", entry)}
	}

	r := inspectFile(path, opts)
	if r.OK() && mf != nil && mf.Description != "" && r.Module.Description() == "" {
		r.Module.SetDescription(mf.Description)
	}
	return r
}

func inspectFile(path string, opts Options) Result {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout())
	defer cancel()

	m, err := interpret(ctx, path)
	if err == nil {
		err = Validate(m)
	}
	if err != nil {
		return Result{Path: path, Err: err}
	}
	return Result{Path: path, Module: m}
}

// interpret runs a script in a fresh interpreter and calls its New function
func interpret(ctx context.Context, path string) (m *module.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	pkg, err := packageName(path, src)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	if err := i.Use(Symbols); err != nil {
		return nil, fmt.Errorf("load module symbols: %w", err)
	}

	if _, err := i.EvalWithContext(ctx, string(src)); err != nil {
		return nil, fmt.Errorf("interpret: %w", err)
	}

	v, err := i.EvalWithContext(ctx, pkg+"."+EntrySymbol)
	if err != nil || !v.IsValid() {
		return nil, ErrNoFactory
	}

	factory, ok := v.Interface().(func() *module.Module)
	if !ok {
		return nil, fmt.Errorf("%w (got %s)", ErrNoFactory, v.Type())
	}
	return factory(), nil
}

// packageName reads the package clause of a script
func packageName(path string, src []byte) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	return f.Name.Name, nil
}
