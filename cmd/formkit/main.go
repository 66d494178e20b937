package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/httpform"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/upload"
)

func main() {
	mode := flag.String("mode", "html", "front end to run: html, tui or serve")
	definition := flag.String("definition", "", "form definition file (YAML or JSON); the demo profile form when empty")
	output := flag.String("output", "", "output file (stdout if empty)")
	format := flag.String("format", "json", "tui output format: json, form or pretty")
	preset := flag.String("preset", "", "JSON preset applied to the definition before building the form")
	action := flag.String("action", "", "form action URL for html output")
	envFile := flag.String("env", "", "env file to load (./.env when empty)")
	addr := flag.String("addr", ":8383", "HTTP listen address for serve mode")
	watch := flag.Bool("watch", false, "reload the definition when it changes (serve mode)")
	shutdownGrace := flag.Duration("grace", 5*time.Second, "shutdown grace period (serve mode)")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	outputFormat, ok := tui.ParseOutputFormat(*format)
	if !ok {
		log.Fatalf("invalid format: %q", *format)
	}

	var reader upload.Reader = upload.DataURIReader{MaxBytes: cfg.MaxFileSize}
	if cfg.PreviewCache > 0 {
		cached, err := upload.NewCachedReader(reader, cfg.PreviewCache)
		if err != nil {
			log.Fatalf("Failed to build preview cache: %v", err)
		}
		reader = cached
	}

	htmlRenderer, err := html.New(html.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to build html renderer: %v", err)
	}
	tuiRenderer, err := tui.New(
		tui.WithStdio(terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}),
		tui.WithOutputFormat(outputFormat),
		tui.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to build tui renderer: %v", err)
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(render.NewRegistry(htmlRenderer, tuiRenderer)),
		orchestrator.WithFormOptions(
			form.WithLogger(logger),
			form.WithUploadReader(reader),
			form.WithDefaultMaxFileSize(cfg.MaxFileSize),
			form.WithDefaultAllowedTypes(cfg.Types()...),
			form.WithRejectHandler(func(field string, rejection upload.Rejection) {
				logger.Warn("file rejected", "field", field, "file", rejection.File.Name, "reason", rejection.Reason)
			}),
		),
	}
	if *preset != "" {
		fsys, name := splitPath(*preset)
		transformer, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, name)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		options = append(options, orchestrator.WithDefinitionTransformer(transformer))
	}

	req := orchestrator.Request{
		Renderer:      strings.ToLower(strings.TrimSpace(*mode)),
		RenderOptions: render.RenderOptions{Action: *action},
	}
	if *definition != "" {
		req.Source, req.Path = splitPath(*definition)
	}

	gen := orchestrator.New(options...)
	if strings.EqualFold(*mode, "serve") {
		serve(gen, req, htmlRenderer, logger, serveConfig{
			addr:       *addr,
			definition: *definition,
			watch:      *watch,
			grace:      *shutdownGrace,
		})
		return
	}

	result, err := gen.Generate(context.Background(), req)
	if err != nil {
		log.Fatalf("Failed to generate form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, result, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(result))
	}
}

type serveConfig struct {
	addr       string
	definition string
	watch      bool
	grace      time.Duration
}

func serve(gen *orchestrator.Orchestrator, req orchestrator.Request, renderer render.Renderer, logger *slog.Logger, cfg serveConfig) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := httpform.New(
		func() (*form.Form, error) { return gen.Build(ctx, req) },
		httpform.WithRenderer(renderer),
		httpform.WithRenderOptions(req.RenderOptions),
		httpform.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}
	defer handler.Close()

	if cfg.watch {
		if cfg.definition == "" {
			log.Fatalf("-watch requires -definition")
		}
		if err := handler.Watch(ctx, cfg.definition); err != nil {
			log.Fatalf("Failed to watch definition: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              cfg.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s", cfg.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Fatalf("listen: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.grace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func splitPath(path string) (fs.FS, string) {
	return os.DirFS(filepath.Dir(path)), filepath.Base(path)
}
