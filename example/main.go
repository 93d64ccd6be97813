// Command example serves a todo list rendered on the server by reactssr and
// hydrated in the browser.
package main

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"os"

	"github.com/pthm/reactssr"
	"github.com/pthm/reactssr/lib/engine"
)

//go:embed static views
var files embed.FS

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	cfg.Scripts = []string{"static/runtime.js", "static/components.js"}

	env, err := engine.New(cfg,
		engine.WithFiles(files),
		engine.WithLogger(logger),
		engine.WithExceptionHandler(func(err error, component, containerID string) {
			logger.Warn("component failed, rendering client-side", "component", component, "error", err)
		}))
	if err != nil {
		logger.Error("start engines", "error", err)
		os.Exit(1)
	}
	defer env.Close()

	pages := template.Must(template.New("").
		Funcs(reactssr.FuncMap(context.Background())).
		ParseFS(files, "views/*.tmpl"))

	addr := ":8080"
	logger.Info("starting server", "url", "http://localhost"+addr)
	if err := http.ListenAndServe(addr, newHandler(env, NewStore(), pages, logger)); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
