package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pthm/reactssr"
)

type serveFlags struct {
	engineFlags

	addr   string
	page   string
	assets string
	prefix string
}

func serveCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an html/template page rendered with the react helpers",
		Long: `serve renders the page template for every GET request. The template can
call react, reactWithInit, reactInitJavaScript, reactScriptPaths and
reactStylePaths; its data is the request. Prometheus metrics are served
on /metrics.`,
		Example: `  reactssr serve -s dist/server.js --page index.tmpl --assets dist --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			env, logger, err := f.environment(reg)
			if err != nil {
				return err
			}
			defer env.Close()

			page, err := parsePage(f.page)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              f.addr,
				Handler:           newRouter(env, page, reg, f.assets, reactssr.PathPrefix(f.prefix), logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listen(ctx, srv, logger)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&f.page, "page", "", "html/template page to render")
	cmd.Flags().StringVar(&f.assets, "assets", "", "directory served under /assets/")
	cmd.Flags().StringVar(&f.prefix, "path-prefix", "/", `URL prefix replacing "~/" in script and style paths`)
	_ = cmd.MarkFlagRequired("page")

	return cmd
}

// parsePage parses the page template with the helper names declared. The
// helpers are rebound to each request's context before executing.
func parsePage(path string) (*template.Template, error) {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(reactssr.FuncMap(context.Background())).
		ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return tmpl, nil
}

// pageData is what the page template executes against.
type pageData struct {
	Request  *http.Request
	Resolver reactssr.URLResolver
}

func newRouter(factory reactssr.EnvironmentFactory, page *template.Template, reg *prometheus.Registry, assets string, resolver reactssr.URLResolver, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if assets != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assets))))
	}

	r.Group(func(r chi.Router) {
		r.Use(reactssr.Middleware(factory))
		r.Get("/*", pageHandler(page, resolver, logger))
	})
	return r
}

func pageHandler(page *template.Template, resolver reactssr.URLResolver, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := reactssr.LoggingContext(r.Context(), logger)

		tmpl, err := page.Clone()
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		tmpl.Funcs(reactssr.FuncMap(ctx))

		// render fully before writing so a failed component yields a clean 500
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, pageData{Request: r, Resolver: resolver}); err != nil {
			logger.ErrorContext(ctx, "render page failed",
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(ctx),
				"error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, reactssr.ErrComponentNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, http.StatusText(status), status)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

func listen(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
