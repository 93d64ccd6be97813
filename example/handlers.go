package main

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pthm/reactssr"
)

type indexPage struct {
	Title   string
	Props   todoListProps
	Credits map[string]string
}

type todoListProps struct {
	Title string `json:"title"`
	Todos []Todo `json:"todos"`
}

func newHandler(factory reactssr.EnvironmentFactory, store *Store, pages *template.Template, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.FileServerFS(files))
	mux.HandleFunc("GET /{$}", handleIndex(store, pages, logger))
	mux.HandleFunc("POST /todos", handleAdd(store))
	mux.HandleFunc("POST /todos/{id}/toggle", handleToggle(store))
	mux.HandleFunc("POST /todos/{id}/delete", handleDelete(store))

	return reactssr.Middleware(factory)(mux)
}

func handleIndex(store *Store, pages *template.Template, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := r.URL.Query().Get("tag")
		title := "All todos"
		if tag != "" {
			title = "Todos tagged " + tag
		}
		page := indexPage{
			Title:   title,
			Props:   todoListProps{Title: title, Todos: store.List(tag)},
			Credits: map[string]string{"by": "reactssr"},
		}

		ctx := reactssr.LoggingContext(r.Context(), logger)
		tmpl, err := pages.Clone()
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		tmpl.Funcs(reactssr.FuncMap(ctx))

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, "index.tmpl", page); err != nil {
			logger.ErrorContext(ctx, "render index", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

func handleAdd(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		var tags []string
		for _, tag := range strings.Split(r.FormValue("tags"), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		store.Add(title, tags...)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func handleToggle(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Toggle(r.PathValue("id")) {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Delete(r.PathValue("id")) {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
