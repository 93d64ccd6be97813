package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/reactssr"
	"github.com/pthm/reactssr/lib/engine"
)

type renderFlags struct {
	engineFlags

	component   string
	props       string
	containerID string
	serverOnly  bool
	clientOnly  bool
	withInit    bool
	initJS      bool
}

func renderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one component and print its markup",
		Example: `  reactssr render -s dist/server.js --component HelloWorld --props '{"name":"Ada"}'
  reactssr render -s dist/server.js --component Page --with-init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := f.environment(nil)
			if err != nil {
				return err
			}
			defer env.Close()

			return runRender(cmd.Context(), cmd.OutOrStdout(), env, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.component, "component", "c", "", "component name, e.g. HelloWorld or Components.Card")
	cmd.Flags().StringVarP(&f.props, "props", "p", "{}", "component props as JSON")
	cmd.Flags().StringVar(&f.containerID, "container-id", "", "container element id (generated when empty)")
	cmd.Flags().BoolVar(&f.serverOnly, "server-only", false, "render static markup without a container")
	cmd.Flags().BoolVar(&f.clientOnly, "client-only", false, "skip server rendering and print the empty container")
	cmd.Flags().BoolVar(&f.withInit, "with-init", false, "append a script initializing the component")
	cmd.Flags().BoolVar(&f.initJS, "init-js", false, "append the page initialization script")
	_ = cmd.MarkFlagRequired("component")

	return cmd
}

func runRender(ctx context.Context, w io.Writer, env *engine.Environment, f renderFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !json.Valid([]byte(f.props)) {
		return fmt.Errorf("--props is not valid JSON")
	}

	req := env.Begin(ctx)
	defer req.Release()
	ctx = reactssr.WithEnvironment(ctx, req)

	var opts []reactssr.Option
	if f.containerID != "" {
		opts = append(opts, reactssr.WithContainerID(f.containerID))
	}
	if f.serverOnly {
		opts = append(opts, reactssr.ServerOnly())
	}
	if f.clientOnly {
		opts = append(opts, reactssr.ClientOnly())
	}

	render := reactssr.React
	if f.withInit {
		render = reactssr.ReactWithInit
	}
	out, err := render(ctx, f.component, json.RawMessage(f.props), opts...)
	if err != nil {
		return err
	}

	parts := []template.HTML{out}
	if f.initJS {
		init, err := reactssr.ReactInitJavaScript(ctx, false)
		if err != nil {
			return err
		}
		parts = append(parts, init)
	}
	for _, p := range parts {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
