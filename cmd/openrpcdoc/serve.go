// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/woozymasta/openrpcdoc/internal/server"
)

// serveOptions holds serve command settings that are not render flags.
type serveOptions struct {
	Listen    string
	Input     string
	Watch     bool
	LogLevel  string
	LogFormat string
}

// runServe loads the document, starts the HTTP server and blocks until a shutdown signal.
func (runner *cliRunner) runServe(opts serveOptions, templateFlags templateSelectFlags, renderFlags markdownRenderFlags) error {
	logger, err := newLogger(runner.stderr, opts.LogLevel, opts.LogFormat)
	if err != nil {
		return err
	}

	renderOptions, err := buildRenderOptions(opts.Input, templateFlags, renderFlags, exampleRenderFlags{})
	if err != nil {
		return err
	}

	holder, err := server.NewHolder(opts.Input, renderOptions, logger)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	defer holder.Stop()

	if opts.Watch {
		if err := holder.WatchFile(); err != nil {
			return fmt.Errorf("watch document: %w", err)
		}
	}

	if opts.Input != "" {
		holder.WatchSignals()
	}

	snapshot := holder.Get()
	logger.Info().
		Str("source", snapshot.Source).
		Str("revision", snapshot.Revision).
		Int("methods", len(snapshot.Document.Methods)).
		Int("schemas", len(snapshot.Document.Schemas)).
		Int("issues", len(snapshot.Report.Issues)).
		Msg("document loaded")

	ctx, cancel := runner.signalContext()
	defer cancel()

	srv := server.New(holder, server.NewMetrics(), nil, logger)
	return srv.Run(ctx, opts.Listen)
}

// newLogger builds a zerolog logger writing JSON or console lines to output.
func newLogger(output io.Writer, level, format string) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}

	if format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).Level(parsed).With().Timestamp().Logger(), nil
}
