/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"arrowsandbox/internal/config"
	"arrowsandbox/internal/crash"
	"arrowsandbox/internal/domain"
	applog "arrowsandbox/internal/log"
	"arrowsandbox/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Arrow Sandbox")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  arrowsandbox version|-v|--version              Show version")
	_, _ = fmt.Fprintln(w, "  arrowsandbox init                              Write the config file and seed the demo scene")
	_, _ = fmt.Fprintln(w, "  arrowsandbox show                              Print boxes, links and selection")
	_, _ = fmt.Fprintln(w, "  arrowsandbox box <x> <y> <w> <h> [id]          Create a box")
	_, _ = fmt.Fprintln(w, "  arrowsandbox link <from> <to> [bow] [id]       Create a link between two boxes")
	_, _ = fmt.Fprintln(w, "  arrowsandbox select [id...]                    Replace the box selection")
	_, _ = fmt.Fprintln(w, "  arrowsandbox align <left|right|top|bottom|centerX|centerY>")
	_, _ = fmt.Fprintln(w, "  arrowsandbox distribute <horizontal|vertical>")
	_, _ = fmt.Fprintln(w, "  arrowsandbox stretch <horizontal|vertical>")
	_, _ = fmt.Fprintln(w, "  arrowsandbox delete                            Delete the selection")
	_, _ = fmt.Fprintln(w, "  arrowsandbox replay <script.yaml>...           Replay gesture scripts")
	_, _ = fmt.Fprintln(w, "  arrowsandbox export <png|svg|pdf> <file>       Export the scene")
	_, _ = fmt.Fprintln(w, "  arrowsandbox export <web|print> [dir]          Export with a preset")
	_, _ = fmt.Fprintln(w, "  arrowsandbox password [value]                  Store the Postgres password in the keychain (empty clears)")
	_, _ = fmt.Fprintln(w, "  arrowsandbox ui                                Launch desktop UI (build with -tags fyne)")
}

func main() {
	cfg, cerr := config.Load()
	applog.Init(logOptions(cfg.Logging))
	l := applog.WithComponent("cli")
	if cerr != nil {
		l.Warn("config file ignored", slog.Any("err", cerr))
	}

	session := &crash.Session{}
	if dir, err := config.DataDir(); err == nil {
		session.Dir = dir
	}
	defer crash.Recover(session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, cfg, os.Args[1:], os.Stdout, session)
	stop()
	os.Exit(code)
}

func logOptions(c config.LoggingConfig) applog.Options {
	return applog.Options{Level: c.Level, Format: c.Format, AddSource: c.Source, File: c.File}
}

// run executes one command and returns the process exit code: 0 on success,
// 1 when the command failed and 2 on a usage error.
func run(ctx context.Context, cfg config.AppConfig, args []string, out io.Writer, session *crash.Session) int {
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(out)
		return 0
	}
	name, rest := args[0], args[1:]
	switch name {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, "Arrow Sandbox")
		_, _ = fmt.Fprintln(out, version.String())
		return 0
	case "help", "--help", "-h":
		usage(out)
		return 0
	case "password":
		pw := ""
		if len(rest) > 0 {
			pw = rest[0]
		}
		if err := config.SetStoragePassword(pw); err != nil {
			return fail(out, l, name, err)
		}
		if pw == "" {
			_, _ = fmt.Fprintln(out, "Storage password removed.")
		} else {
			_, _ = fmt.Fprintln(out, "Storage password saved to the OS keychain.")
		}
		return 0
	}

	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(out, "unknown command %q\n", name)
		usage(out)
		return 2
	}
	if len(rest) < cmd.minArgs {
		_, _ = fmt.Fprintf(out, "%s requires %s\n", name, cmd.args)
		return 2
	}

	a, err := openApp(ctx, cfg, out)
	if err != nil {
		return fail(out, l, name, err)
	}
	defer func() {
		if err := a.close(); err != nil {
			l.Warn("close store failed", slog.Any("err", err))
		}
	}()
	if session != nil {
		session.Document = func() (domain.Document, bool) { return a.m.Document(), true }
	}

	l = applog.WithOperation(l, name)
	if err := cmd.run(ctx, a, rest); err != nil {
		if isUsage(err) {
			_, _ = fmt.Fprintln(out, "Error:", err)
			return 2
		}
		return fail(out, l, name, err)
	}
	return 0
}

func fail(out io.Writer, l *slog.Logger, name string, err error) int {
	l.Error("command failed", slog.String("cmd", name), slog.Any("err", err))
	_, _ = fmt.Fprintln(out, "Error:", err)
	return 1
}
