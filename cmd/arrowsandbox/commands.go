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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"arrowsandbox/internal/config"
	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/export"
	"arrowsandbox/internal/interact"
	applog "arrowsandbox/internal/log"
	"arrowsandbox/internal/script"
	"arrowsandbox/internal/storage"
	"arrowsandbox/internal/transform"
	"arrowsandbox/internal/ui"
)

// app is the loaded scene plus the store it came from.
type app struct {
	cfg    config.AppConfig
	out    io.Writer
	store  storage.Store
	doc    domain.Document
	m      *interact.Machine
	seeded bool
}

func openApp(ctx context.Context, cfg config.AppConfig, out io.Writer) (*app, error) {
	st, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	doc, seeded, err := storage.LoadOrDemo(ctx, st, cfg.Storage.Key)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load scene: %w", err)
	}
	scene, err := domain.LoadScene(doc)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load scene: %w", err)
	}
	m := interact.NewMachine(scene, doc.SelectedBoxIDs, interact.Options{
		Saver:         &storage.Saver{Store: st, Key: cfg.Storage.Key, Ctx: ctx},
		DragThreshold: cfg.Editor.DragThreshold,
		EdgePadding:   cfg.Editor.EdgePadding,
	})
	return &app{cfg: cfg, out: out, store: st, doc: doc, m: m, seeded: seeded}, nil
}

func (a *app) close() error { return a.store.Close() }

func (a *app) printf(format string, args ...any) { _, _ = fmt.Fprintf(a.out, format, args...) }

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func isUsage(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

func badArg(format string, args ...any) error { return usageError{fmt.Sprintf(format, args...)} }

type command struct {
	args    string
	minArgs int
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"init":       {run: cmdInit},
	"show":       {run: cmdShow},
	"box":        {args: "<x> <y> <w> <h> [id]", minArgs: 4, run: cmdBox},
	"link":       {args: "<from> <to> [bow] [id]", minArgs: 2, run: cmdLink},
	"select":     {run: cmdSelect},
	"align":      {args: "<alignment>", minArgs: 1, run: cmdAlign},
	"distribute": {args: "<axis>", minArgs: 1, run: cmdDistribute},
	"stretch":    {args: "<axis>", minArgs: 1, run: cmdStretch},
	"delete":     {run: cmdDelete},
	"replay":     {args: "<script.yaml>", minArgs: 1, run: cmdReplay},
	"export":     {args: "<format> <file|dir>", minArgs: 1, run: cmdExport},
	"ui":         {run: cmdUI},
}

func floatsArg(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, badArg("not a number: %q", s)
		}
		out[i] = f
	}
	return out, nil
}

func cmdInit(ctx context.Context, a *app, _ []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.SaveTo(path, a.cfg); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		a.printf("Wrote config to %s\n", path)
	}
	if a.seeded {
		if err := storage.SaveDocument(ctx, a.store, a.cfg.Storage.Key, a.doc); err != nil {
			return err
		}
		a.printf("Stored the demo scene under %q (%s store)\n", a.cfg.Storage.Key, a.cfg.Storage.Driver)
		return nil
	}
	a.printf("Scene %q already exists; left unchanged\n", a.cfg.Storage.Key)
	return nil
}

func cmdShow(_ context.Context, a *app, _ []string) error {
	scene := a.m.Scene()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Boxes (%d)\n", scene.BoxCount())
	_, _ = fmt.Fprintln(tw, "ID\tX\tY\tW\tH\tLINKS")
	for _, b := range scene.Boxes() {
		_, _ = fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%v\n", b.ID, b.X, b.Y, b.W, b.H, scene.IncidentLinks(b.ID))
	}
	_, _ = fmt.Fprintf(tw, "\nLinks (%d)\n", scene.LinkCount())
	_, _ = fmt.Fprintln(tw, "ID\tFROM\tTO\tBOW")
	for _, l := range scene.Links() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", l.ID, l.From, l.To, l.Bow())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("\nSelected: %v\n", a.m.SelectedBoxIDs())
	if a.seeded {
		a.printf("(demo scene, not stored yet)\n")
	}
	return nil
}

func cmdBox(_ context.Context, a *app, args []string) error {
	v, err := floatsArg(args[:4])
	if err != nil {
		return err
	}
	id := ""
	if len(args) > 4 {
		id = args[4]
	}
	b, err := a.m.CreateBox(v[0], v[1], v[2], v[3], id)
	if err != nil {
		return err
	}
	a.printf("Created box %s\n", b.ID)
	return nil
}

func cmdLink(_ context.Context, a *app, args []string) error {
	bow, id := 0.0, ""
	if len(args) > 2 {
		v, err := floatsArg(args[2:3])
		if err != nil {
			return err
		}
		bow = v[0]
	}
	if len(args) > 3 {
		id = args[3]
	}
	l, err := a.m.CreateLink(args[0], args[1], bow, id)
	if err != nil {
		return err
	}
	a.printf("Created link %s (%s -> %s)\n", l.ID, l.From, l.To)
	return nil
}

func cmdSelect(_ context.Context, a *app, args []string) error {
	if err := a.m.Select(args...); err != nil {
		return err
	}
	a.printf("Selected: %v\n", a.m.SelectedBoxIDs())
	return nil
}

func needSelected(a *app, n int, what string) bool {
	if len(a.m.SelectedBoxIDs()) < n {
		a.printf("%s needs at least %d selected boxes; nothing changed\n", what, n)
		return false
	}
	return true
}

func cmdAlign(_ context.Context, a *app, args []string) error {
	al, err := transform.ParseAlignment(args[0])
	if err != nil {
		return badArg("%v", err)
	}
	if !needSelected(a, 2, "align") {
		return nil
	}
	if err := a.m.Align(al); err != nil {
		return err
	}
	a.printf("Aligned %d boxes %s\n", len(a.m.SelectedBoxIDs()), al)
	return nil
}

func cmdDistribute(_ context.Context, a *app, args []string) error {
	axis, err := transform.ParseAxis(args[0])
	if err != nil {
		return badArg("%v", err)
	}
	if !needSelected(a, 3, "distribute") {
		return nil
	}
	if err := a.m.Distribute(axis); err != nil {
		return err
	}
	a.printf("Distributed %d boxes %s\n", len(a.m.SelectedBoxIDs()), axis)
	return nil
}

func cmdStretch(_ context.Context, a *app, args []string) error {
	axis, err := transform.ParseAxis(args[0])
	if err != nil {
		return badArg("%v", err)
	}
	if !needSelected(a, 2, "stretch") {
		return nil
	}
	if err := a.m.Stretch(axis); err != nil {
		return err
	}
	a.printf("Stretched %d boxes %s\n", len(a.m.SelectedBoxIDs()), axis)
	return nil
}

func cmdDelete(_ context.Context, a *app, _ []string) error {
	boxes, links := len(a.m.SelectedBoxIDs()), len(a.m.SelectedLinkIDs())
	if err := a.m.DeleteSelection(); err != nil {
		return err
	}
	a.printf("Deleted %d boxes and %d links\n", boxes, links)
	return nil
}

func cmdReplay(ctx context.Context, a *app, args []string) error {
	p := script.NewPlayer(a.m, a.cfg.Editor.PixelRatio)
	for _, path := range args {
		s, err := script.ParseFile(path)
		if err != nil {
			return err
		}
		if err := p.Run(ctx, s); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		a.printf("Replayed %s (%d steps)\n", path, len(s.Steps))
	}
	return nil
}

func cmdExport(_ context.Context, a *app, args []string) error {
	scene := a.m.Scene()
	switch preset := export.PresetName(args[0]); preset {
	case export.PresetWeb, export.PresetPrint:
		dir := a.cfg.Export.OutDir
		if len(args) > 1 {
			dir = args[1]
		}
		files, err := export.BatchExport(scene, export.BatchOptions{Preset: preset, OutDir: dir})
		if err != nil {
			return err
		}
		for _, f := range files {
			a.printf("Wrote %s\n", f)
		}
		return nil
	}
	f, err := export.ParseFormat(args[0])
	if err != nil {
		return badArg("%v", err)
	}
	if len(args) < 2 {
		return badArg("export %s requires <file>", f)
	}
	opt := export.Options{Margin: a.cfg.Export.Margin, Scale: a.cfg.Export.Scale, Labels: a.cfg.Export.Labels}
	if err := export.ToFile(args[1], f, scene, opt); err != nil {
		return err
	}
	applog.WithComponent("cli").Info("exported", slog.String("format", string(f)), slog.String("path", args[1]))
	a.printf("Wrote %s\n", args[1])
	return nil
}

func cmdUI(ctx context.Context, a *app, _ []string) error {
	return ui.Run(ctx, ui.Options{
		Config:   a.cfg,
		Document: a.m.Document(),
		Saver:    &storage.Saver{Store: a.store, Key: a.cfg.Storage.Key, Ctx: ctx},
	})
}
