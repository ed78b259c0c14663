//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/export"
	"arrowsandbox/internal/interact"
	applog "arrowsandbox/internal/log"
	"arrowsandbox/internal/render"
	"arrowsandbox/internal/transform"
	"arrowsandbox/internal/vector"
)

// Run opens the editor window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	scene, err := domain.LoadScene(opts.Document)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	fyneApp := app.NewWithID("arrowsandbox")
	w := fyneApp.NewWindow("Arrow Sandbox")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", max(opts.Config.Editor.Width, 800))
	winH := prefs.IntWithFallback("window.height", max(opts.Config.Editor.Height, 600))
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	sc := newSceneCanvas(opts.Config.Editor.PixelRatio, opts.Config.Editor.Labels)
	m := interact.NewMachine(scene, opts.Document.SelectedBoxIDs, interact.Options{
		Renderer:      sc,
		Saver:         opts.Saver,
		Logger:        l,
		DragThreshold: opts.Config.Editor.DragThreshold,
		EdgePadding:   opts.Config.Editor.EdgePadding,
	})
	sc.m = m
	sc.onChange = func(err error) {
		if err != nil {
			l.Error("interaction failed", slog.Any("err", err))
			status.SetText("Error: " + err.Error())
			return
		}
		status.SetText(statusLine(m))
	}

	command := func(name string, fn func() error) func() {
		return func() {
			err := fn()
			if err != nil {
				l.Error("command failed", slog.String("cmd", name), slog.Any("err", err))
			}
			sc.onChange(err)
			sc.Refresh()
		}
	}
	alignButton := func(label string, a transform.Alignment) *widget.Button {
		return widget.NewButton(label, command("align", func() error { return m.Align(a) }))
	}
	toolbar := container.NewHBox(
		alignButton("Left", transform.AlignLeft),
		alignButton("Center X", transform.AlignCenterX),
		alignButton("Right", transform.AlignRight),
		alignButton("Top", transform.AlignTop),
		alignButton("Center Y", transform.AlignCenterY),
		alignButton("Bottom", transform.AlignBottom),
		widget.NewSeparator(),
		widget.NewButton("Distribute H", command("distribute", func() error { return m.Distribute(transform.Horizontal) })),
		widget.NewButton("Distribute V", command("distribute", func() error { return m.Distribute(transform.Vertical) })),
		widget.NewButton("Stretch H", command("stretch", func() error { return m.Stretch(transform.Horizontal) })),
		widget.NewButton("Stretch V", command("stretch", func() error { return m.Stretch(transform.Vertical) })),
		widget.NewSeparator(),
		widget.NewButton("New Box", command("box", func() error {
			_, err := m.CreateBox(40, 40, 100, 100, "")
			return err
		})),
		widget.NewButton("Link", command("link", func() error {
			ids := m.SelectedBoxIDs()
			if len(ids) != 2 {
				return errors.New("select exactly two boxes to link")
			}
			_, err := m.CreateLink(ids[0], ids[1], 0, "")
			return err
		})),
		widget.NewButton("Delete", command("delete", m.DeleteSelection)),
		widget.NewSeparator(),
		widget.NewButton("Export…", func() { showExportDialog(w, m, opts, l, status) }),
	)

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if deleteKey(ev.Name) {
			command("delete", m.DeleteSelection)()
		}
	})
	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) { sc.modifierKey(ev.Name, true) })
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { sc.modifierKey(ev.Name, false) })
	}

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, sc))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})
	stop := quitOnDone(ctx, func() { fyne.Do(fyneApp.Quit) })
	defer stop()

	status.SetText(statusLine(m))
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

func showExportDialog(w fyne.Window, m *interact.Machine, opts Options, l *slog.Logger, status *widget.Label) {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if wc == nil {
			return
		}
		defer func() { _ = wc.Close() }()
		f, err := export.ParseFormat(wc.URI().Extension())
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		eo := export.Options{Margin: opts.Config.Export.Margin, Scale: opts.Config.Export.Scale, Labels: opts.Config.Export.Labels}
		if err := export.Write(wc, f, m.Scene(), eo); err != nil {
			l.Error("export failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		l.Info("exported", slog.String("uri", wc.URI().String()))
		status.SetText("Exported " + wc.URI().Name())
	}, w)
	d.SetFileName("scene.png")
	d.Show()
}

// SceneCanvas shows the scene and its overlay as two stacked rasters and
// feeds pointer input to the machine. Scene units are canvas units.
type SceneCanvas struct {
	widget.BaseWidget

	m        *interact.Machine
	tracker  *interact.PointerTracker
	dpr      float64
	labels   bool
	onChange func(error)

	size    fyne.Size
	scene   *render.Raster
	overlay *render.Raster
	painter *render.Painter

	sceneImg   *canvas.Image
	overlayImg *canvas.Image
}

var (
	_ interact.Renderer  = (*SceneCanvas)(nil)
	_ desktop.Mouseable  = (*SceneCanvas)(nil)
	_ desktop.Hoverable  = (*SceneCanvas)(nil)
	_ desktop.Cursorable = (*SceneCanvas)(nil)
)

func newSceneCanvas(dpr float64, labels bool) *SceneCanvas {
	if dpr <= 0 {
		dpr = 1
	}
	sc := &SceneCanvas{tracker: interact.NewPointerTracker(dpr), dpr: dpr, labels: labels}
	sc.allocate(fyne.NewSize(1, 1))
	sc.sceneImg = canvas.NewImageFromImage(sc.scene.Image())
	sc.overlayImg = canvas.NewImageFromImage(sc.overlay.Image())
	for _, img := range []*canvas.Image{sc.sceneImg, sc.overlayImg} {
		img.FillMode = canvas.ImageFillStretch
		img.ScaleMode = canvas.ImageScaleFastest
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

// allocate replaces both rasters with ones covering size.
func (sc *SceneCanvas) allocate(size fyne.Size) {
	frame := vector.Rect{W: float64(max(size.Width, 1)), H: float64(max(size.Height, 1))}
	sc.size = size
	sc.scene = render.NewRaster(frame, sc.dpr)
	sc.overlay = render.NewRaster(frame, sc.dpr)
	sc.painter = render.NewPainter(sc.scene, sc.overlay, render.Options{Labels: sc.labels})
}

func (sc *SceneCanvas) Render(scene *domain.Scene) {
	sc.painter.Render(scene)
	sc.sceneImg.Image = sc.scene.Image()
	sc.sceneImg.Refresh()
}

func (sc *SceneCanvas) RenderOverlay(o interact.Overlay) {
	sc.painter.RenderOverlay(o)
	sc.overlayImg.Image = sc.overlay.Image()
	sc.overlayImg.Refresh()
}

func (sc *SceneCanvas) send(ev interact.Event) {
	if sc.m == nil {
		return
	}
	err := sc.m.Send(ev)
	if sc.onChange != nil {
		sc.onChange(err)
	}
}

func (sc *SceneCanvas) MouseIn(e *desktop.MouseEvent) { sc.MouseMoved(e) }

func (sc *SceneCanvas) MouseMoved(e *desktop.MouseEvent) {
	sc.send(sc.tracker.Move(float64(e.Position.X), float64(e.Position.Y), keysFrom(e.Modifier)))
}

func (sc *SceneCanvas) MouseOut() {}

func (sc *SceneCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	k := keysFrom(e.Modifier)
	sc.tracker.Move(float64(e.Position.X), float64(e.Position.Y), k)
	sc.send(sc.tracker.Down(k))
}

func (sc *SceneCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	sc.send(sc.tracker.Up(keysFrom(e.Modifier)))
}

func (sc *SceneCanvas) Cursor() desktop.Cursor {
	if sc.m == nil {
		return desktop.DefaultCursor
	}
	return desktopCursor(sc.m.Cursor())
}

// modifierKey keeps shift/meta/alt current between pointer events.
func (sc *SceneCanvas) modifierKey(name fyne.KeyName, down bool) {
	k := sc.tracker.Keys()
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		k.Shift = down
	case desktop.KeySuperLeft, desktop.KeySuperRight, desktop.KeyControlLeft, desktop.KeyControlRight:
		k.Meta = down
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		k.Alt = down
	default:
		return
	}
	sc.tracker.SetKeys(k)
}

func (sc *SceneCanvas) MinSize() fyne.Size { return fyne.NewSize(400, 300) }

func (sc *SceneCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &sceneCanvasRenderer{sc: sc, bg: bg, objects: []fyne.CanvasObject{bg, sc.sceneImg, sc.overlayImg}}
}

type sceneCanvasRenderer struct {
	sc      *SceneCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *sceneCanvasRenderer) Destroy()                     {}
func (r *sceneCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sceneCanvasRenderer) MinSize() fyne.Size           { return r.sc.MinSize() }
func (r *sceneCanvasRenderer) Refresh()                     { canvas.Refresh(r.sc) }

func (r *sceneCanvasRenderer) Layout(size fyne.Size) {
	for _, o := range r.objects {
		o.Resize(size)
		o.Move(fyne.NewPos(0, 0))
	}
	if size != r.sc.size {
		r.sc.allocate(size)
		if r.sc.m != nil {
			r.sc.m.Redraw()
		}
	}
}
