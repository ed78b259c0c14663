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
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"arrowsandbox/internal/config"
	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/interact"
)

// Options is what the window needs to edit one stored scene.
type Options struct {
	Config   config.AppConfig
	Document domain.Document
	// Saver receives the document after every committed change. Nil keeps
	// changes in memory.
	Saver interact.Saver
}

// keysFrom maps fyne modifiers onto the machine's key state. Control counts
// as meta so the gesture modifiers work on keyboards without a super key.
func keysFrom(mod fyne.KeyModifier) interact.Keys {
	return interact.Keys{
		Shift: mod&fyne.KeyModifierShift != 0,
		Meta:  mod&(fyne.KeyModifierSuper|fyne.KeyModifierControl) != 0,
		Alt:   mod&fyne.KeyModifierAlt != 0,
	}
}

// desktopCursor picks the closest cursor fyne offers. Fyne has no diagonal
// resize cursors.
func desktopCursor(c interact.Cursor) desktop.Cursor {
	switch c {
	case interact.CursorNSResize:
		return desktop.VResizeCursor
	case interact.CursorEWResize:
		return desktop.HResizeCursor
	case interact.CursorNWSEResize, interact.CursorNESWResize:
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

// statusLine summarises the machine for the status bar.
func statusLine(m *interact.Machine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %d boxes, %d links", m.State(), m.Scene().BoxCount(), m.Scene().LinkCount())
	if ids := m.SelectedBoxIDs(); len(ids) > 0 {
		fmt.Fprintf(&b, " | boxes: %s", strings.Join(ids, ", "))
	}
	if ids := m.SelectedLinkIDs(); len(ids) > 0 {
		fmt.Fprintf(&b, " | links: %s", strings.Join(ids, ", "))
	}
	return b.String()
}

// deleteKey reports whether a typed key removes the selection.
func deleteKey(k fyne.KeyName) bool {
	return k == fyne.KeyDelete || k == fyne.KeyBackspace
}

// quitOnDone calls quit once ctx is cancelled. The returned func stops the
// watcher.
func quitOnDone(ctx context.Context, quit func()) func() {
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			quit()
		case <-stop:
		}
	}()
	return func() { close(stop) }
}
