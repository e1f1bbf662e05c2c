package app

import (
	"context"
	"time"

	"github.com/dshills/nimble/internal/editor"
)

// eventLoop is the main application loop. Input, server messages, config
// reloads and blink ticks all arrive on one goroutine, so the editor is
// never touched concurrently.
func (app *Application) eventLoop(ctx context.Context) error {
	app.blink = time.NewTicker(app.opts.BlinkInterval)

	for {
		var ev editor.Event
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-app.done:
			return nil
		case <-app.blink.C:
			ev = editor.BlinkEvent()
		case ev = <-app.events:
		}

		if ev.Type == editor.EventConfig {
			app.applyTheme(ev.Config)
		}
		if quit := app.apply(app.editor.HandleEvent(ev)); quit {
			return ErrQuit
		}
	}
}

// apply performs an event's effects in order and reports whether the
// editor asked to quit.
func (app *Application) apply(eff editor.Effects) bool {
	for _, lang := range eff.Start {
		if err := app.servers.Start(lang); err != nil {
			app.log.Error("%v", err)
			// The editor forgets the server; its documents stay usable.
			eff.Redraw = app.applyNow(editor.ServerExitEvent(lang.ID)) || eff.Redraw
		}
	}
	for _, out := range eff.Outbound {
		if err := app.servers.Send(out.Language, out.Message); err != nil {
			app.log.Debug("%v", err)
		}
	}

	if eff.WriteClipboard {
		if err := app.clipboard.WriteAll(eff.Clipboard); err != nil {
			app.log.Warn("clipboard write: %v", err)
			app.backend.Beep()
		}
	}
	if eff.ReadClipboard {
		text, err := app.clipboard.ReadAll()
		switch {
		case err != nil:
			app.log.Warn("clipboard read: %v", err)
			app.backend.Beep()
		case text != "":
			eff.Redraw = app.applyNow(editor.PasteEvent(text)) || eff.Redraw
		}
	}

	if eff.ResetBlink && app.blink != nil {
		app.blink.Reset(app.opts.BlinkInterval)
	}
	if eff.Redraw {
		app.backend.Draw(app.editor)
	}
	return eff.Quit
}

// applyNow handles a follow-up event inside the current one and applies
// its effects except the redraw, which it reports instead.
func (app *Application) applyNow(ev editor.Event) bool {
	eff := app.editor.HandleEvent(ev)
	redraw := eff.Redraw
	eff.Redraw = false
	app.apply(eff)
	return redraw
}
