package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/notebook"
	"github.com/pterm/pterm"
)

// settle is the time to wait after a change before converting again.
// Editors tend to write a file in more than one step.
const settle = 200 * time.Millisecond

// watchInput converts the input of j again whenever it or its metadata
// file changes, until ctx is done.
func watchInput(ctx context.Context, j *job) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot watch %s", j.input)
	}
	defer w.Close()
	// Watch the folder, as editors may replace files instead of writing them.
	if err = w.Add(filepath.Dir(j.input)); err != nil {
		return core.WrapError(err, core.EMISSING, "cannot watch %s", j.input)
	}
	watched := map[string]bool{
		filepath.Clean(j.input):                       true,
		filepath.Clean(notebook.SidecarPath(j.input)): true,
	}
	pterm.Info.Printfln("Watching %s, stop with <ctrl>C", j.input)
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			pterm.Info.Println("Good bye!")
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if watched[filepath.Clean(ev.Name)] && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				tracer().Debugf("%s changed: %s", ev.Name, ev.Op)
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			tracer().Errorf("watching %s: %v", j.input, err)
		case <-timer.C:
			rep, err := j.run(ctx)
			if err != nil {
				pterm.Error.Println(err.Error())
				continue
			}
			rep.print()
		}
	}
}
