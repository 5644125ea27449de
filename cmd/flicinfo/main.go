/*
NAME
  flicinfo

DESCRIPTION
  flicinfo prints a one-line summary of the file header of a FLI/FLC
  animation file; it does not list per-frame chunks. With -decode it
  also decodes every frame, and with -watch it re-reports whenever the
  file is rewritten, useful while iterating on an encoder.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

// Command flicinfo inspects FLI/FLC animation files from the command
// line.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/flic"
)

// Logging related defaults, in the style of a long-running ausocean
// service: rotate at a fixed size rather than grow unbounded.
const (
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logSuppress  = true
)

// watchDebounce coalesces the burst of write events a single save can
// raise (most editors write, chmod, and rename in quick succession)
// into one report.
const watchDebounce = 200 * time.Millisecond

func main() {
	logFile := flag.String("logfile", "", "path to write logs to (rotated); empty logs to stderr only")
	verbose := flag.Bool("v", false, "debug-level logging")
	watch := flag.Bool("watch", false, "re-report whenever the file changes")
	decode := flag.Bool("decode", false, "decode every frame to verify it is well formed")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: flicinfo [flags] file.flc")
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := logging.Info
	if *verbose {
		level = logging.Debug
	}

	var w *os.File = os.Stderr
	var l logging.Logger
	if *logFile != "" {
		fileLog := &lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		l = logging.New(level, fileLog, logSuppress)
	} else {
		l = logging.New(level, w, logSuppress)
	}

	if err := report(path, *decode, l); err != nil {
		l.Fatal("report failed", "path", path, "error", err)
	}

	if !*watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		l.Fatal("could not start watcher", "error", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		l.Fatal("could not watch file", "path", path, "error", err)
	}

	// A single save can raise several Write or Create events in quick
	// succession; a timer that keeps getting reset until the file goes
	// quiet collapses them into one report. Other event kinds are
	// ignored.
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		var fire <-chan time.Time
		if debounce != nil {
			fire = debounce.C
		}
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				if !debounce.Stop() {
					<-debounce.C
				}
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.Error("watcher error", "error", err)
		case <-fire:
			debounce = nil
			if err := report(path, *decode, l); err != nil {
				l.Error("report failed", "path", path, "error", err)
			}
		}
	}
}

// report opens path, prints a one-line header summary, and, if decode
// is set, decodes every frame, the ring frame included, to confirm it
// is well formed.
func report(path string, decode bool, l logging.Logger) error {
	f, err := flic.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr := f.Header()
	kind := "FLI"
	if hdr.IsFLC() {
		kind = "FLC"
	}
	fmt.Printf("%s: %dx%d, %d frames, depth %d, flags %#04x\n",
		kind, hdr.Width, hdr.Height, hdr.FrameCount, hdr.Depth, hdr.Flags)

	if !decode {
		return nil
	}

	buf := make([]byte, hdr.Width*hdr.Height)
	pal := make([]byte, flic.PaletteSize)
	raster := flic.NewRasterMut(hdr.Width, hdr.Height, buf, pal)

	for i := 0; i <= int(hdr.FrameCount); i++ {
		res, err := f.ReadNextFrame(raster)
		if err != nil {
			return err
		}
		l.Debug("decoded frame", "index", i, "paletteUpdated", res.PaletteUpdated)
		if res.Looped {
			l.Debug("animation looped")
		}
	}
	return nil
}
