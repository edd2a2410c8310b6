package model

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/grafika/pkg/formats"
)

// DefaultReloadDelay coalesces bursts of write events from editors.
const DefaultReloadDelay = 150 * time.Millisecond

// Reload is the result of re-reading a watched mesh file.
type Reload struct {
	Path   string
	Mesh   *formats.MeshData
	Buffer *Buffer
	Err    error
}

// LoadBuffer loads an OBJ file and builds it with the given layout.
// On IO failure the returned buffer is empty and err wraps formats.ErrMeshIO.
func LoadBuffer(path string, layout Layout, opts BuildOptions, log *zap.Logger) (*formats.MeshData, *Buffer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	mesh, loadErr := formats.LoadOBJ(path, formats.WithLogger(log))
	buf, err := Build(mesh, layout, opts)
	if err != nil {
		return mesh, &Buffer{Layout: layout}, err
	}
	if loadErr != nil {
		return mesh, buf, loadErr
	}

	stats := mesh.Stats()
	log.Info("mesh loaded",
		zap.String("path", path),
		zap.Int("positions", stats.Positions),
		zap.Int("faces", stats.Faces),
		zap.Int("skipped_lines", stats.Skipped),
		zap.Int("vertices", buf.VertexCount),
		zap.Int("triangles", buf.TriangleCount()),
		zap.Int("skipped_refs", buf.SkippedRefs),
		zap.String("layout", layout.Name),
		zap.Stringer("mode", opts.Mode),
	)
	return mesh, buf, nil
}

// Watcher reloads a mesh file when it changes on disk.
// Reloads are delivered on a channel holding at most one pending result;
// the frame loop drains it between frames.
type Watcher struct {
	path   string
	layout Layout
	opts   BuildOptions
	delay  time.Duration
	log    *zap.Logger

	fsw     *fsnotify.Watcher
	reloads chan Reload
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWatcher starts watching path. The parent directory is watched so that
// editors replacing the file (rename + create) are noticed.
func NewWatcher(path string, layout Layout, opts BuildOptions, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		layout:  layout,
		opts:    opts,
		delay:   DefaultReloadDelay,
		log:     log,
		fsw:     fsw,
		reloads: make(chan Reload, 1),
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	log.Debug("watching mesh file", zap.String("path", abs))
	return w, nil
}

// Reloads returns the channel of reload results.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("mesh watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	mesh, buf, err := LoadBuffer(w.path, w.layout, w.opts, w.log)
	if err != nil {
		w.log.Warn("mesh reload failed", zap.String("path", w.path), zap.Error(err))
	}
	r := Reload{Path: w.path, Mesh: mesh, Buffer: buf, Err: err}

	// Keep only the newest result.
	select {
	case w.reloads <- r:
		return
	default:
	}
	select {
	case <-w.reloads:
	default:
	}
	select {
	case w.reloads <- r:
	default:
	}
}
