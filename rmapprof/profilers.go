package rmapprof

import (
	"context"
	"errors"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrAlreadyProfiling indicates that a CPU profile has already been started
var ErrAlreadyProfiling = errors.New("CPU profiling has already been started")

func openProfile(path string, overwrite bool) (*os.File, error) {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag |= os.O_EXCL
	}

	return os.OpenFile(path, flag, 0666)
}

// ProfilerIn holds the dependencies of the CPU and Heap invokes.
type ProfilerIn struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.Logger `optional:"true"`
}

// CPU writes a CPU profile covering the lifetime of the fx.App.
type CPU struct {
	// Path is the file the profile is written to.  Empty disables CPU profiling.
	Path string

	// Overwrite allows an existing file at Path to be replaced.  Otherwise,
	// an existing file fails the app's start.
	Overwrite bool

	file *os.File
}

func (c *CPU) start() error {
	if len(c.Path) == 0 {
		return nil
	}

	if c.file != nil {
		return ErrAlreadyProfiling
	}

	var err error
	c.file, err = openProfile(c.Path, c.Overwrite)
	if err == nil {
		err = pprof.StartCPUProfile(c.file)
	}

	return err
}

func (c *CPU) stop() (err error) {
	if c.file != nil {
		pprof.StopCPUProfile()
		err = c.file.Close()
		c.file = nil
	}

	return
}

// Provide binds this profiler to the app lifecycle.  Nothing is bound if
// Path is empty.
func (c CPU) Provide() fx.Option {
	return fx.Invoke(
		func(in ProfilerIn) {
			if len(c.Path) == 0 {
				return
			}

			in.Lifecycle.Append(fx.Hook{
				OnStart: func(context.Context) error {
					if in.Logger != nil {
						in.Logger.Info("starting CPU profile", zap.String("path", c.Path))
					}

					return c.start()
				},
				OnStop: func(context.Context) error {
					return c.stop()
				},
			})
		},
	)
}

// Heap writes a heap profile when the fx.App stops.
type Heap struct {
	// Path is the file the profile is written to.  Empty disables heap profiling.
	Path string

	// Overwrite allows an existing file at Path to be replaced.
	Overwrite bool

	// DisableGCOnStop skips the runtime.GC done before the profile is written.
	DisableGCOnStop bool
}

func (h Heap) stop() (err error) {
	if len(h.Path) == 0 {
		return
	}

	var file *os.File
	file, err = openProfile(h.Path, h.Overwrite)
	if err == nil {
		if !h.DisableGCOnStop {
			runtime.GC()
		}

		err = pprof.WriteHeapProfile(file)
		file.Close()
	}

	return
}

// Provide binds this profiler to the app lifecycle.  Nothing is bound if
// Path is empty.
func (h Heap) Provide() fx.Option {
	return fx.Invoke(
		func(in ProfilerIn) {
			if len(h.Path) == 0 {
				return
			}

			in.Lifecycle.Append(fx.Hook{
				OnStop: func(context.Context) error {
					if in.Logger != nil {
						in.Logger.Info("writing heap profile", zap.String("path", h.Path))
					}

					return h.stop()
				},
			})
		},
	)
}
