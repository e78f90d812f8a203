package rmapprof

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iccolo/rmagui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// existingFile creates an empty file in a temporary directory
func existingFile(t *testing.T, name string) string {
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func assertNotEmpty(t *testing.T, path string) {
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func assertEmpty(t *testing.T, path string) {
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCPU(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		var cpu CPU
		require.NoError(t, cpu.start())
		assert.Nil(t, cpu.file)
		assert.NoError(t, cpu.stop())
		assert.NoError(t, cpu.stop())

		app := fxtest.New(t, CPU{}.Provide())
		app.RequireStart()
		app.RequireStop()
	})

	t.Run("AlreadyProfiling", func(t *testing.T) {
		cpu := CPU{Path: filepath.Join(t.TempDir(), "cpu.prof")}
		require.NoError(t, cpu.start())
		assert.ErrorIs(t, cpu.start(), ErrAlreadyProfiling)
		assert.NoError(t, cpu.stop())
		assert.NoError(t, cpu.stop())
	})

	t.Run("NewPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cpu.prof")
		app := fxtest.New(
			t,
			rmagui.TestLogger(t),
			CPU{Path: path}.Provide(),
		)

		app.RequireStart()
		app.RequireStop()
		assertNotEmpty(t, path)
	})

	t.Run("ExistingPath", func(t *testing.T) {
		path := existingFile(t, "cpu.prof")
		app := fx.New(
			rmagui.TestLogger(t),
			CPU{Path: path}.Provide(),
		)

		assert.Error(t, app.Start(context.Background()))
		assertEmpty(t, path)
	})

	t.Run("Overwrite", func(t *testing.T) {
		path := existingFile(t, "cpu.prof")
		app := fxtest.New(
			t,
			CPU{Path: path, Overwrite: true}.Provide(),
		)

		app.RequireStart()
		app.RequireStop()
		assertNotEmpty(t, path)
	})
}

func TestHeap(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		var heap Heap
		assert.NoError(t, heap.stop())

		app := fxtest.New(t, Heap{}.Provide())
		app.RequireStart()
		app.RequireStop()
	})

	t.Run("NewPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "heap.prof")
		app := fxtest.New(
			t,
			rmagui.TestLogger(t),
			Heap{Path: path}.Provide(),
		)

		app.RequireStart()
		app.RequireStop()
		assertNotEmpty(t, path)
	})

	t.Run("ExistingPath", func(t *testing.T) {
		path := existingFile(t, "heap.prof")
		app := fxtest.New(
			t,
			Heap{Path: path}.Provide(),
		)

		require.NoError(t, app.Start(context.Background()))
		assert.Error(t, app.Stop(context.Background()))
		assertEmpty(t, path)
	})

	t.Run("Overwrite", func(t *testing.T) {
		path := existingFile(t, "heap.prof")
		app := fxtest.New(
			t,
			Heap{Path: path, Overwrite: true, DisableGCOnStop: true}.Provide(),
		)

		app.RequireStart()
		app.RequireStop()
		assertNotEmpty(t, path)
	})
}

func TestConfigProfiles(t *testing.T) {
	var (
		dir    = t.TempDir()
		config = Config{
			CPUProfile:  filepath.Join(dir, "cpu.prof"),
			HeapProfile: filepath.Join(dir, "heap.prof"),
		}

		app = fxtest.New(t, config.Provide(""))
	)

	app.RequireStart()
	app.RequireStop()
	assertNotEmpty(t, config.CPUProfile)
	assertNotEmpty(t, config.HeapProfile)
}
