package gantt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/gantt/internal/core/config"
	"github.com/colonyops/gantt/internal/core/eventbus"
	"github.com/colonyops/gantt/internal/core/resolve"
	"github.com/colonyops/gantt/internal/core/schedule"
)

func newApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	app, err := NewApp(&cfg, nil)
	require.NoError(t, err)
	return app
}

func TestNewApp_InvalidStart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Defaults.Start = "someday"

	_, err := NewApp(&cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults.start")
}

func TestLoadSeed_Sample(t *testing.T) {
	app := newApp(t, nil)

	snap, err := app.LoadSeed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Seq)
	assert.Len(t, snap.Tasks, 8)
	assert.Equal(t, "Job A", snap.Tasks[0].Name)
	assert.Equal(t, snap, app.Controller.Current())
}

func TestLoadSeed_Path(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(path, []byte("Task,Start,Days,Resource\nShip,2024-03-01,2,B\n"), 0o644))

	app := newApp(t, func(c *config.Config) { c.Seed.Path = path })
	assert.Equal(t, "path", app.SeedSource().Kind())

	snap, err := app.LoadSeed(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "2024-03-03", snap.Tasks[0].Finish.Format(schedule.DateLayout))
}

func TestSeedSource_DataDir(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		seed  string
		want  string
	}{
		{"empty dir uses sample", nil, "", "sample"},
		{"seed files found", []string{"a.csv", "b.yaml"}, "", "path"},
		{"unknown extensions ignored", []string{"notes.txt"}, "", "sample"},
		{"configured path wins", []string{"a.csv"}, "plan.csv", "path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("Task,Start,Days,Resource\n"), 0o644))
			}

			app := newApp(t, func(c *config.Config) {
				c.DataDir = dir
				c.Seed.Path = tt.seed
			})
			src := app.SeedSource()
			assert.Equal(t, tt.want, src.Kind())
			if tt.seed != "" {
				assert.Equal(t, tt.seed, src.Path)
			}
		})
	}
}

func TestLoadSeed_DataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("Task,Start,Days,Resource\nShip,2024-03-01,2,B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`[{"Task":"Launch","Start":"2024-03-05","Duration":1}]`), 0o644))

	app := newApp(t, func(c *config.Config) { c.DataDir = dir })

	snap, err := app.LoadSeed(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, "Ship", snap.Tasks[0].Name)
	assert.Equal(t, "Launch", snap.Tasks[1].Name)
}

func TestLoadSeed_MissingPath(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Seed.Path = filepath.Join(t.TempDir(), "*.csv") })

	_, err := app.LoadSeed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load path seed")
	assert.Equal(t, uint64(0), app.Controller.Current().Seq)
}

func TestStart_DeliversCycleEvents(t *testing.T) {
	app := newApp(t, nil)

	done := make(chan eventbus.CycleCompletedPayload, 1)
	app.Bus.SubscribeCycleCompleted(func(p eventbus.CycleCompletedPayload) { done <- p })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Start(ctx)

	_, err := app.Controller.RunCycle(ctx, resolve.Event{Kind: resolve.EventRowAdded})
	require.NoError(t, err)

	select {
	case p := <-done:
		assert.Equal(t, uint64(1), p.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("cycle completed event not delivered")
	}
}

func TestActivity(t *testing.T) {
	tests := []struct {
		name   string
		tables []schedule.RawTable
		want   ActivityCounts
	}{
		{
			name:   "applied edits",
			tables: []schedule.RawTable{{{schedule.ColStart: "2016-01-01", schedule.ColDuration: 1}}},
			want:   ActivityCounts{Applied: 1},
		},
		{
			name:   "empty table resets",
			tables: []schedule.RawTable{{}},
			want:   ActivityCounts{Applied: 1, Resets: 1},
		},
		{
			name: "rejected edit",
			tables: []schedule.RawTable{
				{{schedule.ColStart: "2016-01-01", schedule.ColDuration: 1}},
				{{schedule.ColStart: "soon", schedule.ColDuration: 1}},
			},
			want: ActivityCounts{Applied: 1, Rejected: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(t, nil)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			app.Start(ctx)

			base := app.Activity.Counts()
			for _, table := range tt.tables {
				_, _ = app.Controller.RunCycle(ctx, resolve.Event{Kind: resolve.EventTableChanged, Table: table})
			}

			require.NoError(t, app.Bus.Flush(ctx))
			assert.Equal(t, tt.want, app.Activity.Counts().Sub(base))
		})
	}
}
