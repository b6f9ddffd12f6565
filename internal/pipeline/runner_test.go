package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-fb-followers/internal/config"
	"go-fb-followers/internal/export"
	"go-fb-followers/internal/extract"
	"go-fb-followers/internal/model"
	"go-fb-followers/internal/normalize"
	"go-fb-followers/internal/pipeline"
	"go-fb-followers/internal/rules"
	"go-fb-followers/internal/store"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newSource() *extract.Extractor {
	e := extract.New(0, 0, 0)
	e.Sleep = noSleep
	return e
}

type memArchive struct {
	runID    string
	accepted int
	rejected int
}

func (m *memArchive) SaveRun(_ context.Context, runID string, f []model.Follower, r []normalize.Rejection) error {
	m.runID, m.accepted, m.rejected = runID, len(f), len(r)
	return nil
}

func TestRunner_SeedToFiles(t *testing.T) {
	dir := t.TempDir()
	in, err := config.ParseInput([]byte(`{"url":"https://www.facebook.com/p/followers","maxItems":10,
		"seedFollowers":[
			{"id":1001,"name":"Alice Example","url":"https://facebook.com/alice.example","gender":"FEMALE"},
			{"id":"x","name":"   "},
			{"id":1002,"title":"Bob Sample","url":"http://m.facebook.com/bob.sample"}]}`))
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	arc := &memArchive{}
	run := pipeline.New(newSource(), nil, arc, export.New(export.Options{}))
	res, err := run.Run(context.Background(), pipeline.Job{Input: in, OutDir: dir, BaseName: "run1", Formats: []string{"json", "csv", "bogus"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.RawCount != 3 || len(res.Followers) != 2 || len(res.Rejected) != 1 {
		t.Fatalf("counts raw=%d ok=%d rej=%d", res.RawCount, len(res.Followers), len(res.Rejected))
	}
	if len(res.Written) != 2 {
		t.Fatalf("written=%v", res.Written)
	}
	if arc.runID != "run1" || arc.accepted != 2 || arc.rejected != 1 {
		t.Fatalf("archive=%+v", arc)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "run1.json"))
	var back []model.Follower
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back[0].ID != "1001" || back[1].Name != "Bob Sample" || back[1].URL != "https://www.facebook.com/bob.sample" {
		t.Fatalf("exported=%+v", back)
	}
}

func TestRunner_FabricatedSamplesWithSQLiteArchive(t *testing.T) {
	dir := t.TempDir()
	st, err := store.OpenSQLite(filepath.Join(dir, "a.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	n := 4
	run := pipeline.New(newSource(), nil, st, export.New(export.Options{}))
	res, err := run.Run(context.Background(), pipeline.Job{Input: &config.Input{MaxItems: &n}, OutDir: dir, BaseName: "s", Formats: []string{"jsonl"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Followers) != 4 {
		t.Fatalf("followers=%d", len(res.Followers))
	}
	for _, f := range res.Followers {
		if f.URL == "" || f.URL[:24] != "https://www.facebook.com" {
			t.Fatalf("url not canonical: %q", f.URL)
		}
	}
	stats, _ := st.Stats(context.Background())
	if stats.FollowersTotal != 4 {
		t.Fatalf("archived=%d", stats.FollowersTotal)
	}
}

func TestRunner_Snapshot(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "followers.html")
	_ = os.WriteFile(snap, []byte(`<ul><li class="f"><a href="/carol">Carol  Diaz</a></li><li class="f"><a href="/dan">Dan</a></li></ul>`), 0o644)
	rl := &rules.Rules{Presets: map[string]rules.Preset{
		"default": {FollowersPage: &rules.FollowersPage{Item: ".f", Name: "a", URL: "a@href"}},
	}}
	in := &config.Input{URL: "https://m.facebook.com/page/followers", Snapshot: snap}
	run := pipeline.New(newSource(), rl, nil, export.New(export.Options{}))
	res, err := run.Run(context.Background(), pipeline.Job{Input: in, OutDir: dir, BaseName: "snap", Formats: []string{"json"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Followers) != 2 || res.Followers[0].Name != "Carol Diaz" || res.Followers[0].ShortName != "Carol" {
		t.Fatalf("followers=%+v", res.Followers)
	}
	if res.Followers[0].URL != "https://www.facebook.com/carol" {
		t.Fatalf("url=%q", res.Followers[0].URL)
	}
}

func TestRunner_ExportErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "f")
	_ = os.WriteFile(blocker, nil, 0o644)
	n := 1
	run := pipeline.New(newSource(), nil, nil, export.New(export.Options{}))
	_, err := run.Run(context.Background(), pipeline.Job{Input: &config.Input{MaxItems: &n}, OutDir: filepath.Join(blocker, "x"), BaseName: "b", Formats: []string{"json"}})
	if err == nil {
		t.Fatalf("expected export error")
	}
	_, err = run.Run(context.Background(), pipeline.Job{Input: &config.Input{MaxItems: &n}, OutDir: dir, BaseName: "b", Formats: []string{"xlsx"}})
	if !errors.Is(err, export.ErrNoSheetWriter) {
		t.Fatalf("err=%v", err)
	}
}
