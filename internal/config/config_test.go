package config_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go-fb-followers/internal/config"
)

func TestConfig_DefaultsAndValidate(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "settings.yaml")
	_ = os.WriteFile(f, []byte("SIMPLE_MODE: true\n"), 0o644)
	c, err := config.Load(f)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Delays.Scroll() != 600*time.Millisecond || c.Delays.MinWait() != 300*time.Millisecond || c.Delays.MaxWait() != 900*time.Millisecond {
		t.Fatalf("delay defaults: %v %v %v", c.Delays.Scroll(), c.Delays.MinWait(), c.Delays.MaxWait())
	}
	if !reflect.DeepEqual(c.Export.Formats, []string{"json", "csv"}) || c.Export.OutDir == "" {
		t.Fatalf("export defaults: %+v", c.Export)
	}
	if c.Database.Type != "sqlite" || c.Database.DSN == "" {
		t.Fatalf("db defaults: %+v", c.Database)
	}
	if c.LogFormat == "" || c.LogLocale == "" || c.LogColor == "" {
		t.Fatalf("log defaults missing")
	}
}

func TestConfig_ExplicitZeroDelaysAndErrors(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "settings.yaml")
	_ = os.WriteFile(f, []byte("DELAYS:\n  scroll_ms: 0\n  min_wait_ms: 0\n  max_wait_ms: 0\nEXPORT:\n  formats: [xlsx]\n"), 0o644)
	c, err := config.Load(f)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Delays.MaxWait() != 0 || c.Export.Formats[0] != "xlsx" {
		t.Fatalf("explicit values not kept: %+v", c)
	}

	for _, bad := range []string{
		"DELAYS:\n  min_wait_ms: 1000\n  max_wait_ms: 10\n",
		"DELAYS:\n  scroll_ms: -1\n",
		"DATABASE:\n  type: mysql\n",
		"EXPORT: [not, a, map]\n",
	} {
		_ = os.WriteFile(f, []byte(bad), 0o644)
		if _, err := config.Load(f); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
	if _, err := config.Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file should wrap ErrNotExist: %v", err)
	}
	d, err := config.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if d.Export.OutDir == "" || len(d.Export.Formats) != 2 || d.Database.Type != "sqlite" {
		t.Fatalf("Default()=%+v", d)
	}
}

func TestParseFormatsAndBaseName(t *testing.T) {
	if got := config.ParseFormats(" json, ,CSV ,xlsx,"); !reflect.DeepEqual(got, []string{"json", "CSV", "xlsx"}) {
		t.Fatalf("ParseFormats=%v", got)
	}
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))
	if got := config.BaseName("", now); got != "followers_20260304_040607" {
		t.Fatalf("BaseName=%q", got)
	}
	if got := config.BaseName("run1", now); got != "run1" {
		t.Fatalf("explicit base name=%q", got)
	}
}

func TestParseInput(t *testing.T) {
	in, err := config.ParseInput([]byte(`{"url":"https://www.facebook.com/x/followers","maxItems":3,
		"seedFollowers":[{"id":100048901720805,"name":"Janet"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.Limit() != 3 || len(in.SeedFollowers) != 1 {
		t.Fatalf("input=%+v", in)
	}
	if n, ok := in.SeedFollowers[0]["id"].(json.Number); !ok || n.String() != "100048901720805" {
		t.Fatalf("id should be json.Number: %#v", in.SeedFollowers[0]["id"])
	}
	in, _ = config.ParseInput([]byte(`{}`))
	if in.Limit() != config.DefaultMaxItems {
		t.Fatalf("default maxItems=%d", in.Limit())
	}
	for _, bad := range []string{`{"maxItems":-1}`, `[1,2]`, `{`} {
		if _, err := config.ParseInput([]byte(bad)); !errors.Is(err, config.ErrInvalidInput) {
			t.Fatalf("%s: err=%v", bad, err)
		}
	}
}
