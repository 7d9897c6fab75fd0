package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/soocke/captol-go/domain/region"
)

func newViper(t *testing.T, yamlBody string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaultsOn(v)
	if yamlBody != "" {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
			t.Fatal(err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			t.Fatalf("read config: %v", err)
		}
	}
	return v
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Capture.AutoclipInterval != 1.0 {
		t.Errorf("Capture.AutoclipInterval = %v, want 1.0", cfg.Capture.AutoclipInterval)
	}
	if cfg.Capture.EnableActiveImageSaver {
		t.Error("Capture.EnableActiveImageSaver should be false by default")
	}
	if cfg.Capture.Extension != "png" {
		t.Errorf("Capture.Extension = %q, want png", cfg.Capture.Extension)
	}
	if cfg.Overlay.FlashDuration() != 80*time.Millisecond {
		t.Errorf("Overlay.FlashDuration() = %v, want 80ms", cfg.Overlay.FlashDuration())
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("defaults do not validate: %v", ValidationErrors(errs))
	}
}

func TestLoadFrom_File(t *testing.T) {
	v := newViper(t, `
capture:
  autoclip_interval: 2.5
  enable_active_image_saver: true
  extension: TIFF
  default_folder: /tmp/shots
  region: slides
regions:
  slides: {x: 10, y: 20, width: 640, height: 480}
logging:
  level: debug
`)
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capture.AutoclipDuration() != 2500*time.Millisecond {
		t.Errorf("AutoclipDuration = %v", cfg.Capture.AutoclipDuration())
	}
	if !cfg.Capture.EnableActiveImageSaver || cfg.Capture.Extension != "tiff" {
		t.Errorf("capture section not applied: %+v", cfg.Capture)
	}
	r, ok := cfg.Region("slides")
	if !ok || r != (region.Rectangle{X: 10, Y: 20, Width: 640, Height: 480}) {
		t.Errorf("region slides = %+v ok=%v", r, ok)
	}
	if cfg.Overlay.FlashMs != 80 {
		t.Errorf("overlay default lost: %d", cfg.Overlay.FlashMs)
	}
}

func TestLoadFrom_ValidationErrors(t *testing.T) {
	v := newViper(t, `
capture:
  extension: gif
  region: missing
regions:
  bad: {x: -1, y: 0, width: 10, height: 10}
logging:
  level: loud
`)
	_, err := LoadFrom(v)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, f := range []string{"capture.extension", "capture.region", "regions.bad", "logging.level"} {
		if !fields[f] {
			t.Errorf("missing validation error for %s (got %v)", f, verrs)
		}
	}
}

func TestValidate_ResetsTimings(t *testing.T) {
	cfg := Default()
	cfg.Capture.AutoclipInterval = -3
	cfg.Overlay.FlashMs = 0
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.Capture.AutoclipInterval != 1.0 || cfg.Overlay.FlashMs != 80 {
		t.Fatalf("timings not reset: %+v %+v", cfg.Capture, cfg.Overlay)
	}
}

func TestValidate_IntervalMustOutlastFlash(t *testing.T) {
	cfg := Default()
	cfg.Capture.AutoclipInterval = 0.05
	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "capture.autoclip_interval" {
		t.Fatalf("expected one autoclip_interval error, got %v", errs)
	}

	// 80ms flash plus one refresh fits into 0.2s
	cfg = Default()
	cfg.Capture.AutoclipInterval = 0.2
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("interval longer than flash plus refresh rejected: %v", errs)
	}

	cfg = Default()
	cfg.Capture.AutoclipInterval = 0.05
	cfg.Overlay.Enabled = false
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("short interval without overlay rejected: %v", errs)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Capture.DefaultFolder = "/data/captures"
	cfg.Capture.Region = "main"
	cfg.Regions["main"] = region.Rectangle{X: 1, Y: 2, Width: 3, Height: 4}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	v := viper.New()
	SetDefaultsOn(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read: %v", err)
	}
	got, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Capture.DefaultFolder != "/data/captures" || got.Regions["main"] != cfg.Regions["main"] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigFile(); got != filepath.Join("/xdg", "captol", "config.yaml") {
		t.Fatalf("ConfigFile() = %q", got)
	}
}
