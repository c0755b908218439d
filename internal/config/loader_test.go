package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Server.Port != defaults.Server.Port {
		t.Fatalf("expected default port %d, got %d", defaults.Server.Port, cfg.Server.Port)
	}
	if cfg.Data.NeoCSV != defaults.Data.NeoCSV {
		t.Fatalf("expected default neo path %q, got %q", defaults.Data.NeoCSV, cfg.Data.NeoCSV)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `server:
  host: 127.0.0.1
  port: 9090
data:
  neo_csv: /srv/neos.csv
  cad_json: /srv/cad.json
export:
  max_rows: 1000
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Fatalf("server config not applied: %+v", cfg.Server)
	}
	if cfg.Data.NeoCSV != "/srv/neos.csv" || cfg.Data.CadJSON != "/srv/cad.json" {
		t.Fatalf("data config not applied: %+v", cfg.Data)
	}
	if cfg.Export.MaxRows != 1000 {
		t.Fatalf("export config not applied: %+v", cfg.Export)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging config not applied: %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEOQL_SERVER_PORT", "9999")
	t.Setenv("NEOQL_DATA_NEO_CSV", "/tmp/other.csv")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("env override for port not applied, got %d", cfg.Server.Port)
	}
	if cfg.Data.NeoCSV != "/tmp/other.csv" {
		t.Fatalf("env override for neo path not applied, got %q", cfg.Data.NeoCSV)
	}
}

func TestServerAddr(t *testing.T) {
	addr := ServerConfig{Host: "0.0.0.0", Port: 8080}.Addr()
	if addr != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", addr)
	}
}
