package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()
	content := `
proxy:
  port: 1081
  users:
    primary: alice
    secondary: bob
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "socksup.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Proxy.Port != 1081 {
		t.Errorf("Proxy.Port = %d, want %d", cfg.Proxy.Port, 1081)
	}
	if cfg.Proxy.Users.Primary != "alice" {
		t.Errorf("Users.Primary = %q, want %q", cfg.Proxy.Users.Primary, "alice")
	}
	if cfg.Proxy.Users.Secondary != "bob" {
		t.Errorf("Users.Secondary = %q, want %q", cfg.Proxy.Users.Secondary, "bob")
	}
}

func TestLoad_DefaultsFillUnsetFields(t *testing.T) {
	t.Parallel()
	content := `
proxy:
  port: 2080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "socksup.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Proxy.Version != "0.9.4" {
		t.Errorf("Proxy.Version = %q, want %q", cfg.Proxy.Version, "0.9.4")
	}
	if cfg.Proxy.Users.Primary != "admin" {
		t.Errorf("Users.Primary = %q, want %q", cfg.Proxy.Users.Primary, "admin")
	}
	if cfg.Network.AdminPort != 22 {
		t.Errorf("Network.AdminPort = %d, want %d", cfg.Network.AdminPort, 22)
	}
	if cfg.Paths.ConfigDir != "/etc/3proxy" {
		t.Errorf("Paths.ConfigDir = %q, want %q", cfg.Paths.ConfigDir, "/etc/3proxy")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := Load("/nonexistent/path/socksup.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	content := `
proxy:
  port: [invalid yaml
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "socksup.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoadFromBytes_ValidationError(t *testing.T) {
	t.Parallel()
	content := `
proxy:
  port: 22
`
	_, err := LoadFromBytes([]byte(content))
	if err == nil {
		t.Error("LoadFromBytes() expected validation error for port 22")
	}
}

func TestLoadWithoutValidation_SkipsValidation(t *testing.T) {
	t.Parallel()
	content := `
proxy:
  port: 22
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "socksup.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadWithoutValidation(configPath)
	if err != nil {
		t.Fatalf("LoadWithoutValidation() error = %v", err)
	}
	if cfg.Proxy.Port != 22 {
		t.Errorf("Proxy.Port = %d, want %d", cfg.Proxy.Port, 22)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Parallel()
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "socksup.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Proxy.Port != 1080 {
		t.Errorf("Proxy.Port = %d, want default %d", cfg.Proxy.Port, 1080)
	}
}

func TestLoadOrDefault_BrokenFileStillErrors(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "socksup.yaml")
	if err := os.WriteFile(configPath, []byte("proxy: [broken"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadOrDefault(configPath); err == nil {
		t.Error("LoadOrDefault() expected error for broken file")
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Proxy.Port = 4545

	path := filepath.Join(t.TempDir(), "socksup.yaml")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want %o", perm, 0600)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Proxy.Port != 4545 {
		t.Errorf("Proxy.Port = %d, want %d", loaded.Proxy.Port, 4545)
	}
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	configPath := filepath.Join(tmpDir, "socksup.yaml")
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Chdir(nested)

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	resolved, err := filepath.EvalSymlinks(found)
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	want, err := filepath.EvalSymlinks(configPath)
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	if resolved != want {
		t.Errorf("FindConfigFile() = %q, want %q", resolved, want)
	}
}
