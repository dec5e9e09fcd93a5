package app

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config or .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.DataDir != "." {
		t.Errorf("DataDir = %q, want .", config.DataDir)
	}
	if config.RegistryFile != "config.json" {
		t.Errorf("RegistryFile = %q, want config.json", config.RegistryFile)
	}
	if config.Collector != CollectorAuto {
		t.Errorf("Collector = %q, want auto", config.Collector)
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %q, want auto", config.LogFormat)
	}
	if config.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty so -v/-q apply", config.LogLevel)
	}
}

// TestConfig_EnvironmentVariables verifies MNEMOSYNE_* variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("MNEMOSYNE_DATA_DIR", "/srv/catalogs")
	t.Setenv("MNEMOSYNE_COLLECTOR", "PROMPT")
	t.Setenv("MNEMOSYNE_FORMAT", "json")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.DataDir != "/srv/catalogs" {
		t.Errorf("DataDir = %q, want /srv/catalogs", config.DataDir)
	}
	if config.Collector != CollectorPrompt {
		t.Errorf("Collector = %q, want prompt", config.Collector)
	}
	if config.Format != "json" {
		t.Errorf("Format = %q, want json", config.Format)
	}
}

// TestConfig_File verifies an explicit config file and env precedence over it.
func TestConfig_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "mnemosyne.yaml")
	content := "data_dir: /var/lib/mnemosyne\nregistry_file: registry.json\ncollector: form\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
	if config.DataDir != "/var/lib/mnemosyne" {
		t.Errorf("DataDir = %q", config.DataDir)
	}
	if config.RegistryFile != "registry.json" {
		t.Errorf("RegistryFile = %q", config.RegistryFile)
	}
	if config.Collector != CollectorForm {
		t.Errorf("Collector = %q", config.Collector)
	}

	t.Setenv("MNEMOSYNE_DATA_DIR", "/tmp/override")
	config, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.DataDir != "/tmp/override" {
		t.Errorf("DataDir = %q, environment should win over the file", config.DataDir)
	}
}

// TestConfig_HomeFile verifies the .mnemosyne.yaml search in $HOME.
func TestConfig_HomeFile(t *testing.T) {
	home := isolate(t)
	if err := os.WriteFile(filepath.Join(home, ".mnemosyne.yaml"), []byte("collector: prompt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Collector != CollectorPrompt {
		t.Errorf("Collector = %q, want prompt", config.Collector)
	}
}

// TestConfig_Errors verifies unreadable and invalid configuration.
func TestConfig_Errors(t *testing.T) {
	isolate(t)

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}

	t.Setenv("MNEMOSYNE_COLLECTOR", "telepathy")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for unknown collector")
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{
		DataDir:      "/from/file",
		RegistryFile: "config.json",
		Collector:    CollectorAuto,
		Format:       "yaml",
	}

	if err := config.UpdateFromFlags(true, false, true, "", "debug", "/from/flag", "Prompt"); err != nil {
		t.Fatalf("UpdateFromFlags() failed: %v", err)
	}

	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Errorf("bool flags not applied: %+v", config)
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %q, empty flag must keep loaded value", config.Format)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", config.LogLevel)
	}
	if config.DataDir != "/from/flag" {
		t.Errorf("DataDir = %q", config.DataDir)
	}
	if config.Collector != CollectorPrompt {
		t.Errorf("Collector = %q", config.Collector)
	}

	if err := config.UpdateFromFlags(false, false, false, "", "", "", "carrier-pigeon"); err == nil {
		t.Error("expected error for unknown collector flag")
	}
}

// TestExpandHome verifies ~ expansion of the data directory.
func TestExpandHome(t *testing.T) {
	home := isolate(t)

	tests := map[string]string{
		"~":          home,
		"~/catalogs": filepath.Join(home, "catalogs"),
		"/abs":       "/abs",
		"rel/~":      "rel/~",
		"~user/x":    "~user/x",
	}
	for in, want := range tests {
		if got := expandHome(in); got != want {
			t.Errorf("expandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
