package register

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func Test_DeriveServerName(t *testing.T) {
	tests := []struct {
		name       string
		binaryPath string
		want       string
	}{
		{"strip -mcp suffix", "organize-mcp", "organize"},
		{"strip .exe and -mcp", "organize-mcp.exe", "organize"},
		{"no -mcp suffix passthrough", "organizer", "organizer"},
		{"only .exe suffix", "organizer.exe", "organizer"},
		{"full path stripped to base", "/usr/local/bin/organize-mcp", "organize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveServerName(tt.binaryPath); got != tt.want {
				t.Errorf("DeriveServerName(%q) = %q, want %q", tt.binaryPath, got, tt.want)
			}
		})
	}
}

func readServers(t *testing.T, configPath string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	servers, ok := config["mcpServers"].(map[string]any)
	if !ok {
		t.Fatal("mcpServers not found or not an object")
	}
	return servers
}

func Test_Register_ProjectScope(t *testing.T) {
	dir := t.TempDir()

	configPath, err := Register(Options{
		ServerName: "organize",
		Scope:      ScopeProject,
		Directory:  dir,
		ServerArgs: []string{"--root", "/data/inbox"},
		BinaryPath: "/usr/local/bin/organize-mcp",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if configPath != filepath.Join(dir, ".mcp.json") {
		t.Errorf("configPath = %q", configPath)
	}

	entry, ok := readServers(t, configPath)["organize"].(map[string]any)
	if !ok {
		t.Fatal("organize entry not found")
	}
	args, _ := entry["args"].([]any)
	if runtime.GOOS == "windows" {
		if entry["command"] != "cmd" {
			t.Errorf("command = %v, want cmd", entry["command"])
		}
		return
	}
	if entry["command"] != "/usr/local/bin/organize-mcp" {
		t.Errorf("command = %v", entry["command"])
	}
	want := []string{"serve", "--root", "/data/inbox"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %s", i, args[i], want[i])
		}
	}
}

func Test_Register_UnknownScope(t *testing.T) {
	_, err := Register(Options{ServerName: "organize", Scope: "global", BinaryPath: "/bin/x"})
	if !errors.Is(err, ErrUnknownScope) {
		t.Fatalf("expected ErrUnknownScope, got %v", err)
	}
}

func Test_writeConfig_UpdatesExistingEntry(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".claude.json")

	initial := map[string]any{
		"theme": "dark",
		"mcpServers": map[string]any{
			"other-server": map[string]any{"command": "/usr/bin/other"},
			"organize":     map[string]any{"command": "/old/path"},
		},
	}
	initialData, _ := json.MarshalIndent(initial, "", "  ")
	if err := os.WriteFile(configPath, initialData, 0600); err != nil {
		t.Fatal(err)
	}

	if err := writeConfig(configPath, "organize", mcpServerEntry{Command: "/new/path", Args: []string{"serve"}}); err != nil {
		t.Fatalf("writeConfig() error: %v", err)
	}

	servers := readServers(t, configPath)
	if other := servers["other-server"].(map[string]any); other["command"] != "/usr/bin/other" {
		t.Errorf("other-server command changed unexpectedly: %v", other["command"])
	}
	if mine := servers["organize"].(map[string]any); mine["command"] != "/new/path" {
		t.Errorf("organize command = %v, want /new/path", mine["command"])
	}

	data, _ := os.ReadFile(configPath)
	var config map[string]any
	json.Unmarshal(data, &config)
	if config["theme"] != "dark" {
		t.Errorf("unrelated key lost: %v", config["theme"])
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want 0600", info.Mode().Perm())
		}
	}
}

func Test_writeConfig_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	os.WriteFile(configPath, []byte("not valid json{{{"), 0644)

	if err := writeConfig(configPath, "organize", mcpServerEntry{Command: "/usr/bin/x"}); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func Test_writeConfig_ServersNotObject(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	os.WriteFile(configPath, []byte(`{"mcpServers": []}`), 0644)

	if err := writeConfig(configPath, "organize", mcpServerEntry{Command: "/usr/bin/x"}); err == nil {
		t.Fatal("expected error when mcpServers is not an object")
	}
}

func Test_buildEntry(t *testing.T) {
	binaryPath := "/usr/local/bin/organize-mcp"
	serverArgs := []string{"serve", "--root", "/projects"}

	entry := buildEntry(binaryPath, serverArgs)

	if runtime.GOOS == "windows" {
		if entry.Command != "cmd" || len(entry.Args) != 5 || entry.Args[0] != "/C" || entry.Args[1] != binaryPath {
			t.Errorf("unexpected windows entry %+v", entry)
		}
		return
	}
	if entry.Command != binaryPath {
		t.Errorf("command = %q, want %q", entry.Command, binaryPath)
	}
	if len(entry.Args) != 3 || entry.Args[0] != "serve" {
		t.Errorf("args = %v, want %v", entry.Args, serverArgs)
	}
}

func Test_resolveConfigPath(t *testing.T) {
	got, err := resolveConfigPath(ScopeProject, "")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}
	absDir, _ := filepath.Abs(".")
	if want := filepath.Join(absDir, ".mcp.json"); got != want {
		t.Errorf("project scope = %q, want %q", got, want)
	}

	got, err = resolveConfigPath(ScopeUser, "")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}
	homeDir, _ := os.UserHomeDir()
	if want := filepath.Join(homeDir, ".claude.json"); got != want {
		t.Errorf("user scope = %q, want %q", got, want)
	}
}
