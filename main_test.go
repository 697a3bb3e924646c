package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Scoopit/mysql2databend/internal/config"
)

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: v1
input: from-config.sql
tables: [customers]
progress_interval: 500
kv:
  url: redis://from-config:6379/0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvKVURL, "redis://from-env:6379/0")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-c", path, "-t", "orders", "-t", "items", "-d", "shop", "replay", "--after=-1"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--after") {
		t.Fatalf("Execute() error = %v, want --after validation error", err)
	}

	if cfg.Input != "from-config.sql" {
		t.Errorf("Input = %q, want value from config file", cfg.Input)
	}
	if !reflect.DeepEqual(cfg.Tables, []string{"orders", "items"}) {
		t.Errorf("Tables = %v, want flags to win", cfg.Tables)
	}
	if !reflect.DeepEqual(cfg.Databases, []string{"shop"}) {
		t.Errorf("Databases = %v, want [shop]", cfg.Databases)
	}
	if cfg.ProgressInterval != 500 {
		t.Errorf("ProgressInterval = %d, want 500", cfg.ProgressInterval)
	}
	if cfg.KV.URL != "redis://from-env:6379/0" {
		t.Errorf("KV.URL = %q, want environment to win over config file", cfg.KV.URL)
	}
}

func TestConsoleCommand(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "dump.sql")
	content := "CREATE DATABASE `shop`;\nUSE `shop`;\nCREATE TABLE `t` (\n  `A` int(11)\n) ENGINE=InnoDB;\n"
	if err := os.WriteFile(dump, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-f", dump, "console"})
	runErr := cmd.Execute()
	w.Close()

	var out strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		out.Write(buf[:n])
		if err != nil {
			break
		}
	}

	if runErr != nil {
		t.Fatalf("Execute() error = %v", runErr)
	}
	want := "CREATE DATABASE `shop`;\nUSE `shop`;\nCREATE TABLE `t` (\n  `a` int(11) NULL\n);\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "mysql2databend ") {
		t.Errorf("--version printed %q", out.String())
	}
}
