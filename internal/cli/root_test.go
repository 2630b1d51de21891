package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	want := []string{"render", "serve", "watch", "explore", "tree", "schemes", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, name := range []string{"config", "env-file"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s missing", name)
		}
	}
}

func TestCacheFlags(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	for _, name := range []string{"render", "serve", "watch", "explore", "tree"} {
		cmd, _, _ := root.Find([]string{name})
		for _, flag := range []string{"no-cache", "redis", "cache-scope"} {
			if cmd.Flags().Lookup(flag) == nil {
				t.Errorf("%s: flag --%s missing", name, flag)
			}
		}
	}
}

func TestDebounceFlags(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	for _, name := range []string{"serve", "watch"} {
		cmd, _, _ := root.Find([]string{name})
		f := cmd.Flags().Lookup("debounce")
		if f == nil {
			t.Errorf("%s: flag --debounce missing", name)
			continue
		}
		if f.DefValue != "600ms" {
			t.Errorf("%s: --debounce default = %s, want 600ms", name, f.DefValue)
		}
	}
}

func TestSetupLoadsConfig(t *testing.T) {
	path := writeFile(t, "config.toml", "width = 1024.0\n")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "--env-file", "", "cache", "path"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if c.Config.Width != 1024 {
		t.Errorf("Config.Width = %v, want 1024", c.Config.Width)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("debug message logged at info level")
	}
	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("shown")
	if buf.Len() == 0 {
		t.Error("debug message not logged after SetLogLevel(debug)")
	}
}
