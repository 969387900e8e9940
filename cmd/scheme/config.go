package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configEnv      = "SCHEME_CONFIG"
	configFileName = ".scheme.yml"
)

// Config holds REPL settings read from ~/.scheme.yml (or -config / $SCHEME_CONFIG).
//
//	prompt: "in> "
//	continuation: "... "
//	history: ~/.scheme_history
//	preload: [prelude.scm, more.scm]   # or a single string
//	verbose: false
//	color: true
type Config struct {
	Prompt       string
	Continuation string
	History      string
	Preload      []string
	Verbose      bool
	Color        bool
}

type configFile struct {
	Prompt       string     `yaml:"prompt"`
	Continuation string     `yaml:"continuation"`
	History      string     `yaml:"history"`
	Preload      stringList `yaml:"preload"`
	Verbose      bool       `yaml:"verbose"`
	Color        *bool      `yaml:"color"`
}

// stringList accepts either a scalar or a sequence of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			if str = strings.TrimSpace(str); str != "" {
				items = append(items, str)
			}
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("config: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func defaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Prompt:       promptMain,
		Continuation: promptCont,
		History:      filepath.Join(home, historyFile),
		Color:        true,
	}
}

// resolveConfigPath picks the config file: the explicit flag value, then
// $SCHEME_CONFIG, then ~/.scheme.yml. explicit reports whether the user
// named the file (a missing explicit file is an error; a missing default is not).
func resolveConfigPath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv(configEnv); env != "" {
		return env, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, configFileName), false
}

// loadConfig reads the YAML file at path on top of the defaults. Relative
// preload entries are resolved against the config file's directory.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if raw.Prompt != "" {
		cfg.Prompt = raw.Prompt
	}
	if raw.Continuation != "" {
		cfg.Continuation = raw.Continuation
	}
	if raw.History != "" {
		cfg.History = expandHome(raw.History)
	}
	if raw.Color != nil {
		cfg.Color = *raw.Color
	}
	cfg.Verbose = raw.Verbose

	base := filepath.Dir(path)
	for _, p := range raw.Preload {
		p = expandHome(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		cfg.Preload = append(cfg.Preload, p)
	}
	return cfg, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
