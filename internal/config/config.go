package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "dreams.db"
	DefaultStoreDir       = "store"
	DefaultLogName        = "dreamlog.log"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "DREAMLOG_CONFIG"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Add          string `toml:"add"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Edit         string `toml:"edit"`
	Delete       string `toml:"delete"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
	Search       string `toml:"search"`
	NextPage     string `toml:"next_page"`
	PrevPage     string `toml:"prev_page"`
	CycleFilter  string `toml:"cycle_filter"`
	CycleSort    string `toml:"cycle_sort"`
	CycleLimit   string `toml:"cycle_limit"`
	ClearFilters string `toml:"clear_filters"`
	LoadMore     string `toml:"load_more"`
	Save         string `toml:"save"`
	NextField    string `toml:"next_field"`
}

type Display struct {
	PageSize         int      `toml:"page_size"`
	MaxVisiblePages  int      `toml:"max_visible_pages"`
	EndlessIncrement int      `toml:"endless_increment"`
	ScrollThreshold  int      `toml:"scroll_threshold"`
	ScrollThrottle   Duration `toml:"scroll_throttle"`
	SearchDebounce   Duration `toml:"search_debounce"`
	FilterDebounce   Duration `toml:"filter_debounce"`
	DeleteTimeout    Duration `toml:"delete_timeout"`
	ActionDepth      int      `toml:"action_depth"`
	DefaultFilter    string   `toml:"default_filter"`
	DefaultSort      string   `toml:"default_sort"`
	DefaultLimit     string   `toml:"default_limit"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Config struct {
	DBPath   string  `toml:"db_path"`
	StoreDir string  `toml:"store_dir"`
	LogPath  string  `toml:"log_path"`
	LogLevel string  `toml:"log_level"`
	Display  Display `toml:"display"`
	Server   Server  `toml:"server"`
	Keys     Keymap  `toml:"keys"`
}

// Duration is a time.Duration written as "300ms" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// ResolveConfigPath returns $DREAMLOG_CONFIG when set, otherwise
// ~/.config/dreamlog/config.toml.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		if expanded, err := homedir.Expand(p); err == nil {
			return expanded
		}
		return p
	}
	home, err := homedir.Dir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", "dreamlog", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative paths in the result are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg.resolve(filepath.Dir(path)), err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg.resolve(filepath.Dir(path)), nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// fillDefaults restores zero values a partial file left behind.
func (c *Config) fillDefaults() {
	def := Default()
	setString := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if *dst <= 0 {
			*dst = v
		}
	}
	setDur := func(dst *Duration, v Duration) {
		if dst.Duration <= 0 {
			*dst = v
		}
	}

	setString(&c.DBPath, def.DBPath)
	setString(&c.StoreDir, def.StoreDir)
	setString(&c.LogPath, def.LogPath)
	setString(&c.LogLevel, def.LogLevel)
	setString(&c.Server.Addr, def.Server.Addr)

	d, dd := &c.Display, def.Display
	setInt(&d.PageSize, dd.PageSize)
	setInt(&d.MaxVisiblePages, dd.MaxVisiblePages)
	setInt(&d.EndlessIncrement, dd.EndlessIncrement)
	setInt(&d.ScrollThreshold, dd.ScrollThreshold)
	setInt(&d.ActionDepth, dd.ActionDepth)
	setDur(&d.ScrollThrottle, dd.ScrollThrottle)
	setDur(&d.SearchDebounce, dd.SearchDebounce)
	setDur(&d.FilterDebounce, dd.FilterDebounce)
	setDur(&d.DeleteTimeout, dd.DeleteTimeout)
	setString(&d.DefaultFilter, dd.DefaultFilter)
	setString(&d.DefaultSort, dd.DefaultSort)
	setString(&d.DefaultLimit, dd.DefaultLimit)

	k, dk := &c.Keys, def.Keys
	for _, f := range []struct {
		dst *string
		v   string
	}{
		{&k.Quit, dk.Quit}, {&k.Add, dk.Add}, {&k.Up, dk.Up}, {&k.Down, dk.Down},
		{&k.Edit, dk.Edit}, {&k.Delete, dk.Delete}, {&k.Confirm, dk.Confirm},
		{&k.Cancel, dk.Cancel}, {&k.Search, dk.Search}, {&k.NextPage, dk.NextPage},
		{&k.PrevPage, dk.PrevPage}, {&k.CycleFilter, dk.CycleFilter},
		{&k.CycleSort, dk.CycleSort}, {&k.CycleLimit, dk.CycleLimit},
		{&k.ClearFilters, dk.ClearFilters}, {&k.LoadMore, dk.LoadMore},
		{&k.Save, dk.Save}, {&k.NextField, dk.NextField},
	} {
		if *f.dst == "" {
			*f.dst = f.v
		}
	}
}

// resolve expands ~ and anchors relative paths at base.
func (c Config) resolve(base string) Config {
	c.DBPath = resolvePath(c.DBPath, base)
	c.StoreDir = resolvePath(c.StoreDir, base)
	c.LogPath = resolvePath(c.LogPath, base)
	return c
}

func resolvePath(p, base string) string {
	if p == "" || strings.HasPrefix(p, "file:") {
		return p
	}
	if expanded, err := homedir.Expand(p); err == nil {
		p = expanded
	}
	if filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func Default() Config {
	return Config{
		DBPath:   DefaultDBName,
		StoreDir: DefaultStoreDir,
		LogPath:  DefaultLogName,
		LogLevel: "info",
		Display: Display{
			PageSize:         10,
			MaxVisiblePages:  7,
			EndlessIncrement: 10,
			ScrollThreshold:  200,
			ScrollThrottle:   Duration{150 * time.Millisecond},
			SearchDebounce:   Duration{300 * time.Millisecond},
			FilterDebounce:   Duration{150 * time.Millisecond},
			DeleteTimeout:    Duration{10 * time.Second},
			ActionDepth:      10,
			DefaultFilter:    "all",
			DefaultSort:      "newest",
			DefaultLimit:     "10",
		},
		Server: Server{Addr: "127.0.0.1:8080"},
		Keys: Keymap{
			Quit:         "q",
			Add:          "a",
			Up:           "k",
			Down:         "j",
			Edit:         "e",
			Delete:       "d",
			Confirm:      "y",
			Cancel:       "esc",
			Search:       "/",
			NextPage:     "l",
			PrevPage:     "h",
			CycleFilter:  "f",
			CycleSort:    "s",
			CycleLimit:   "m",
			ClearFilters: "c",
			LoadMore:     "G",
			Save:         "ctrl+s",
			NextField:    "tab",
		},
	}
}
