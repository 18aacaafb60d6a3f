package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Keys understood by Overlay. Flags bound to a viper instance use the same
// names; environment variables are DREAMLOG_ plus the upper-cased key with
// dots turned into underscores.
const (
	KeyDBPath   = "db_path"
	KeyStoreDir = "store_dir"
	KeyLogPath  = "log_path"
	KeyLogLevel = "log_level"
	KeyAddr     = "server.addr"
	KeyPageSize = "display.page_size"
)

// NewViper returns a viper instance reading DREAMLOG_* variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DREAMLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Overlay applies values set in v (changed flags or environment) on top of
// the file configuration.
func Overlay(cfg Config, v *viper.Viper) Config {
	if v == nil {
		return cfg
	}
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			if s := strings.TrimSpace(v.GetString(key)); s != "" {
				*dst = s
			}
		}
	}
	str(KeyDBPath, &cfg.DBPath)
	str(KeyStoreDir, &cfg.StoreDir)
	str(KeyLogPath, &cfg.LogPath)
	str(KeyLogLevel, &cfg.LogLevel)
	str(KeyAddr, &cfg.Server.Addr)
	if v.IsSet(KeyPageSize) {
		if n := v.GetInt(KeyPageSize); n > 0 {
			cfg.Display.PageSize = n
		}
	}
	return cfg
}
