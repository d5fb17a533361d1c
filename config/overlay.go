/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. VIGIL_MODE.
const EnvPrefix = "VIGIL"

// Viper keys that may override the file config. Nested keys use dots;
// their environment names use underscores (VIGIL_SERVER_LISTEN).
const (
	KeyThemeDir  = "themeDir"
	KeyMode      = "mode"
	KeyStrict    = "strict"
	KeyPrefix    = "prefix"
	KeySelector  = "selector"
	KeyListen    = "server.listen"
	KeyRateLimit = "server.rateLimit"
)

// NewViper returns a viper instance reading VIGIL_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{KeyThemeDir, KeyMode, KeyStrict, KeyPrefix, KeySelector, KeyListen, KeyRateLimit} {
		// AutomaticEnv only answers Get for keys viper already knows.
		_ = v.BindEnv(key)
	}
	return v
}

// Overlay applies every value set on v (by flag or environment) over the
// file config. Unset keys leave the file value alone.
func (c *Config) Overlay(v *viper.Viper) {
	if v == nil {
		return
	}
	if v.IsSet(KeyThemeDir) {
		c.ThemeDir = v.GetString(KeyThemeDir)
	}
	if v.IsSet(KeyMode) {
		c.Mode = v.GetString(KeyMode)
	}
	if v.IsSet(KeyStrict) {
		c.Strict = v.GetBool(KeyStrict)
	}
	if v.IsSet(KeyPrefix) {
		c.Prefix = v.GetString(KeyPrefix)
	}
	if v.IsSet(KeySelector) {
		c.Selector = v.GetString(KeySelector)
	}
	if v.IsSet(KeyListen) {
		c.Server.Listen = v.GetString(KeyListen)
	}
	if v.IsSet(KeyRateLimit) {
		c.Server.RateLimit = v.GetInt(KeyRateLimit)
	}
}
