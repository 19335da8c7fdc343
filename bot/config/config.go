package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// ErrMissingToken is returned by Validate when no bot token is configured.
var ErrMissingToken = errors.New("BOT_TOKEN is not set")

const rulePrefix = "rules."

// RuleConfig stores the settings of one tracking rule group as key-value pairs.
type RuleConfig map[string]string

// Config wraps viper and provides typed accessors.
type Config struct {
	v     *viper.Viper
	rules map[string]RuleConfig
}

// Load reads an INI config file and prepares defaults.
// A missing file is not an error; the environment alone can configure the bot.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LINKCLEANBOT")
	v.AutomaticEnv()
	if err := v.BindEnv("BOT_TOKEN", "LINKCLEANBOT_BOT_TOKEN", "BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	setDefaults(v)

	c := &Config{
		v:     v,
		rules: make(map[string]RuleConfig),
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		cfg, err := loadINI(v, path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		loadRules(cfg, c)
		return c, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("BotAPI", "https://api.telegram.org")
	v.SetDefault("BotDebug", false)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("LogSource", false)
	v.SetDefault("LogDir", "./log")
	v.SetDefault("WorkerPoolSize", 4)
	v.SetDefault("PollTimeoutSec", 30)
	v.SetDefault("RateLimitPerSecond", 1.0)
	v.SetDefault("RateLimitBurst", 3)
	v.SetDefault("EnableAutoScan", true)
	v.SetDefault("EnableWhitelist", false)
	v.SetDefault("WhitelistChatIDs", "")
	v.SetDefault("BotAdmin", "")
	v.SetDefault("ExtraTrackingParams", "")
	v.SetDefault("KeepTrackingParams", "")
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GetString("BOT_TOKEN")) == "" {
		return ErrMissingToken
	}
	return nil
}

// GetString returns a string value.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns an int value.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 returns a float64 value.
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringList splits a comma separated value, dropping blanks.
func (c *Config) GetStringList(key string) []string {
	raw := c.v.GetString(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetInt64List parses a comma separated list of integer IDs.
func (c *Config) GetInt64List(key string) ([]int64, error) {
	parts := c.GetStringList(key)
	if len(parts) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetRuleConfig retrieves the [rules.<name>] section.
func (c *Config) GetRuleConfig(name string) (RuleConfig, bool) {
	cfg, ok := c.rules[name]
	return cfg, ok
}

// RuleNames returns the rule groups that have a section in the config file.
func (c *Config) RuleNames() []string {
	if len(c.rules) == 0 {
		return nil
	}
	nameList := make([]string, 0, len(c.rules))
	for name := range c.rules {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)
	return nameList
}

// GetRuleString returns a value from a rule section, or "" when absent.
func (c *Config) GetRuleString(rule, key string) string {
	cfg, ok := c.rules[rule]
	if !ok {
		return ""
	}
	return cfg[key]
}

// GetRuleBool returns a bool from a rule section.
// Missing sections or keys yield def.
func (c *Config) GetRuleBool(rule, key string, def bool) bool {
	cfg, ok := c.rules[rule]
	if !ok {
		return def
	}
	val, ok := cfg[key]
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

func loadINI(v *viper.Viper, path string) (*ini.File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any)
	for _, key := range cfg.Section("").Keys() {
		values[key.Name()] = key.Value()
	}
	if err := v.MergeConfigMap(values); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadRules(cfg *ini.File, c *Config) {
	for _, section := range cfg.Sections() {
		sectionName := section.Name()
		if sectionName == "" || sectionName == ini.DefaultSection {
			continue
		}
		if !strings.HasPrefix(sectionName, rulePrefix) {
			continue
		}

		ruleName := strings.TrimPrefix(sectionName, rulePrefix)
		ruleCfg := make(RuleConfig)
		for _, key := range section.Keys() {
			ruleCfg[key.Name()] = key.Value()
		}
		c.rules[ruleName] = ruleCfg
	}
}
