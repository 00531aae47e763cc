// Package config reads run configuration from the environment and, for local
// runs, from command line flags.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/younsl/lambda-function-manager/internal/logging"
	"github.com/younsl/lambda-function-manager/internal/models"
	awsclient "github.com/younsl/lambda-function-manager/pkg/aws"
	"github.com/younsl/lambda-function-manager/pkg/retention"
)

// Configuration keys. Each maps to the upper-case environment variable.
const (
	KeyRetentionDays     = "retention_days"
	KeyEnvironment       = "environment"
	KeyLogLevel          = "log_level"
	KeyProtectedPatterns = "protected_patterns"
	KeyProtectedTagKeys  = "protected_tag_keys"
	KeyDryRun            = "dry_run"
	KeyMetricsNamespace  = "metrics_namespace"
	KeyRegion            = "region"
)

// Defaults
const (
	DefaultRetentionDays = 30
	DefaultEnvironment   = "dev"
)

// Config is the fully resolved configuration of the function manager
type Config struct {
	Retention        models.RetentionConfig
	LogLevel         string
	MetricsNamespace string
	Region           string
}

// Loader resolves configuration from the environment on every Load call
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader bound to the process environment
func NewLoader() *Loader {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(KeyRetentionDays, DefaultRetentionDays)
	v.SetDefault(KeyEnvironment, DefaultEnvironment)
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyMetricsNamespace, awsclient.DefaultMetricsNamespace)
	_ = v.BindEnv(KeyRegion, "AWS_REGION", "AWS_DEFAULT_REGION")

	return &Loader{v: v}
}

// BindFlags lets command line flags override environment values when set
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyRetentionDays: "retention-days",
		KeyEnvironment:   "environment",
		KeyLogLevel:      "log-level",
		KeyDryRun:        "dry-run",
		KeyRegion:        "region",
	}

	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// LogLevel returns the raw LOG_LEVEL value
func (l *Loader) LogLevel() string {
	return l.v.GetString(KeyLogLevel)
}

// Load resolves and validates the current configuration
func (l *Loader) Load() (Config, error) {
	retentionDays, err := parseRetentionDays(l.v.GetString(KeyRetentionDays))
	if err != nil {
		return Config{}, err
	}

	dryRun, err := strconv.ParseBool(strings.TrimSpace(l.v.GetString(KeyDryRun)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DRY_RUN %q: %w", l.v.GetString(KeyDryRun), err)
	}

	patterns := listOrDefault(l.v.GetString(KeyProtectedPatterns), retention.DefaultProtectedPatterns)
	if _, err := retention.CompilePatterns(patterns); err != nil {
		return Config{}, err
	}

	tagKeys := listOrDefault(l.v.GetString(KeyProtectedTagKeys), retention.DefaultProtectedTagKeys)

	return Config{
		Retention: models.RetentionConfig{
			RetentionDays:     retentionDays,
			Environment:       l.v.GetString(KeyEnvironment),
			ProtectedPatterns: patterns,
			ProtectedTagKeys:  tagKeys,
			DryRun:            dryRun,
		},
		LogLevel:         l.v.GetString(KeyLogLevel),
		MetricsNamespace: l.v.GetString(KeyMetricsNamespace),
		Region:           l.v.GetString(KeyRegion),
	}, nil
}

// LoadRetention is a cleanup.ConfigLoader reading the retention settings only
func (l *Loader) LoadRetention() (models.RetentionConfig, error) {
	cfg, err := l.Load()
	if err != nil {
		return models.RetentionConfig{}, err
	}
	return cfg.Retention, nil
}

func parseRetentionDays(raw string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid RETENTION_DAYS %q: %w", raw, err)
	}
	if days < 0 {
		return 0, fmt.Errorf("invalid RETENTION_DAYS %d: must not be negative", days)
	}
	return days, nil
}

// listOrDefault returns the items of raw, or def when raw holds no items.
// A blank value never disables protections.
func listOrDefault(raw string, def []string) []string {
	if items := splitList(raw); len(items) > 0 {
		return items
	}
	return def
}

// splitList splits a comma separated value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
