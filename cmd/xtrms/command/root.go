// Package command holds the cobra commands of xtrms.
package command

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ndwade/xtrms"
	"github.com/ndwade/xtrms/meta"
)

var (
	configFile string

	Root = &cobra.Command{
		Use:   "xtrms",
		Short: "xtrms compiles regular expressions into tagged automata.",
		Long: "`xtrms` matches patterns against files and prints the syntax tree, NFA and DFA a pattern compiles to.\n\n" +
			"Flags can also be set in a config file ($HOME/.xtrms.yaml or --config) or in XTRMS_ environment variables, e.g. XTRMS_LOG_LEVEL=debug.",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	flags := Root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default $HOME/.xtrms.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("style", "dynamic", "engine style: dynamic, dfa or nfa")
	flags.BoolP("ignore-case", "i", false, "match letters regardless of case")
	flags.BoolP("multiline", "m", false, "^ and $ match at line boundaries")
	flags.BoolP("dotall", "s", false, ". matches line terminators")
	flags.Bool("literal", false, "treat the pattern as literal text")
	flags.Bool("unicode-lines", false, "every Unicode line terminator ends a line")
	flags.Bool("longest", false, "leftmost-longest instead of leftmost-first matching")
}

// initConfig layers the config file and the environment under the flags
// and installs the log handler.
func initConfig(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".xtrms.yaml"))
	}
	v.SetEnvPrefix("XTRMS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	loaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return fmt.Errorf("reading config: %w", err)
		}
		loaded = false
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))
	if loaded {
		slog.Debug("config loaded", "file", v.ConfigFileUsed())
	}
	return nil
}

// patternFlags returns the compile flags set on the command line, in the
// config file or in the environment.
func patternFlags() xtrms.Flags {
	var f xtrms.Flags
	for name, flag := range map[string]xtrms.Flags{
		"ignore-case":   xtrms.CaseInsensitive,
		"multiline":     xtrms.Multiline,
		"dotall":        xtrms.DotAll,
		"literal":       xtrms.Literal,
		"unicode-lines": xtrms.UnicodeLines,
		"longest":       xtrms.LeftmostLongest,
	} {
		if viper.GetBool(name) {
			f |= flag
		}
	}
	return f
}

func engineConfig() (meta.Config, error) {
	config := meta.DefaultConfig()
	style, err := meta.ParseStyle(viper.GetString("style"))
	if err != nil {
		return config, err
	}
	config.Style = style
	config.Logger = slog.Default()
	return config, nil
}

// compile compiles the pattern with the configured flags and style.
func compile(pattern string) (*xtrms.Regexp, error) {
	config, err := engineConfig()
	if err != nil {
		return nil, err
	}
	return xtrms.CompileWithConfig(pattern, patternFlags(), config)
}

// boolFlag reads a local boolean flag that is not bound to viper.
func boolFlag(flags *pflag.FlagSet, name string) bool {
	b, err := flags.GetBool(name)
	return err == nil && b
}
