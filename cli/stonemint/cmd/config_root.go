package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cryptograss/stonemint/internal/logger"
)

type (
	baseConfiguration struct {
		// The stonemint home directory
		HomeDir string
		// Configuration file URL. If it's relative, then it's relative from the HomeDir.
		CfgFile string
		// Env file with KEY=value lines. If it's relative, then it's relative from the HomeDir.
		EnvFile string
		// Logger configuration file URL.
		LogCfgFile string
	}
)

const (
	// The prefix for configuration keys inside environment.
	envPrefix = "SM"
	// The default name for config file.
	defaultConfigFile = "config.props"
	// The default name for env file.
	defaultEnvFile = ".env"
	// the default stonemint directory.
	defaultStonemintDir = ".stonemint"
	// The default logger configuration file name.
	defaultLoggerConfigFile = "logger-config.yaml"
	// The configuration key for home directory.
	keyHome = "home"
	// The configuration key for config file name.
	keyConfig = "config"
	// The configuration key for env file name.
	keyEnvFile = "env-file"

	flagNameLoggerCfgFile = "logger-config"
	flagNameLogOutputFile = "log-file"
	flagNameLogLevel      = "log-level"
	flagNameLogFormat     = "log-format"
)

func (r *baseConfiguration) addConfigurationFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&r.HomeDir, keyHome, "", fmt.Sprintf("set the SM_HOME for this invocation (default is %s)", stonemintHomeDir()))
	cmd.PersistentFlags().StringVar(&r.CfgFile, keyConfig, "", fmt.Sprintf("config file URL (default is $SM_HOME/%s)", defaultConfigFile))
	cmd.PersistentFlags().StringVar(&r.EnvFile, keyEnvFile, "", fmt.Sprintf("env file URL, loaded when it exists (default is $SM_HOME/%s)", defaultEnvFile))

	cmd.PersistentFlags().StringVar(&r.LogCfgFile, flagNameLoggerCfgFile, defaultLoggerConfigFile, "logger config file URL. Considered absolute if starts with '/'. Otherwise relative from $SM_HOME.")
	// do not set default values for these flags as then we can easily determine whether to load the value from cfg file or not
	cmd.PersistentFlags().String(flagNameLogOutputFile, "", "log file path or one of the special values: stdout, stderr, discard")
	cmd.PersistentFlags().String(flagNameLogLevel, "", "logging level, one of: TRACE, DEBUG, INFO, WARNING, ERROR, NONE")
	cmd.PersistentFlags().String(flagNameLogFormat, "", "log format, one of: console, json")
}

func (r *baseConfiguration) initConfigFileLocation() {
	// Home directory and config file are special configuration values as these are used for loading in rest of the configuration.
	// Handle these manually, before other configuration loaded with Viper.

	// Home dir is loaded from command line argument. If it's not set, then from env. If that's not set, then default is used.
	if r.HomeDir == "" {
		r.HomeDir = os.Getenv(envKey(keyHome))
		if r.HomeDir == "" {
			r.HomeDir = stonemintHomeDir()
		}
	}

	// Config file name is loaded from command line argument. If it's not set, then from env. If that's not set, then default is used.
	if r.CfgFile == "" {
		r.CfgFile = os.Getenv(envKey(keyConfig))
		if r.CfgFile == "" {
			r.CfgFile = defaultConfigFile
		}
	}
	if !filepath.IsAbs(r.CfgFile) {
		r.CfgFile = filepath.Join(r.HomeDir, r.CfgFile)
	}
}

/*
loadEnvFile sets environment variables from the env file. The default file is
optional, the one given with the flag must exist.
*/
func (r *baseConfiguration) loadEnvFile() error {
	envFile := r.EnvFile
	if envFile == "" {
		envFile = filepath.Join(r.HomeDir, defaultEnvFile)
		if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	} else if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(r.HomeDir, envFile)
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("loading env file %s: %w", envFile, err)
	}
	return nil
}

/*
LoggerCfgFilename always returns non-empty filename - either the value
of the flag set by user or default cfg location.
*/
func (r *baseConfiguration) LoggerCfgFilename() string {
	if !filepath.IsAbs(r.LogCfgFile) {
		return filepath.Join(r.HomeDir, r.LogCfgFile)
	}
	return r.LogCfgFile
}

func (r *baseConfiguration) configFileExists() bool {
	_, err := os.Stat(r.CfgFile)
	return err == nil
}

/*
initLogger configures the global logger from the logger config file and the
logging flags in "cmd". Missing default logger config file is not an error.
*/
func (r *baseConfiguration) initLogger(cmd *cobra.Command) error {
	cfg := logger.DefaultConfig()

	loggerCfgFile := filepath.Clean(r.LoggerCfgFilename())
	if loaded, err := logger.LoadGlobalConfig(loggerCfgFile); err != nil {
		defaultLoggerCfg := filepath.Join(r.HomeDir, defaultLoggerConfigFile)
		if !(errors.Is(err, os.ErrNotExist) && loggerCfgFile == defaultLoggerCfg) {
			return err
		}
	} else {
		cfg = *loaded
	}

	getFlagValueIfSet := func(flagName string, value *string) error {
		if cmd.Flags().Changed(flagName) {
			var err error
			if *value, err = cmd.Flags().GetString(flagName); err != nil {
				return fmt.Errorf("failed to read %s flag value: %w", flagName, err)
			}
		}
		return nil
	}

	// flags override values loaded from cfg file.
	// NB! these flags mustn't have default values in Cobra cmd definition!
	var level string
	if err := getFlagValueIfSet(flagNameLogLevel, &level); err != nil {
		return err
	}
	if level != "" {
		cfg.DefaultLevel = logger.LevelFromString(level)
	}
	if err := getFlagValueIfSet(flagNameLogFormat, &cfg.Format); err != nil {
		return err
	}
	if err := getFlagValueIfSet(flagNameLogOutputFile, &cfg.OutputPath); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return logger.UpdateGlobalConfig(cfg)
}

func envKey(key string) string {
	return strings.ToUpper(envPrefix + "_" + key)
}

func stonemintHomeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		panic("default user home dir not defined: " + err.Error())
	}
	return filepath.Join(dir, defaultStonemintDir)
}
