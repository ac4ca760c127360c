// Package config collects the service settings from defaults, an optional
// JSON file, the environment (including a .env file) and command-line flags,
// in increasing order of priority, and validates the result.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/thoas/go-funk"
)

const DefaultValidationURL = "https://schoolbaseapp.com/validate-name"

type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	Port                string        `env:"PORT" validate:"omitempty,numeric"`
	ValidationURL       string        `env:"VALIDATION_URL" validate:"url"`
	ValidationTimeout   time.Duration `env:"VALIDATION_TIMEOUT" validate:"gte=0"`
	UsersFile           string        `env:"USERS_FILE" validate:"filepath"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT" validate:"gte=0"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	ConfigFile          string        `env:"CONFIG"`
}

// fileConfig mirrors Config for the JSON file. Durations are written as
// strings understood by time.ParseDuration, e.g. "5s".
type fileConfig struct {
	RunAddr             string  `json:"server_address"`
	ValidationURL       string  `json:"validation_url"`
	ValidationTimeout   string  `json:"validation_timeout"`
	UsersFile           *string `json:"users_file"`
	DatabaseDSN         string  `json:"database_dsn"`
	DBConnectionTimeout string  `json:"db_connection_timeout"`
	MigrationsDir       string  `json:"migrations_dir"`
	LogLevel            string  `json:"log_level"`
}

var defaultConfig = Config{
	RunAddr:             ":3000",
	ValidationURL:       DefaultValidationURL,
	ValidationTimeout:   0,
	UsersFile:           "data/users.json",
	DatabaseDSN:         "",
	DBConnectionTimeout: 10 * time.Second,
	MigrationsDir:       "migrations",
	LogLevel:            "info",
}

var allowedLogLevels = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	return funk.ContainsString(allowedLogLevels, fieldLevel.Field().String())
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	args                []string
}

func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs replaces os.Args[1:] as the source of command-line flags.
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

// New builds the configuration. Priority: flags > environment > JSON file > defaults.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                os.Args[1:],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env file: %w", err)
	}

	var fromFlags Config
	var flagSet *flag.FlagSet
	if !options.disableFlagsParsing {
		flagSet, err = parseFlags(options.args, &fromFlags)
		if err != nil {
			return nil, err
		}
	}

	var fromEnv Config
	err = env.Parse(&fromEnv)
	if err != nil {
		return nil, err
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	configFile := fromEnv.ConfigFile
	if fromFlags.ConfigFile != "" {
		configFile = fromFlags.ConfigFile
	}
	if configFile != "" {
		if err := values.applyFile(configFile); err != nil {
			return nil, err
		}
		values.ConfigFile = configFile
	}

	values.applyEnv(&fromEnv)

	if err := values.clarifyRunAddr(); err != nil {
		return nil, err
	}

	if flagSet != nil {
		values.applyFlags(flagSet, &fromFlags)
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}

func parseFlags(args []string, target *Config) (*flag.FlagSet, error) {
	flagSet := flag.NewFlagSet("namecheck", flag.ContinueOnError)
	flagSet.StringVar(&target.RunAddr, "a", "", "address and port to run server")
	flagSet.StringVar(&target.ValidationURL, "v", "", "URL of the remote name validation service")
	flagSet.StringVar(&target.UsersFile, "f", "", "JSON file with the list of user names")
	flagSet.StringVar(&target.DatabaseDSN, "d", "", "A string with the database connection details")
	flagSet.StringVar(&target.LogLevel, "l", "", "logger level")
	flagSet.StringVar(&target.ConfigFile, "c", "", "JSON configuration file")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	return flagSet, nil
}

func (c *Config) applyFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var fromFile fileConfig
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("unable to parse config file %s: %w", fileName, err)
	}

	if fromFile.RunAddr != "" {
		c.RunAddr = fromFile.RunAddr
	}
	if fromFile.ValidationURL != "" {
		c.ValidationURL = fromFile.ValidationURL
	}
	if fromFile.UsersFile != nil {
		c.UsersFile = *fromFile.UsersFile
	}
	if fromFile.DatabaseDSN != "" {
		c.DatabaseDSN = fromFile.DatabaseDSN
	}
	if fromFile.MigrationsDir != "" {
		c.MigrationsDir = fromFile.MigrationsDir
	}
	if fromFile.LogLevel != "" {
		c.LogLevel = fromFile.LogLevel
	}
	if fromFile.ValidationTimeout != "" {
		c.ValidationTimeout, err = time.ParseDuration(fromFile.ValidationTimeout)
		if err != nil {
			return fmt.Errorf("invalid validation_timeout in %s: %w", fileName, err)
		}
	}
	if fromFile.DBConnectionTimeout != "" {
		c.DBConnectionTimeout, err = time.ParseDuration(fromFile.DBConnectionTimeout)
		if err != nil {
			return fmt.Errorf("invalid db_connection_timeout in %s: %w", fileName, err)
		}
	}

	return nil
}

// isEnvSet reports whether the variable is present, even with an empty value.
// Durations set to zero and an empty USERS_FILE override earlier sources.
func isEnvSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func (c *Config) applyEnv(valuesFromEnv *Config) {
	if valuesFromEnv.RunAddr != "" {
		c.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.Port != "" {
		c.Port = valuesFromEnv.Port
	}

	if valuesFromEnv.ValidationURL != "" {
		c.ValidationURL = valuesFromEnv.ValidationURL
	}

	if isEnvSet("VALIDATION_TIMEOUT") {
		c.ValidationTimeout = valuesFromEnv.ValidationTimeout
	}

	if isEnvSet("USERS_FILE") {
		c.UsersFile = valuesFromEnv.UsersFile
	}

	if valuesFromEnv.DatabaseDSN != "" {
		c.DatabaseDSN = valuesFromEnv.DatabaseDSN
	}

	if isEnvSet("DB_CONNECTION_TIMEOUT") {
		c.DBConnectionTimeout = valuesFromEnv.DBConnectionTimeout
	}

	if valuesFromEnv.MigrationsDir != "" {
		c.MigrationsDir = valuesFromEnv.MigrationsDir
	}

	if valuesFromEnv.LogLevel != "" {
		c.LogLevel = valuesFromEnv.LogLevel
	}
}

// applyFlags copies only the flags that were given on the command line.
func (c *Config) applyFlags(flagSet *flag.FlagSet, valuesFromFlags *Config) {
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			c.RunAddr = valuesFromFlags.RunAddr
		case "v":
			c.ValidationURL = valuesFromFlags.ValidationURL
		case "f":
			c.UsersFile = valuesFromFlags.UsersFile
		case "d":
			c.DatabaseDSN = valuesFromFlags.DatabaseDSN
		case "l":
			c.LogLevel = valuesFromFlags.LogLevel
		}
	})
}

// clarifyRunAddr replaces the port of RunAddr with PORT when it is set.
func (c *Config) clarifyRunAddr() error {
	if c.Port == "" {
		return nil
	}

	host, _, err := net.SplitHostPort(c.RunAddr)
	if err != nil {
		return fmt.Errorf("invalid server address %q: %w", c.RunAddr, err)
	}
	c.RunAddr = net.JoinHostPort(host, c.Port)

	return nil
}
