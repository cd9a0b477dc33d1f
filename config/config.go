package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"launch-bot/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultAPIURL = "https://ll.thespacedevs.com/2.2.0/launch/upcoming/"

// DefaultFallbackNotice is replied on a post that could not take a pin slot.
const DefaultFallbackNotice = "Both pinned slots are currently in use, so this launch announcement could not be pinned."

// Flags returns the command-line flags shared by both entry points.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", ".", "directory containing config.yaml")
	fs.String("storage.pinLog", "", "override the pin-log path")
	fs.String("storage.errorLog", "", "override the error log path")
	return fs
}

// LoadConfig loads configuration from several sources, lowest precedence first:
// 1. built-in defaults
// 2. config.yaml in the --config directory
// 3. the .env file and the environment (bot.token is also read from BOT_TOKEN)
// 4. command-line flags that were explicitly set
func LoadConfig(flags *pflag.FlagSet) (*models.Config, error) {
	// .env is optional.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	v := viper.New()
	setDefaults(v)

	dir := "."
	if flags != nil {
		if d, err := flags.GetString("config"); err == nil && d != "" {
			dir = d
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("bot.token", "BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind BOT_TOKEN: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Printf("No config.yaml found in %s, using environment variables and defaults.", dir)
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || !f.Changed {
				return
			}
			if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the decoded configuration.
func Validate(cfg *models.Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.adminChannelId", "")
	v.SetDefault("bot.userAgent", "launch-bot/1.0")

	v.SetDefault("forum.guildId", "")
	v.SetDefault("forum.channelId", "")
	v.SetDefault("forum.tagId", "")
	v.SetDefault("forum.pinSlots", 2)
	v.SetDefault("forum.hotLimit", 10)
	v.SetDefault("forum.commentLimit", 100)
	v.SetDefault("forum.fallbackNotice", DefaultFallbackNotice)

	v.SetDefault("launches.apiUrl", DefaultAPIURL)
	v.SetDefault("launches.lookaheadHours", 24)
	v.SetDefault("launches.timezone", "America/New_York")
	v.SetDefault("launches.timeout", 30*time.Second)

	v.SetDefault("storage.pinLog", "stickied_log.txt")
	v.SetDefault("storage.errorLog", "error_log.txt")
	v.SetDefault("storage.historyDB", "data/announcements.db")
}
