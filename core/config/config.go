package config

import (
	"reflect"
	"strings"

	"course-manager/core/database"
	"course-manager/core/logger"
	"course-manager/core/reconcile"
	"course-manager/core/server"
	"course-manager/core/storage"
	"course-manager/core/store"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the video and material areas.
	Storage storage.Config `mapstructure:"storage"`
	// Store selects where the course collection is persisted.
	Store store.Config `mapstructure:"store"`
	// Lock selects the writer lock shared by all instances.
	Lock store.LockConfig `mapstructure:"lock"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database is used when the store driver is sql.
	Database database.Config `mapstructure:"database"`
	// Integrity tunes the reference sweep.
	Integrity reconcile.Config `mapstructure:"integrity"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine outside development.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Empty defaults still register the key so AutomaticEnv can see it.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
