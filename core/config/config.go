package config

import (
	"reflect"
	"strings"

	"s3kit/core/logger"
	"s3kit/core/transport"
	"s3kit/feature/fakes3"
	"s3kit/feature/s3"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the CLI, divided into partial
// configurations per concern.
type Config struct {
	// Storage holds the client's endpoint and credentials.
	Storage s3.Config `mapstructure:"storage"`
	// Transport holds HTTP transport tuning.
	Transport transport.Config `mapstructure:"transport"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Fake holds configuration for the in-memory endpoint.
	Fake fakes3.Config `mapstructure:"fake"`
}

// LoadConfig loads configuration from environment variables and a .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env if present; its absence is fine (e.g. production).
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Register defaults from struct tags so AutomaticEnv picks the keys up.
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (STORAGE_ACCESS_KEY -> storage.access_key).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct recursively and registers default values in
// Viper based on the 'default' and 'mapstructure' tags.
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

		defaultValue := field.Tag.Get("default")
		v.SetDefault(key, defaultValue)
	}
}
