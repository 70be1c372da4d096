package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Namespace string  `yaml:"namespace" env:"NAMESPACE" env-default:"tic-tac-toe"`
	Storage   Storage `yaml:"storage"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"bolt"`
	Redis  Redis  `yaml:"redis"`
	Bolt   Bolt   `yaml:"bolt"`
	SQLite SQLite `yaml:"sqlite"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Bolt struct {
	Path   string `yaml:"path" env:"BOLT_PATH" env-default:"tictactoe.db"`
	Bucket string `yaml:"bucket" env:"BOLT_BUCKET" env-default:"tic-tac-toe"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"tictactoe.sqlite"`
}

// MustLoad - load all configurations in config.yml file, env and defaults only when the file is absent.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	err := cleanenv.ReadConfig(path, config)
	if errors.Is(err, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
