package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/socket-network/socket-deployer/configs"
)

const EnvPrefix = "SOCKET_DEPLOYER"

var errConfigNotLoaded = errors.New("configuration not loaded")

// LoadConfig layers, in increasing precedence, the embedded defaults, the
// config file, SOCKET_DEPLOYER_* environment variables and the flags bound
// to v. An empty configFile searches for config.yaml next to the
// executable, in the working directory and in ./configs.
func LoadConfig(v *viper.Viper, configFile string) (configs.Config, error) {
	if err := configs.LoadDefaults(v); err != nil {
		return configs.Config{}, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for _, signer := range []configs.SignerName{configs.SignerSocketOwner, configs.SignerCounterOwner} {
		if err := v.BindEnv("signers." + string(signer)); err != nil {
			return configs.Config{}, fmt.Errorf("failed to bind signer environment: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		if execPath, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(execPath))
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Flags and defaults can provide all necessary configuration.
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return configs.Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		slog.Debug("no config file found, will rely on flags and defaults")
	} else {
		slog.With("config_file", v.ConfigFileUsed()).Debug("config file loaded")
	}

	return configs.Load(v)
}

// Config returns the configuration loaded by the root command.
func Config(ctx context.Context) (configs.Config, error) {
	cfg, ok := configs.FromContext(ctx)
	if !ok {
		return configs.Config{}, errConfigNotLoaded
	}
	return cfg, nil
}
