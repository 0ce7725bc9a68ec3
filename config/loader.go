package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configName = "." + global.BinaryName

// Load builds the configuration of cmd from, by precedence, its flags, the
// environment, an optional config file and the defaults. Variables of a .env
// file in the working directory are loaded into the environment first.
func Load(cmd *cobra.Command) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.ErrInvalidArgument("config", err.Error())
	}

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(global.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// set default configs
	setDefaultConfig(v)

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errs.ErrInvalidArgument("config", err.Error())
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath("./")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errs.ErrInvalidArgument("config", err.Error())
			}
		}
	}

	return populateConfig(v, new(Config))
}
