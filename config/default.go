package config

import (
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/spf13/viper"
)

func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("LogConfig.EnableConsole", true)
	v.SetDefault("LogConfig.ConsoleJSONFormat", false)
	v.SetDefault("LogConfig.ConsoleLevel", "info")
	v.SetDefault("LogConfig.EnableFile", false)
	v.SetDefault("LogConfig.FileJSONFormat", true)
	v.SetDefault("LogConfig.FileLevel", "debug")
	v.SetDefault("LogConfig.FileLocation", "./"+global.BinaryName+".log")
	v.SetDefault("unit", "lines")
	v.SetDefault("filter-baseline", true)
	v.SetDefault("port", global.DefaultPort)
	v.SetDefault("azure.container", "coverage")
	v.SetDefault("verbose", false)
}
