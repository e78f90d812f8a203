package main

import (
	"strings"

	"github.com/iccolo/rmagui"
	"github.com/iccolo/rmagui/rmahttp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	applicationName = "rmagui"

	// envPrefix is prepended to environment overrides, e.g. RMA_CLIENT_BASEADDRESS
	envPrefix = "RMA"
)

// CLI is the parsed command line.
type CLI struct {
	// File is the optional YAML configuration file
	File string

	// Dev forces development logging
	Dev bool
}

func parseCommandLine(args []string) (cli CLI, err error) {
	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	fs.StringVarP(&cli.File, "file", "f", "", "the configuration file")
	fs.BoolVar(&cli.Dev, "dev", false, "development mode logging")

	err = fs.Parse(args)
	if err != nil {
		err = rmagui.UseExitCode(err, rmagui.UsageExitCode)
	}

	return
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// setDefaults establishes every configuration key.  Environment overrides
// only apply to keys viper knows about, so each one gets a default here.
func setDefaults(v *viper.Viper) {
	cc := rmahttp.DefaultClientConfig()
	v.SetDefault("client.timeout", cc.Timeout.String())
	v.SetDefault("client.responseEncoding", cc.ResponseEncoding.String())
	v.SetDefault("client.baseAddress", cc.BaseAddress)

	v.SetDefault("server.address", ":8080")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("pprof.enabled", false)
	v.SetDefault("pprof.pathPrefix", "")
	v.SetDefault("pprof.cpuProfile", "")
	v.SetDefault("pprof.heapProfile", "")
	v.SetDefault("pprof.overwrite", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.encoding", "")
}

// newViper builds the configuration from defaults, the optional file, and
// the environment, in increasing order of precedence.
func newViper(cli CLI) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(cli.File) > 0 {
		v.SetConfigFile(cli.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
		}
	}

	// UnmarshalKey reads a nested key as one map and skips environment
	// overrides of its children, so hand components the effective settings.
	effective := viper.New()
	if err := effective.MergeConfigMap(v.AllSettings()); err != nil {
		return nil, rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
	}

	return effective, nil
}

func newLogConfig(v *viper.Viper, cli CLI) (lc rmagui.LogConfig, err error) {
	err = v.UnmarshalKey("logging", &lc, rmagui.DefaultDecodeHooks)
	if cli.Dev {
		lc.Development = true
	}

	return
}
