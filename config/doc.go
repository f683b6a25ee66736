// Package config loads layered configuration for speakeralign entry points.
//
// Values come from a YAML file, an optional .env file and prefixed
// environment variables, merged with viper and unmarshalled into a caller
// struct that embeds ServiceConfig:
//
//	var cfg AppConfig
//	if err := config.Load("speakeralign", &cfg, config.WithConfigFile(path)); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	err := cfg.Validate()
package config
