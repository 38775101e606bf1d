// Package config loads process configuration with Viper.
//
// LoadConfig reads an optional YAML file, an optional .env file (via
// godotenv) and the process environment, then unmarshals into the caller's
// struct using mapstructure tags. Environment variables override file
// values; a key such as announce.discovery.hosts is read from
// ANNOUNCE_DISCOVERY_HOSTS.
//
//	var cfg AppConfig
//	err := config.LoadConfig("announced", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithDefaults(announce.Defaults("announce")),
//	)
package config
