// Package config loads hubspotkit configuration with viper and godotenv.
//
// LoadConfig resolves config.yml and .env for a service, binds environment
// variables onto nested keys (HUBSPOT_AUTH_TOKEN sets hubspot.auth_token),
// unmarshals into the target struct and then applies its defaults and
// validation when the struct provides them.
//
//	var cfg DebugConfig
//	if err := config.LoadConfig("hubspot-debug", &cfg); err != nil {
//	    return err
//	}
package config
