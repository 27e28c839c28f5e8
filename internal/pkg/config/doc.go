// Package config provides functionality for loading and managing application configuration.
//
// Settings are grouped per concern (database, logger, server, auth, notification,
// storage) as structs with mapstructure tags, loaded from YAML files under configs/
// via viper. Deployment platforms inject DATABASE_URL, SECRET_KEY and PORT; those
// environment variables always win over file values.
package config
