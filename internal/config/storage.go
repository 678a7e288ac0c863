package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// AuthStorage keeps the remembered session in the auth section of the config file.
// It is the long-lived ("remember me") session scope.
type AuthStorage struct{}

// NewAuthStorage returns the config-file session scope
func NewAuthStorage() *AuthStorage {
	return &AuthStorage{}
}

// Get returns the value stored under key
func (s *AuthStorage) Get(key string) (string, bool) {
	value := viper.GetString(authKey(key))
	return value, value != ""
}

// Put stores all entries with a single write of the config file
func (s *AuthStorage) Put(entries map[string]string) error {
	for key, value := range entries {
		viper.Set(authKey(key), value)
	}
	if err := writeConfig(); err != nil {
		return fmt.Errorf("failed to save authentication info: %w", err)
	}
	return reload()
}

// Delete clears the given keys with a single write of the config file
func (s *AuthStorage) Delete(keys ...string) error {
	changed := false
	for _, key := range keys {
		if viper.GetString(authKey(key)) != "" {
			changed = true
		}
		viper.Set(authKey(key), "")
	}
	if !changed {
		return nil
	}
	if err := writeConfig(); err != nil {
		return fmt.Errorf("failed to clear authentication info: %w", err)
	}
	return reload()
}

func authKey(key string) string {
	return "auth." + key
}
