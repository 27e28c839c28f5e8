package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StorageSettings configures where uploaded service order photos live on disk.
type StorageSettings struct {
	MediaRoot string `mapstructure:"media_root" validate:"required"`
}

// Validate checks that all fields in StorageSettings are valid
func (s *StorageSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for StorageSettings: %w", err)
	}

	return nil
}
