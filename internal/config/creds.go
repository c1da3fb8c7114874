package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DBCredentials holds connection details for one database, read from
// a block in the YAML credentials file:
//
//	source_db:
//	  RDS_HOST: rds.example.com
//	  RDS_PORT: 5432
//	  RDS_USER: etl
//	  RDS_PASSWORD: secret
//	  RDS_DATABASE: sales
//	target_db:
//	  ...
type DBCredentials struct {
	Host     string `koanf:"RDS_HOST" validate:"required"`
	Port     int    `koanf:"RDS_PORT" validate:"required"`
	User     string `koanf:"RDS_USER" validate:"required"`
	Password string `koanf:"RDS_PASSWORD" validate:"required"`
	Database string `koanf:"RDS_DATABASE" validate:"required"`
}

// LoadCredentials reads the credentials block named by key from the
// YAML file at path.
//
// An unknown key is an error that lists the keys the file does
// contain, since mixing up source and target is the common mistake.
func LoadCredentials(path, key string) (*DBCredentials, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading credentials file %s: %w", path, err)
	}

	if !k.Exists(key) {
		available := k.MapKeys("")
		return nil, fmt.Errorf("database key %q not found in %s (available: %s)",
			key, path, strings.Join(available, ", "))
	}

	creds := &DBCredentials{}
	if err := k.Unmarshal(key, creds); err != nil {
		return nil, fmt.Errorf("unmarshalling credentials for %q: %w", key, err)
	}

	validate := validator.New()
	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("credentials for %q are incomplete: %w", key, err)
	}

	return creds, nil
}
