// Package config loads typed configuration structs from the process
// environment.
//
// A `.env` file in the working directory, when present, is applied once
// before the first parse (github.com/joho/godotenv). Struct fields are filled
// from `env` tags by github.com/caarlos0/env/v11. Every configuration type is
// parsed at most once per process; later calls return the cached copy.
//
// # Usage
//
//	type Config struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Use MustLoad in main where a missing value should abort startup, and Reset
// in tests that change the environment between loads.
package config
