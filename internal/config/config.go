// Package config holds the marketplace service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/harvestlink/marketplace/pkg/config"
	"github.com/harvestlink/marketplace/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Store      StoreConfig             `koanf:"store"`
	Cart       CartConfig              `koanf:"cart"`
	Redis      config.RedisConfig      `koanf:"redis"`
	Nats       NatsConfig              `koanf:"nats"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

// StoreConfig selects the catalog/order persistence backend.
type StoreConfig struct {
	// Backend is either "memory" or "postgres".
	Backend string `koanf:"backend"`
	// Seed loads the demo catalog on startup (memory backend only).
	Seed bool `koanf:"seed"`
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case "memory", "postgres":
		return nil
	}
	return fmt.Errorf("invalid store backend: %q (expected memory or postgres)", c.Backend)
}

// CartConfig tunes cart behavior.
type CartConfig struct {
	// Step is the quantity applied by the increase/decrease operations.
	Step int32 `koanf:"step"`
}

func (c *CartConfig) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("cart step must be greater than zero: %d", c.Step)
	}
	return nil
}

// NatsConfig wraps the connection settings with an enable switch so the
// service can run without a broker.
type NatsConfig struct {
	Enabled bool `koanf:"enabled"`
	config.NATSConfig
}

func (c *NatsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return c.NATSConfig.Validate()
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString("\n--- Storage Configuration ---\n")
	b.WriteString(fmt.Sprintf("  store.backend: %s\n", c.Store.Backend))
	b.WriteString(fmt.Sprintf("  store.seed: %t\n", c.Store.Seed))
	if c.Store.Backend == "postgres" {
		b.WriteString(fmt.Sprintf("  database.url: %s\n", maskURL(c.Database.URL)))
		b.WriteString(fmt.Sprintf("  database.connect.timeout: %s\n", c.Database.Timeout))
	}
	b.WriteString(c.Redis.String())

	b.WriteString("\n--- Cart Configuration ---\n")
	b.WriteString(fmt.Sprintf("  cart.step: %d\n", c.Cart.Step))

	b.WriteString("\n--- NATS Configuration ---\n")
	b.WriteString(fmt.Sprintf("  nats.enabled: %t\n", c.Nats.Enabled))
	if c.Nats.Enabled {
		b.WriteString(fmt.Sprintf("  nats.url: %s\n", c.Nats.Url))
		b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Nats.Timeout))
	}

	b.WriteString("\n--- gRPC Configuration ---\n")
	b.WriteString(fmt.Sprintf("  grpc.port: %s\n", c.GRPC.Port))
	b.WriteString(fmt.Sprintf("  grpc.reflection_enabled: %t\n", c.GRPC.ReflectionEnabled))

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.Store.Backend == "postgres" {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Cart.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	return nil
}
