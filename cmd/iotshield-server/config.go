package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr           string
	LogLevel       string
	AttackDelayMin time.Duration
	AttackDelayMax time.Duration
	MapDelayMin    time.Duration
	MapDelayMax    time.Duration
	WebhookURL     string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// durationSetter parses a millisecond value, falling back to a default on
// bad input.
func durationSetter(name string, fallback time.Duration, assign func(*ServerConfig, time.Duration)) func(*ServerConfig, string) {
	return func(c *ServerConfig, v string) {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			assign(c, time.Duration(ms)*time.Millisecond)
		} else {
			log.Printf("Invalid value for %s: %s, using default %v", name, v, fallback)
			assign(c, fallback)
		}
	}
}

// loadServerConfig loads server configuration from CLI flags and environment variables.
// Uses a resolver pattern to make it easy to add new configuration options.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	// Define all configuration resolvers
	// To add a new option, just add a new resolver here
	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "IOTSHIELD_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "log-level",
			envVarName:  "IOTSHIELD_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
		{
			flagName:    "attack-delay-min-ms",
			envVarName:  "IOTSHIELD_ATTACK_DELAY_MIN_MS",
			defaultVal:  "2000",
			description: "Lower bound of the random delay between auto-generated attacks (milliseconds)",
			setter: durationSetter("attack-delay-min-ms", 2*time.Second, func(c *ServerConfig, d time.Duration) {
				c.AttackDelayMin = d
			}),
		},
		{
			flagName:    "attack-delay-max-ms",
			envVarName:  "IOTSHIELD_ATTACK_DELAY_MAX_MS",
			defaultVal:  "4000",
			description: "Upper bound of the random delay between auto-generated attacks (milliseconds)",
			setter: durationSetter("attack-delay-max-ms", 4*time.Second, func(c *ServerConfig, d time.Duration) {
				c.AttackDelayMax = d
			}),
		},
		{
			flagName:    "map-delay-min-ms",
			envVarName:  "IOTSHIELD_MAP_DELAY_MIN_MS",
			defaultVal:  "1000",
			description: "Lower bound of the random delay between attack-map lines (milliseconds)",
			setter: durationSetter("map-delay-min-ms", 1*time.Second, func(c *ServerConfig, d time.Duration) {
				c.MapDelayMin = d
			}),
		},
		{
			flagName:    "map-delay-max-ms",
			envVarName:  "IOTSHIELD_MAP_DELAY_MAX_MS",
			defaultVal:  "3000",
			description: "Upper bound of the random delay between attack-map lines (milliseconds)",
			setter: durationSetter("map-delay-max-ms", 3*time.Second, func(c *ServerConfig, d time.Duration) {
				c.MapDelayMax = d
			}),
		},
		{
			flagName:    "webhook-url",
			envVarName:  "IOTSHIELD_WEBHOOK_URL",
			defaultVal:  "",
			description: "optional webhook URL to POST engine events to",
			setter:      func(c *ServerConfig, v string) { c.WebhookURL = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	// Parse flags once
	flag.Parse()

	// Resolve values for each resolver
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}
