// Package config loads and validates the Hearthcloud Core configuration.
//
// Configuration is layered: built-in defaults, then the YAML file, then
// HEARTHCLOUD_* environment variables. The environment layer exists so
// secrets (broker password, InfluxDB token) never have to live in the
// file; the file itself should still be 0600.
//
// Load validates before returning and reports every problem at once,
// so a broken deployment is fixed in one round trip:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
