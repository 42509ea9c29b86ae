// Package logging configures structured logging for Hearthcloud Core.
//
// It is a thin wrapper over log/slog: New reads the logging section of
// the configuration and returns a Logger whose entries all carry the
// service name and version. JSON output is the production default;
// text output reads better during development.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Use With to derive component loggers:
//
//	log := logging.New(cfg.Logging, version)
//	engineLog := log.With("component", "engine")
//	engineLog.Info("command executed", "device_id", "washer-1")
//
// Never log secrets, tokens, passwords, or device PINs. Challenge
// values supplied with commands must not appear in log output.
package logging
