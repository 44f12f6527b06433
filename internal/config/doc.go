// Package config provides configuration parsing for the props CLI.
//
// The configuration is stored in props.json in the working directory.
// This package handles loading, saving, and validating configuration.
// A missing file is not an error for the CLI: LoadOrDefault falls back to
// New.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "binding": {
//	    "maxDepth": 16
//	  },
//	  "metrics": {
//	    "namespace": "props",
//	    "addr": "localhost:9090"
//	  },
//	  "tracing": {
//	    "enabled": true,
//	    "tracerName": "props"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.Logger(os.Stderr)
package config
