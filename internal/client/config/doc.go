// Package config loads runtime configuration for the YourSay CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. A .env file in the working directory, then the process environment.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//	-k          allow plain HTTP to a non-loopback server
//
// # JSON schema
//
// Durations accept strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://api.yoursay.example",
//	  "database_path": "yoursay.db",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "allow_insecure": false
//	}
//
// # Environment
//
//	YOURSAY_SERVER, YOURSAY_DB, YOURSAY_TIMEOUT, YOURSAY_LOG_LEVEL,
//	YOURSAY_ALLOW_INSECURE
package config
