// Package config loads the weave configuration.
//
// Values come from, in increasing priority: built-in defaults, weave.json
// in the project directory, a .env file next to it, and the process
// environment.
//
// # Configuration File Structure
//
//	{
//	  "addr": ":3000",
//	  "partialPrefix": "/_partials",
//	  "lang": "en",
//	  "clientScript": "https://unpkg.com/htmx.org@1.9.12",
//	  "renderTimeout": "10s",
//	  "maxConcurrency": 8,
//	  "metricsPath": "/metrics",
//	  "tracing": false,
//	  "log": {"level": "info", "format": "text"}
//	}
//
// # Environment
//
//	WEAVE_ADDR, WEAVE_PARTIAL_PREFIX, WEAVE_LANG, WEAVE_CLIENT_SCRIPT,
//	WEAVE_RENDER_TIMEOUT, WEAVE_MAX_CONCURRENCY, WEAVE_METRICS_PATH,
//	WEAVE_TRACING, WEAVE_LOG_LEVEL, WEAVE_LOG_FORMAT
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
