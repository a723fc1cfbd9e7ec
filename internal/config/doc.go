// Package config provides centralized configuration management for the catalog
// pipeline. It loads configuration from multiple sources, validates it, and
// exposes a typed API to the commands and the HTTP report viewer.
//
// # Configuration Sources
//
// Configuration is layered in the following order, later layers winning:
//
//	1. Default values (Default)
//	2. A YAML file: $CATALOG_CONFIG, catalog.yaml or configs/catalog.yaml
//	3. Environment variables prefixed with CATALOG_
//
// # Environment Variables
//
//	CATALOG_ANALYSIS_FORECAST_HORIZON_YEARS=5
//	CATALOG_ANALYSIS_TOP_GENRE_COUNT=10
//	CATALOG_ANALYSIS_RATING_MAP=NR:Adult,UR:Adult
//	CATALOG_PATHS_INPUT_FILE=data/netflix_titles.csv
//	CATALOG_LOGGING_LEVEL=debug
//	CATALOG_SERVER_PORT=8080
//
// # Analysis Options
//
// ForecastHorizonYears (1..50) sets the number of projected years and
// TopGenreCount (1..1000) the number of genres kept in the top list.
// RatingMap entries override the built-in rating table; values must be one
// of Kids, Older Kids, Teen, Adult or Other.
//
// # Path Management
//
// PathsConfig.GetPaths resolves relative entries against BaseDir:
//
//	paths, err := cfg.Paths.GetPaths()
//	if err != nil {
//	    return err
//	}
//	if err := paths.EnsureDirectories(); err != nil {
//	    return err
//	}
//	out := paths.GetReportPath(config.GenresCSVName)
package config
