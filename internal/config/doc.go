// Package config loads the application configuration.
//
// Values are layered in increasing order of precedence:
//
//	1. Default()
//	2. a YAML file: $GEMSCOPE_CONFIG, gemscope.yaml or configs/gemscope.yaml
//	3. environment variables prefixed GEMSCOPE_
//
// Environment variable names follow the struct nesting, for example:
//
//	GEMSCOPE_SERVER_PORT=9090
//	GEMSCOPE_DATASET_CSV_PATH=/data/diamonds.csv
//	GEMSCOPE_ANALYSIS_COLORS=D,E,F
//	GEMSCOPE_LOGGING_LEVEL=debug
//
// The merged result is validated with struct tags and the curated grade
// sets are checked against the known grading scales.
package config
