// Package config loads and validates the application configuration.
//
// It uses Viper to merge a config.yml file, the process environment, and an
// optional .env file into one Config struct with a section per subsystem
// (detection, transcription, summary, generation).
//
// # Usage
//
//	cfg, err := config.Load("meetscribe")
//
// Environment variables address nested keys with underscore-separated paths,
// e.g. DETECTION_SCAN_INTERVAL overrides detection.scan_interval.
package config
