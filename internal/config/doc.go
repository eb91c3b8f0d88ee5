// Package config provides configuration loading and validation for the audio cast service.
// It handles YAML-based configuration with struct validation and documented defaults
// for the publish transport, control API, sample library and playback parameters.
package config
