package config

import "errors"

var (
	ErrReadingConfigFile     = errors.New("failed to read config file")
	ErrUnmarshallingConfig   = errors.New("failed to unmarshal config")
	ErrConfigFileMissing     = errors.New("config file not found")
	ErrEmptyDatasetPath      = errors.New("dataset path cannot be empty")
	ErrInvalidHistogramCap   = errors.New("engine histogramCapDays must be positive")
	ErrEmptyServerAddr       = errors.New("server addr cannot be empty")
	ErrEmptyPublisherBrokers = errors.New("publisher brokers list cannot be empty")
	ErrEmptyPublisherTopic   = errors.New("publisher topic cannot be empty")
)
