package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Storage backend names accepted by -storage / RBIN_STORAGE.
const (
	BackendFilesystem = "filesystem"
	BackendS3         = "s3"
	BackendMongo      = "mongodb"
	BackendDynamo     = "dynamodb"
)

// Config holds all configuration for the rbin service. It is populated once
// at startup and never mutated afterwards; components receive it explicitly
// at construction instead of reading the environment themselves.
type Config struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	PasteDir        string `json:"paste_dir"`
	IDLength        int    `json:"id_length"`
	MaxBodySize     int64  `json:"max_body_size"`
	LogLevel        string `json:"log_level"`
	RequestLogLevel string `json:"request_log_level"`
	URL             string `json:"url"`

	Storage     string `json:"storage"`
	S3Bucket    string `json:"s3_bucket"`
	S3Prefix    string `json:"s3_prefix"`
	MongoURL    string `json:"mongo_url"`
	MongoDB     string `json:"mongo_db"`
	DynamoTable string `json:"dynamodb_table"`
	AWSRegion   string `json:"aws_region"`

	Version string `json:"version"`
}

// LoadConfig loads configuration from CLI flags and RBIN_* environment
// variables. Environment variables take precedence over flags.
func LoadConfig() *Config {
	return loadConfig(os.Args[1:])
}

func loadConfig(args []string) *Config {
	config := &Config{
		Host:            "0.0.0.0",
		Port:            3000,
		PasteDir:        "pastes",
		IDLength:        6,
		MaxBodySize:     10 * 1024 * 1024, // 10 MB
		LogLevel:        "info",
		RequestLogLevel: "debug",
		Storage:         BackendFilesystem,
		MongoDB:         "rbin",
	}

	fs := flag.NewFlagSet("rbin", flag.ExitOnError)
	fs.StringVar(&config.Host, "host", config.Host, "Listen IP address")
	fs.IntVar(&config.Port, "port", config.Port, "Listen port")
	fs.StringVar(&config.PasteDir, "paste-dir", config.PasteDir, "Directory for storing pastes (filesystem backend)")
	fs.IntVar(&config.IDLength, "id-length", config.IDLength, "Length of generated paste ids")
	fs.Int64Var(&config.MaxBodySize, "max-body-size", config.MaxBodySize, "Maximum request body size in bytes")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level for the service")
	fs.StringVar(&config.RequestLogLevel, "request-log-level", config.RequestLogLevel, "Log level for HTTP request logging")
	fs.StringVar(&config.URL, "url", config.URL, "External base URL for paste links (overrides Host header)")
	fs.StringVar(&config.Storage, "storage", config.Storage, "Storage backend: filesystem, s3, mongodb or dynamodb")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket for the s3 backend")
	fs.StringVar(&config.S3Prefix, "s3-prefix", config.S3Prefix, "S3 key prefix for the s3 backend")
	fs.StringVar(&config.MongoURL, "mongo-url", config.MongoURL, "MongoDB connection URL for the mongodb backend")
	fs.StringVar(&config.MongoDB, "mongo-db", config.MongoDB, "MongoDB database name for the mongodb backend")
	fs.StringVar(&config.DynamoTable, "dynamodb-table", config.DynamoTable, "DynamoDB table for the dynamodb backend")
	fs.StringVar(&config.AWSRegion, "aws-region", config.AWSRegion, "AWS region for the dynamodb backend")
	_ = fs.Parse(args)

	// Override with environment variables if present
	if val := os.Getenv("RBIN_HOST"); val != "" {
		config.Host = val
	}
	if val := os.Getenv("RBIN_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			config.Port = port
		}
	}
	if val := os.Getenv("RBIN_PASTE_DIR"); val != "" {
		config.PasteDir = val
	}
	if val := os.Getenv("RBIN_ID_LENGTH"); val != "" {
		if length, err := strconv.Atoi(val); err == nil {
			config.IDLength = length
		}
	}
	if val := os.Getenv("RBIN_MAX_BODY_SIZE"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.MaxBodySize = size
		}
	}
	if val := os.Getenv("RBIN_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}
	if val := os.Getenv("RBIN_REQUEST_LOG_LEVEL"); val != "" {
		config.RequestLogLevel = val
	}
	if val := os.Getenv("RBIN_URL"); val != "" {
		config.URL = val
	}
	if val := os.Getenv("RBIN_STORAGE"); val != "" {
		config.Storage = val
	}
	if val := os.Getenv("RBIN_S3_BUCKET"); val != "" {
		config.S3Bucket = val
	}
	if val := os.Getenv("RBIN_S3_PREFIX"); val != "" {
		config.S3Prefix = val
	}
	if val := os.Getenv("RBIN_MONGO_URL"); val != "" {
		config.MongoURL = val
	}
	if val := os.Getenv("RBIN_MONGO_DB"); val != "" {
		config.MongoDB = val
	}
	if val := os.Getenv("RBIN_DYNAMODB_TABLE"); val != "" {
		config.DynamoTable = val
	}
	if val := os.Getenv("RBIN_AWS_REGION"); val != "" {
		config.AWSRegion = val
	}

	return config
}

// Addr returns the host:port the HTTP server should listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
