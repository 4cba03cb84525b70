package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/archive-delivery/pkg/kafka"
	"github.com/Astemirdum/archive-delivery/pkg/logger"
	"github.com/Astemirdum/archive-delivery/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"DELIVERY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"DELIVERY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Coordinator struct {
	// StrictOwnership fails requests that would have to pick between two active owners.
	StrictOwnership   bool          `yaml:"strictOwnership" envconfig:"STRICT_OWNERSHIP"`
	UnpaidCancelAfter time.Duration `yaml:"unpaidCancelAfter" envconfig:"UNPAID_CANCEL_AFTER" default:"336h"`
	SweepInterval     time.Duration `yaml:"sweepInterval" envconfig:"SWEEP_INTERVAL" default:"1h"`
	Workers           int           `yaml:"workers" envconfig:"WORKERS" default:"4"`
	QueueSize         int           `yaml:"queueSize" envconfig:"QUEUE_SIZE" default:"256"`
}

type Config struct {
	Server      HTTPServer   `yaml:"server"`
	Kafka       kafka.Config `yaml:"kafka"`
	Database    postgres.DB  `yaml:"db"`
	Log         logger.Log   `yaml:"log"`
	Coordinator Coordinator  `yaml:"coordinator"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Options only fill fields the environment
// leaves unset.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
