package env

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// GhostName is the Sender header value the ghost answers with
	GhostName string `env:"SHIORI_GHOST_NAME,default=onnagusa"`

	// Talks optionally points at a JSON talk dictionary loaded on boot
	Talks string `env:"SHIORI_TALKS"`

	DebugHTTP bool `env:"SHIORI_DEBUG_HTTP"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
