package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the optional YAML file applied before env overrides.
const ConfigFileEnv = "HORIZON_CONFIG"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	Terrain    TerrainConfig    `yaml:"terrain"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Structured bool   `yaml:"structured"`
}

type SimulationConfig struct {
	// TickRate is the fixed physics rate in Hz; the fixed step is 1/TickRate.
	TickRate     int           `yaml:"tick_rate"`
	MaxFrameTime time.Duration `yaml:"max_frame_time"`
	// FrameRate is the rate hosts without their own vsync schedule frames at.
	FrameRate     int        `yaml:"frame_rate"`
	MoveSpeed     float64    `yaml:"move_speed"`
	CameraOffset  [3]float64 `yaml:"camera_offset"`
	StartPosition [3]float64 `yaml:"start_position"`
}

type TerrainConfig struct {
	Size      float64        `yaml:"size"`
	Segments  int            `yaml:"segments"`
	Amplitude float64        `yaml:"amplitude"`
	Noise     string         `yaml:"noise"`
	Seed      string         `yaml:"seed"`
	Octaves   []OctaveConfig `yaml:"octaves"`
}

type OctaveConfig struct {
	Divisor float64 `yaml:"divisor"`
	Weight  float64 `yaml:"weight"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Structured: true,
		},
		Simulation: SimulationConfig{
			TickRate:      60,
			MaxFrameTime:  250 * time.Millisecond,
			FrameRate:     60,
			MoveSpeed:     100,
			CameraOffset:  [3]float64{0, 150, 300},
			StartPosition: [3]float64{0, 0, 0},
		},
		Terrain: TerrainConfig{
			Size:      4000,
			Segments:  100,
			Amplitude: 200,
			Noise:     "simplex",
			Seed:      "",
			Octaves: []OctaveConfig{
				{Divisor: 1000, Weight: 0.5},
				{Divisor: 200, Weight: 0.25},
				{Divisor: 50, Weight: 0.125},
			},
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// HORIZON_CONFIG, and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvStr("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Logging.Level = getEnvStr("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvStr("LOG_FORMAT", c.Logging.Format)
	c.Logging.Structured = getEnvBool("LOG_STRUCTURED", c.Logging.Structured)

	c.Simulation.TickRate = getEnvInt("SIM_TICK_RATE", c.Simulation.TickRate)
	c.Simulation.MaxFrameTime = getEnvDuration("SIM_MAX_FRAME_TIME", c.Simulation.MaxFrameTime)
	c.Simulation.FrameRate = getEnvInt("SIM_FRAME_RATE", c.Simulation.FrameRate)
	c.Simulation.MoveSpeed = getEnvFloat("SIM_MOVE_SPEED", c.Simulation.MoveSpeed)

	c.Terrain.Size = getEnvFloat("TERRAIN_SIZE", c.Terrain.Size)
	c.Terrain.Segments = getEnvInt("TERRAIN_SEGMENTS", c.Terrain.Segments)
	c.Terrain.Amplitude = getEnvFloat("TERRAIN_AMPLITUDE", c.Terrain.Amplitude)
	c.Terrain.Noise = getEnvStr("TERRAIN_NOISE", c.Terrain.Noise)
	c.Terrain.Seed = getEnvStr("TERRAIN_SEED", c.Terrain.Seed)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Simulation.TickRate <= 0 {
		result = multierror.Append(result, fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate))
	}
	if c.Simulation.MaxFrameTime <= 0 {
		result = multierror.Append(result, fmt.Errorf("simulation.max_frame_time must be positive, got %s", c.Simulation.MaxFrameTime))
	}
	if c.Simulation.FrameRate <= 0 {
		result = multierror.Append(result, fmt.Errorf("simulation.frame_rate must be positive, got %d", c.Simulation.FrameRate))
	}
	if !finite(c.Simulation.MoveSpeed) || c.Simulation.MoveSpeed < 0 {
		result = multierror.Append(result, fmt.Errorf("simulation.move_speed must be a non-negative number, got %v", c.Simulation.MoveSpeed))
	}
	for _, v := range append(c.Simulation.CameraOffset[:], c.Simulation.StartPosition[:]...) {
		if !finite(v) {
			result = multierror.Append(result, errors.New("simulation vectors must be finite"))
			break
		}
	}

	if !finite(c.Terrain.Size) || c.Terrain.Size <= 0 {
		result = multierror.Append(result, fmt.Errorf("terrain.size must be positive, got %v", c.Terrain.Size))
	}
	if c.Terrain.Segments < 1 {
		result = multierror.Append(result, fmt.Errorf("terrain.segments must be at least 1, got %d", c.Terrain.Segments))
	}
	if !finite(c.Terrain.Amplitude) || c.Terrain.Amplitude <= 0 {
		result = multierror.Append(result, fmt.Errorf("terrain.amplitude must be positive, got %v", c.Terrain.Amplitude))
	}
	if len(c.Terrain.Octaves) == 0 {
		result = multierror.Append(result, errors.New("terrain.octaves must not be empty"))
	}
	for i, o := range c.Terrain.Octaves {
		if !finite(o.Divisor) || o.Divisor <= 0 || !finite(o.Weight) || o.Weight <= 0 {
			result = multierror.Append(result, fmt.Errorf("terrain.octaves[%d] needs positive divisor and weight, got %v/%v", i, o.Divisor, o.Weight))
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json", "logfmt":
	default:
		result = multierror.Append(result, fmt.Errorf("logging.format %q is not one of text, json, logfmt", c.Logging.Format))
	}
	switch strings.ToLower(c.Terrain.Noise) {
	case "simplex", "opensimplex", "perlin":
	default:
		result = multierror.Append(result, fmt.Errorf("terrain.noise %q is not one of simplex, opensimplex, perlin", c.Terrain.Noise))
	}

	if result.ErrorOrNil() == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, result)
}

// FixedStep returns the physics step in seconds.
func (c SimulationConfig) FixedStep() float64 {
	return 1.0 / float64(c.TickRate)
}

// FrameInterval returns the wall-clock spacing between scheduled frames.
func (c SimulationConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
