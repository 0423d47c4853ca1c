package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/screa/vanity-market/pkg/pattern"
	"github.com/screa/vanity-market/pkg/types"
)

// Errors
var (
	ErrNoOrderSpecified = errors.New("must specify either --order or at least one pattern flag")
	ErrInvalidWorkers   = errors.New("--workers must be positive")
	ErrInvalidRate      = errors.New("--providers and --provider-rate must be positive")
)

// Network assumptions used when estimating how many matches a request buys
const (
	DefaultProviders    = 20
	DefaultProviderRate = 5e6 // hashes per second per provider
	DefaultDuration     = "5m"
)

// Config holds the application configuration
type Config struct {
	Workers     int
	Verbose     bool
	LogFile     string
	LogInterval int // Logging interval in seconds

	OrderFile string
	PublicKey string
	KeyType   string
	Duration  string

	// Inline patterns; zero values mean "not selected"
	Prefix   string
	Suffix   string
	Mask     string
	Leading  int
	Trailing int
	Letters  int
	Numbers  bool
	Snake    int

	Providers    int
	ProviderRate float64
	ProviderName string
	MaxResults   int // stop mining after this many matches, 0 = run for Duration

	ResultsFile string // written by mine, read by results
	Filter      string // pattern kind shown by results, "all" for every kind
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:      runtime.NumCPU(),
		LogInterval:  5, // Default 5 seconds
		Duration:     DefaultDuration,
		Providers:    DefaultProviders,
		ProviderRate: DefaultProviderRate,
		ProviderName: "local",
		Filter:       "all",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OrderFile == "" && len(c.Patterns()) == 0 {
		return ErrNoOrderSpecified
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Providers <= 0 || c.ProviderRate <= 0 {
		return ErrInvalidRate
	}
	return nil
}

// Patterns builds the pattern set selected through flags, in form order
func (c *Config) Patterns() pattern.Set {
	var set pattern.Set
	if c.Leading > 0 {
		set = append(set, pattern.Leading(c.Leading))
	}
	if c.Trailing > 0 {
		set = append(set, pattern.Trailing(c.Trailing))
	}
	if c.Letters > 0 {
		set = append(set, pattern.Letters(c.Letters))
	}
	if c.Numbers {
		set = append(set, pattern.Numbers())
	}
	if c.Snake > 0 {
		set = append(set, pattern.Snake(c.Snake))
	}
	if c.Prefix != "" {
		set = append(set, pattern.Prefix(c.Prefix))
	}
	if c.Suffix != "" {
		set = append(set, pattern.Suffix(c.Suffix))
	}
	if c.Mask != "" {
		set = append(set, pattern.Mask(c.Mask))
	}
	return set
}

// HashesPerSecond is the assumed aggregate search rate of the network
func (c *Config) HashesPerSecond() float64 {
	return float64(c.Providers) * c.ProviderRate
}

// GetTargetDescription returns a human-readable description of the patterns
func (c *Config) GetTargetDescription() string {
	set := c.Patterns()
	if len(set) == 0 {
		if c.OrderFile != "" {
			return "order file: " + c.OrderFile
		}
		return "unknown"
	}
	parts := make([]string, len(set))
	for i, p := range set {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// LoadRequest returns the request described by the order file, with flags
// filling in whatever the file leaves empty. Without an order file the
// request is built from flags alone.
func (c *Config) LoadRequest() (*types.Request, error) {
	req := &types.Request{}
	if c.OrderFile != "" {
		var err error
		if req, err = readOrderFromFile(c.OrderFile); err != nil {
			return nil, err
		}
	}
	if len(req.Problems) == 0 {
		req.Problems = c.Patterns()
	}
	if req.PublicKey == "" {
		req.PublicKey = c.PublicKey
	}
	if req.KeyType == "" {
		req.KeyType = types.KeyType(c.KeyType)
	}
	if req.KeyType == "" {
		req.KeyType = types.KeyTypePublicKey
		if strings.HasPrefix(req.PublicKey, "xpub") {
			req.KeyType = types.KeyTypeXpub
		}
	}
	if req.Duration == "" {
		req.Duration = c.Duration
	}
	return req, nil
}

// readOrderFromFile decodes a request from YAML or JSON
func readOrderFromFile(filename string) (*types.Request, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var req types.Request
	if err := yaml.Unmarshal(content, &req); err != nil {
		return nil, fmt.Errorf("parse order %s: %w", filename, err)
	}
	return &req, nil
}
