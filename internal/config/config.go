package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/allocator/criteria"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// PlayersConfig is the directory of known players by gender
type PlayersConfig struct {
	Males   []string `yaml:"males" validate:"dive,required"`
	Females []string `yaml:"females" validate:"dive,required"`
}

// PlayerConstraint holds the optional entitlements of one player
type PlayerConstraint struct {
	FixedGameQuota    int  `yaml:"fixedGameQuota,omitempty" validate:"min=0"`
	EarlyDeparture    bool `yaml:"earlyDeparture,omitempty"`
	OnlyWomensDoubles bool `yaml:"onlyWomensDoubles,omitempty"`
}

// PartnerBond is a preferred partnership and its weight
type PartnerBond struct {
	Players []string `yaml:"players" validate:"len=2,dive,required"`
	Weight  float64  `yaml:"weight" validate:"gt=0"`
}

// TypeShares is the desired fraction of matches per type
type TypeShares struct {
	Mixed  float64 `yaml:"mixed" validate:"min=0,max=1"`
	Mens   float64 `yaml:"mens" validate:"min=0,max=1"`
	Womens float64 `yaml:"womens" validate:"min=0,max=1"`
}

// ScheduleConfig tunes the allocator
type ScheduleConfig struct {
	// CourtCount of 0 derives the count from the number of signed-up players
	CourtCount        int         `yaml:"courtCount" validate:"min=0"`
	MatchesPerCourt   int         `yaml:"matchesPerCourt" validate:"required,min=1"`
	MaxGamesPerPlayer int         `yaml:"maxGamesPerPlayer" validate:"required,min=1"`
	Preset            string      `yaml:"preset,omitempty" validate:"omitempty,oneof=classic balanced"`
	TypeShares        *TypeShares `yaml:"typeShares,omitempty"`
	QuotaTolerance    *int        `yaml:"quotaTolerance,omitempty" validate:"omitempty,min=0"`
	TypePriority      []string    `yaml:"typePriority,omitempty" validate:"omitempty,len=3"`

	EarlyDepartureLastRound  int     `yaml:"earlyDepartureLastRound,omitempty" validate:"min=0"`
	PartnerVarietyWeight     float64 `yaml:"partnerVarietyWeight,omitempty" validate:"min=0"`
	PartnerVarietyMaxRepeats int     `yaml:"partnerVarietyMaxRepeats,omitempty" validate:"min=0"`
}

// SessionConfig describes the recurring session printed on the lineup
type SessionConfig struct {
	Name          string  `yaml:"name" validate:"required"`
	RRule         string  `yaml:"rrule,omitempty"`
	DurationHours float64 `yaml:"durationHours" validate:"gt=0"`
	Format        string  `yaml:"format" validate:"required"`
}

// DatabaseConfig selects the archive backend. URL is read from DATABASE_URL when unset.
type DatabaseConfig struct {
	Driver   string `yaml:"driver" validate:"required,oneof=sqlite postgres"`
	Filename string `yaml:"filename,omitempty" validate:"required_if=Driver sqlite"`
	URL      string `yaml:"url,omitempty"`
}

// Publishing defaults
const (
	DefaultTokenDir     = "~/.badminton-lineup/tokens"
	DefaultCallbackPort = 3000
	ScopeSpreadsheets   = "https://www.googleapis.com/auth/spreadsheets"
)

// PublishConfig holds the Google Sheet the lineup is published to and
// where the OAuth token granting access to it is kept
type PublishConfig struct {
	SpreadsheetID string   `yaml:"spreadsheetID,omitempty"`
	TokenDir      string   `yaml:"tokenDir,omitempty"`
	CallbackPort  int      `yaml:"callbackPort,omitempty" validate:"omitempty,min=1,max=65535"`
	Scopes        []string `yaml:"scopes,omitempty" validate:"dive,url"`
}

// TokenDirectory resolves the token directory, expanding a leading "~/"
func (p PublishConfig) TokenDirectory() (string, error) {
	dir := p.TokenDir
	if dir == "" {
		dir = DefaultTokenDir
	}
	if rest, ok := strings.CutPrefix(dir, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, rest)
	}
	return dir, nil
}

// OAuthScopes is the configured scope set. The spreadsheets scope is always
// included since publishing cannot work without it.
func (p PublishConfig) OAuthScopes() []string {
	scopes := []string{ScopeSpreadsheets}
	for _, s := range p.Scopes {
		if !slices.Contains(scopes, s) {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// RedirectPort is the local port the OAuth callback listens on
func (p PublishConfig) RedirectPort() int {
	if p.CallbackPort == 0 {
		return DefaultCallbackPort
	}
	return p.CallbackPort
}

// Config represents the application configuration.
// MixedDoublesEligible lists the men who play mixed; women play mixed unless restricted to women's doubles.
type Config struct {
	Players              PlayersConfig               `yaml:"players"`
	MixedDoublesEligible []string                    `yaml:"mixedDoublesEligible,omitempty"`
	Constraints          map[string]PlayerConstraint `yaml:"constraints,omitempty" validate:"dive"`
	PartnerBonds         []PartnerBond               `yaml:"partnerBonds,omitempty" validate:"dive"`
	Schedule             ScheduleConfig              `yaml:"schedule"`
	Session              SessionConfig               `yaml:"session"`
	Database             DatabaseConfig              `yaml:"database"`
	Publish              PublishConfig               `yaml:"publish,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates lineup_config.<env>.yaml.
// It looks for the config file in the current directory first, then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// A .env file next to the config is loaded first so secrets stay out of the YAML.
func LoadFromPath(path string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and the cross-field rules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Database.Driver == DriverPostgres && cfg.Database.URL == "" {
		return errors.New("database url (or DATABASE_URL) is required for postgres")
	}

	if cfg.Session.RRule != "" {
		if _, err := rrule.StrToRRule(cfg.Session.RRule); err != nil {
			return fmt.Errorf("invalid rrule in session: %w", err)
		}
	}

	known := make(map[string]bool)
	for _, name := range append(append([]string{}, cfg.Players.Males...), cfg.Players.Females...) {
		if known[name] {
			return fmt.Errorf("player %s is listed more than once", name)
		}
		known[name] = true
	}

	for name, c := range cfg.Constraints {
		if !known[name] {
			return fmt.Errorf("constraints name unknown player %s", name)
		}
		if c.FixedGameQuota > cfg.Schedule.MaxGamesPerPlayer {
			return fmt.Errorf("fixedGameQuota of %s (%d) exceeds maxGamesPerPlayer (%d)", name, c.FixedGameQuota, cfg.Schedule.MaxGamesPerPlayer)
		}
	}

	for _, name := range cfg.MixedDoublesEligible {
		if !known[name] {
			return fmt.Errorf("mixedDoublesEligible names unknown player %s", name)
		}
	}

	for i, bond := range cfg.PartnerBonds {
		if bond.Players[0] == bond.Players[1] {
			return fmt.Errorf("partnerBonds[%d] must name two different players", i)
		}
		for _, name := range bond.Players {
			if !known[name] {
				return fmt.Errorf("partnerBonds[%d] names unknown player %s", i, name)
			}
		}
	}

	if s := cfg.Schedule.TypeShares; s != nil && s.Mixed+s.Mens+s.Womens > 1+1e-9 {
		return fmt.Errorf("typeShares sum to %g, must not exceed 1", s.Mixed+s.Mens+s.Womens)
	}

	if _, err := cfg.typePriority(); err != nil {
		return err
	}

	return nil
}

// NextSession returns the first session occurrence at or after from.
// Without an rrule the session is assumed to be on the day of from.
func (c *Config) NextSession(from time.Time) (time.Time, error) {
	if c.Session.RRule == "" {
		return from, nil
	}
	r, err := rrule.StrToRRule(c.Session.RRule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid rrule in session: %w", err)
	}
	next := r.After(from, true)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("session rrule has no occurrence after %s", from.Format("2006-01-02"))
	}
	return next, nil
}

// EventName names the session held on date, e.g. "2026-01-03 周六训练"
func (c *Config) EventName(date time.Time) string {
	return fmt.Sprintf("%s %s", date.Format("2006-01-02"), c.Session.Name)
}

// ToAllocationConfig maps the configuration and the session's roster to the allocator's input
func (c *Config) ToAllocationConfig(roster allocator.Roster, courtCount int, seed int64) (allocator.AllocationConfig, error) {
	playing := make(map[string]bool, roster.Size())
	for _, name := range append(append([]string{}, roster.Males...), roster.Females...) {
		playing[name] = true
	}

	cfg := allocator.AllocationConfig{
		Roster:            roster,
		Constraints:       make(map[string]allocator.PlayerConstraint),
		PartnerBonds:      make(map[allocator.PairKey]float64),
		CourtCount:        courtCount,
		MatchesPerCourt:   c.Schedule.MatchesPerCourt,
		MaxGamesPerPlayer: c.Schedule.MaxGamesPerPlayer,
		RandomSeed:        seed,
		QuotaTolerance:    c.Schedule.QuotaTolerance,
	}

	// Entries for players who did not sign up are dropped; the allocator rejects unknown names
	for _, name := range c.MixedDoublesEligible {
		if playing[name] {
			cfg.MixedDoublesEligible = append(cfg.MixedDoublesEligible, name)
		}
	}
	for name, pc := range c.Constraints {
		if playing[name] {
			cfg.Constraints[name] = allocator.PlayerConstraint{
				FixedGameQuota:    pc.FixedGameQuota,
				EarlyDeparture:    pc.EarlyDeparture,
				OnlyWomensDoubles: pc.OnlyWomensDoubles,
			}
		}
	}
	for _, bond := range c.PartnerBonds {
		if playing[bond.Players[0]] && playing[bond.Players[1]] {
			cfg.PartnerBonds[allocator.NewPairKey(bond.Players[0], bond.Players[1])] = bond.Weight
		}
	}

	if s := c.Schedule.TypeShares; s != nil {
		cfg.TypeShares = allocator.TypeShares{Mixed: s.Mixed, Mens: s.Mens, Womens: s.Womens}
	}

	priority, err := c.typePriority()
	if err != nil {
		return cfg, err
	}
	cfg.TypePriority = priority

	preset, err := allocator.PresetByName(c.Schedule.Preset)
	if err != nil {
		return cfg, err
	}
	preset.Apply(&cfg)

	cfg.Criteria = []allocator.Criterion{criteria.NewNoIdlePlayersCriterion()}
	if c.Schedule.EarlyDepartureLastRound > 0 {
		cfg.Criteria = append(cfg.Criteria, criteria.NewEarlyDepartureCriterion(c.Schedule.EarlyDepartureLastRound, 1))
	}
	if c.Schedule.PartnerVarietyWeight > 0 {
		cfg.Criteria = append(cfg.Criteria, criteria.NewPartnerVarietyCriterion(c.Schedule.PartnerVarietyWeight, c.Schedule.PartnerVarietyMaxRepeats))
	}

	return cfg, nil
}

func (c *Config) typePriority() ([]allocator.MatchType, error) {
	if len(c.Schedule.TypePriority) == 0 {
		return nil, nil
	}
	seen := make(map[allocator.MatchType]bool)
	priority := make([]allocator.MatchType, 0, len(c.Schedule.TypePriority))
	for _, s := range c.Schedule.TypePriority {
		t, err := allocator.ParseMatchType(s)
		if err != nil {
			return nil, fmt.Errorf("invalid typePriority: %w", err)
		}
		if seen[t] {
			return nil, fmt.Errorf("typePriority lists %s twice", t.DisplayName())
		}
		seen[t] = true
		priority = append(priority, t)
	}
	return priority, nil
}

// findConfigFile searches for lineup_config.<env>.yaml in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "lineup_config.yaml"
	if env != "" {
		configFileName = "lineup_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
