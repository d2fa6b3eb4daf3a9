package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/drey-val/instapilot/internal/igerrors"
)

// Placeholder values that mean "not configured". Treated the same as an
// empty credential.
const (
	PlaceholderUsername = "default_IGusername"
	PlaceholderPassword = "default_IGpassword"
)

// Config holds all application configuration.
type Config struct {
	Version     int               `toml:"version"`
	Credentials CredentialsConfig `toml:"credentials"`
	Browser     BrowserConfig     `toml:"browser"`
	Interact    InteractConfig    `toml:"interact"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	Comment     CommentConfig     `toml:"comment"`
	Schedule    ScheduleConfig    `toml:"schedule"`
}

type CredentialsConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type BrowserConfig struct {
	Headless   bool   `toml:"headless"`
	CookiePath string `toml:"cookie_path"`
}

type InteractConfig struct {
	MaxPosts    int  `toml:"max_posts"`
	SkipOnError bool `toml:"skip_on_error"`
}

type AnalysisConfig struct {
	DaysBack           int    `toml:"days_back"`
	MaxPosts           int    `toml:"max_posts"`
	MaxCommentsPerPost int    `toml:"max_comments_per_post"`
	IncludeMediaURLs   bool   `toml:"include_media_urls"`
	RateLimitMs        int    `toml:"rate_limit_ms"`
	OutputDir          string `toml:"output_dir"`
}

type CommentConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type ScheduleConfig struct {
	Targets  []string `toml:"targets"`
	CronSpec string   `toml:"cron_spec"`
	Timezone string   `toml:"timezone"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Version: 1,
		Credentials: CredentialsConfig{
			Username: PlaceholderUsername,
			Password: PlaceholderPassword,
		},
		Browser: BrowserConfig{
			Headless:   false,
			CookiePath: filepath.Join("cookies", "instagram.json"),
		},
		Interact: InteractConfig{
			MaxPosts:    20,
			SkipOnError: false,
		},
		Analysis: AnalysisConfig{
			DaysBack:           30,
			MaxPosts:           50,
			MaxCommentsPerPost: 10,
			IncludeMediaURLs:   false,
			RateLimitMs:        3000,
			OutputDir:          "reports",
		},
		Comment: CommentConfig{
			Model: "claude-sonnet-4-20250514",
		},
		Schedule: ScheduleConfig{
			CronSpec: "0 8 * * *",
			Timezone: "America/Bogota",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "instapilot"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from disk, then applies environment overrides. A
// .env file in the working directory is honored if present.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override the credentials and
// API key, so secrets can stay out of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("IG_USERNAME"); v != "" {
		c.Credentials.Username = v
	}
	if v := os.Getenv("IG_PASSWORD"); v != "" {
		c.Credentials.Password = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Comment.APIKey = v
	}
}

// ValidateCredentials fails when the username or password is empty or
// still carries the unset-placeholder sentinel.
func (c *Config) ValidateCredentials() error {
	if c.Credentials.Username == "" || c.Credentials.Username == PlaceholderUsername {
		return &igerrors.ConfigurationError{Field: "username"}
	}
	if c.Credentials.Password == "" || c.Credentials.Password == PlaceholderPassword {
		return &igerrors.ConfigurationError{Field: "password"}
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
