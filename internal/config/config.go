package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// AppName names the config file and its XDG directory.
const AppName = "inkwell"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "INKWELL"

// Config is the complete set of server settings.
type Config struct {
	Addr         string            `mapstructure:"addr" toml:"addr"`
	PostsDir     string            `mapstructure:"posts_dir" toml:"posts_dir"`
	StaticDir    string            `mapstructure:"static_dir" toml:"static_dir"`
	TemplatesDir string            `mapstructure:"templates_dir" toml:"templates_dir"`
	Site         Site              `mapstructure:"site" toml:"site"`
	Markdown     Markdown          `mapstructure:"markdown" toml:"markdown"`
	Reload       Reload            `mapstructure:"reload" toml:"reload"`
	Feed         Feed              `mapstructure:"feed" toml:"feed"`
	Cache        Cache             `mapstructure:"cache" toml:"cache"`
	Server       Server            `mapstructure:"server" toml:"server"`
	Headers      map[string]string `mapstructure:"headers" toml:"headers"`
}

// Site describes the blog for the feed and page templates.
type Site struct {
	Title       string `mapstructure:"title" toml:"title"`
	URL         string `mapstructure:"url" toml:"url"`
	Description string `mapstructure:"description" toml:"description"`
	Language    string `mapstructure:"language" toml:"language"`
}

// Markdown selects the rendering engine.
type Markdown struct {
	Engine   string `mapstructure:"engine" toml:"engine"`
	Sanitize bool   `mapstructure:"sanitize" toml:"sanitize"`
}

// Reload controls how the post store is rebuilt.
type Reload struct {
	Throttle time.Duration `mapstructure:"throttle" toml:"throttle"`
	Watch    bool          `mapstructure:"watch" toml:"watch"`
	Live     bool          `mapstructure:"live" toml:"live"`
}

// Feed controls the RSS feed.
type Feed struct {
	Items int `mapstructure:"items" toml:"items"`
}

// Cache sizes the groupcache groups and sets Expires headers.
type Cache struct {
	SizeBytes     int64         `mapstructure:"size_bytes" toml:"size_bytes"`
	Expires       time.Duration `mapstructure:"expires" toml:"expires"`
	StaticExpires time.Duration `mapstructure:"static_expires" toml:"static_expires"`
}

// Server holds http.Server timeouts.
type Server struct {
	ReadTimeout       time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" toml:"shutdown_timeout"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Addr:      ":8080",
		PostsDir:  "posts",
		StaticDir: "static",
		Site: Site{
			Title:    "inkwell",
			URL:      "http://localhost:8080",
			Language: "en-us",
		},
		Markdown: Markdown{Engine: "goldmark"},
		Reload:   Reload{Throttle: 10 * time.Second},
		Feed:     Feed{Items: 10},
		Cache: Cache{
			SizeBytes:     64 << 20,
			Expires:       0,
			StaticExpires: time.Hour,
		},
		Server: Server{
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Headers: map[string]string{
			"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		},
	}
}

// Init registers search paths, environment binding and defaults on v.
func Init(v *viper.Viper) {
	v.SetConfigName(AppName)
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("posts_dir", d.PostsDir)
	v.SetDefault("static_dir", d.StaticDir)
	v.SetDefault("templates_dir", d.TemplatesDir)
	v.SetDefault("site.title", d.Site.Title)
	v.SetDefault("site.url", d.Site.URL)
	v.SetDefault("site.description", d.Site.Description)
	v.SetDefault("site.language", d.Site.Language)
	v.SetDefault("markdown.engine", d.Markdown.Engine)
	v.SetDefault("markdown.sanitize", d.Markdown.Sanitize)
	v.SetDefault("reload.throttle", d.Reload.Throttle)
	v.SetDefault("reload.watch", d.Reload.Watch)
	v.SetDefault("reload.live", d.Reload.Live)
	v.SetDefault("feed.items", d.Feed.Items)
	v.SetDefault("cache.size_bytes", d.Cache.SizeBytes)
	v.SetDefault("cache.expires", d.Cache.Expires)
	v.SetDefault("cache.static_expires", d.Cache.StaticExpires)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("headers", d.Headers)
}

// Load reads configuration into a new Viper instance. An empty path searches
// the default locations and tolerates a missing file; an explicit path must
// exist. The result has been validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	Init(v)
	return LoadFrom(v, path)
}

// LoadFrom is Load for a Viper instance prepared by Init, possibly with
// bound command line flags.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
