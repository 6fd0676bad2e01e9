// Package config loads runtime settings from file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	// Search input
	Engine   string `mapstructure:"engine"`
	InputDir string `mapstructure:"input_dir"`

	// URL filtering
	Blocklist    []string `mapstructure:"blocklist"`
	UseBlocklist bool     `mapstructure:"use_blocklist"`

	// Page fetching
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	FetchRetries    int           `mapstructure:"fetch_retries"`
	FetchRetryDelay time.Duration `mapstructure:"fetch_retry_delay"`

	// LLM classification
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	Endpoint      string        `mapstructure:"endpoint"`
	LLMTimeout    time.Duration `mapstructure:"llm_timeout"`
	LLMRetries    int           `mapstructure:"llm_retries"`
	LLMRetryDelay time.Duration `mapstructure:"llm_retry_delay"`

	// Pipeline
	Workers      int           `mapstructure:"workers"`
	PaceInterval time.Duration `mapstructure:"pace_interval"`

	// Output
	Backend     string `mapstructure:"backend"`
	OutputPath  string `mapstructure:"output_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	ReportJSON  bool   `mapstructure:"report_json"`

	// Observability
	MetricsPort int `mapstructure:"metrics_port"`
}

// DefaultBlocklist holds the URL substrings filtered out before dedup:
// tech tutorial sites, market research portals, news aggregators and
// other sources that never describe an actual storage company or project.
var DefaultBlocklist = []string{
	"zhihu", "news", "PV magazine", "PV new", "finance", "law", "worldbank",
	"research", "footanstey", "noyapro", "mckinsey", "pcbaaa", "enverus",
	"exportsemi", "PV Tech", "digital", "storm4", "mtu solutions",
	"modoenergy", "amazon", "renewablemirror", "linkedin", "eia",
	"Wood Mackenzie", "woodmac", "report", "search", "growthmarketreports",
	"energy-box", "storageawards", "sciencedirect", "orbit.dtu", "arxiv",
	"bclplaw", "windfarmbop", "strath.ac", "saudigulfprojects", "eqmagpro",
	"aesindiana", "adb", "constructionreviewonline", "carilec",
	"windpowerengineering", "ieeexplore", "nature", "ndxy", "link springer",
	"microgridknowledge", "pmc ncbi nlm nih", "canusaepc", "runoob",
	"developer baidu", "c biancheng", "w3school", "cppreference", "c-cpp",
	"c-language", "cainiaoplus", "dotcpp", "baike baidu", "learn microsoft",
	"blog csdn", "cainiaoya", "cainiaojc", "imooc", "bilibili", "ruanyifeng",
	"icourse163", "nowcoder", "visualstudio microsoft", "bcg", "gii",
	"the innovation", "ldescouncil", "energypartnership", "zenodo", "lazard",
	"sites ucmerced", "power eng", "sandia", "lexology", "nidec conversion",
	"nortonrosefulbright", "fbm", "energyindustryreview", "bessfinder",
	"batteriesinternational", "energystorages tech", "enfsolar", "solarpro",
	"pv magazine usa", "cjoglobal", "crugroup", "mordorintelligence",
}

// Load reads configuration from an optional config file and environment
// variables prefixed with STORASCOUT_.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("storascout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STORASCOUT")
	v.AutomaticEnv()

	// Missing config files are fine, everything can come from the
	// environment or defaults.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Every key needs a default so environment-only values survive
	// Unmarshal.
	v.SetDefault("engine", "bing")
	v.SetDefault("input_dir", "")
	v.SetDefault("blocklist", []string{})
	v.SetDefault("api_key", "")
	v.SetDefault("endpoint", "")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("report_json", false)
	v.SetDefault("metrics_port", 0)
	v.SetDefault("use_blocklist", true)
	v.SetDefault("fetch_timeout", 30*time.Second)
	v.SetDefault("fetch_retries", 3)
	v.SetDefault("fetch_retry_delay", 2*time.Second)
	v.SetDefault("model", "qwen-long")
	v.SetDefault("llm_timeout", 60*time.Second)
	v.SetDefault("llm_retries", 3)
	v.SetDefault("llm_retry_delay", 5*time.Second)
	v.SetDefault("workers", 1)
	v.SetDefault("pace_interval", time.Second)
	v.SetDefault("backend", "csv")
	v.SetDefault("output_path", "storascout_results.csv")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.UseBlocklist && len(cfg.Blocklist) == 0 {
		cfg.Blocklist = DefaultBlocklist
	}
	if !cfg.UseBlocklist {
		cfg.Blocklist = nil
	}

	return &cfg, nil
}
