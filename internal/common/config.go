package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the frozen struct threaded through every component
// constructor. It is assembled once at startup: defaults, then an
// optional TOML file, then CONTACTSCOUT_-prefixed environment overrides.
type Config struct {
	Input         InputConfig         `toml:"input"`
	Output        OutputConfig        `toml:"output"`
	LLM           LLMConfig           `toml:"llm"`
	Scraper       ScraperConfig       `toml:"scraper"`
	Crawler       CrawlerConfig       `toml:"crawler"`
	Consolidation ConsolidationConfig `toml:"consolidation"`
	Logging       LoggingConfig       `toml:"logging"`
}

type InputConfig struct {
	ExcelFilePath              string `toml:"excel_file_path"`
	RowProcessingRange         string `toml:"row_processing_range"`
	FileProfileName            string `toml:"file_profile_name"`
	ConsecutiveEmptyRowsToStop int    `toml:"consecutive_empty_rows_to_stop"`
}

type OutputConfig struct {
	BaseDir                   string `toml:"base_dir"`
	ExcelFileNameTemplate     string `toml:"excel_file_name_template"`
	FilenameCompanyNameMaxLen int    `toml:"filename_company_name_max_len"`
}

type LLMConfig struct {
	DefaultProvider            string  `toml:"default_provider"`
	ClaudeAPIKey               string  `toml:"claude_api_key"`
	GeminiAPIKey               string  `toml:"gemini_api_key"`
	ModelName                  string  `toml:"model_name"`
	Temperature                float64 `toml:"temperature"`
	MaxTokens                  int     `toml:"max_tokens"`
	PromptTemplatePath         string  `toml:"prompt_template_path"`
	MaxRetriesOnNumberMismatch int     `toml:"max_retries_on_number_mismatch"`
	MaxIdenticalNumbersPerPage int     `toml:"max_identical_numbers_per_page_to_llm"`
	CandidateChunkSize         int     `toml:"candidate_chunk_size"`
	MaxChunksPerURL            int     `toml:"max_chunks_per_url"`
}

type ScraperConfig struct {
	UserAgent                      string   `toml:"user_agent"`
	PageTimeoutMs                  int      `toml:"page_timeout_ms"`
	NavigationTimeoutMs            int      `toml:"navigation_timeout_ms"`
	MaxRetries                     int      `toml:"max_retries"`
	RetryDelaySeconds              int      `toml:"retry_delay_seconds"`
	NetworkIdleTimeoutMs           int      `toml:"network_idle_timeout_ms"`
	TargetLinkKeywords              []string `toml:"target_link_keywords"`
	CriticalPriorityKeywords         []string `toml:"critical_priority_keywords"`
	HighPriorityKeywords             []string `toml:"high_priority_keywords"`
	MaxKeywordPathSegments           int      `toml:"max_keyword_path_segments"`
	ExcludeLinkPathPatterns          []string `toml:"exclude_link_path_patterns"`
	MaxPagesPerDomain                int      `toml:"max_pages_per_domain"`
	MinScoreToQueue                  int      `toml:"min_score_to_queue"`
	ScoreThresholdForLimitBypass     int      `toml:"score_threshold_for_limit_bypass"`
	MaxHighPriorityPagesAfterLimit   int      `toml:"max_high_priority_pages_after_limit"`
	SnippetChars                     int      `toml:"snippet_chars"`
	RespectRobotsTxt                 bool     `toml:"respect_robots_txt"`
	RobotsTxtUserAgent               string   `toml:"robots_txt_user_agent"`
}

type CrawlerConfig struct {
	MaxDepthInternalLinks  int      `toml:"max_depth_internal_links"`
	URLProbingTlds         []string `toml:"url_probing_tlds"`
	EnableDNSErrorFallbacks bool    `toml:"enable_dns_error_fallbacks"`
	MaxConcurrentDomains   int      `toml:"max_concurrent_domains"`
}

type ConsolidationConfig struct {
	TargetCountryCodes []string `toml:"target_country_codes"`
	DefaultRegionCode  string   `toml:"default_region_code"`
}

type LoggingConfig struct {
	Level        string   `toml:"level"`
	ConsoleLevel string   `toml:"console_level"`
	Output       []string `toml:"output"`
	TimeFormat   string   `toml:"time_format"`
}

// DefaultConfig mirrors the defaults enumerated in spec.md section 6.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			RowProcessingRange:         "",
			FileProfileName:            "default",
			ConsecutiveEmptyRowsToStop: 3,
		},
		Output: OutputConfig{
			BaseDir:                   "./output",
			ExcelFileNameTemplate:     "contact_report_{RunID}.xlsx",
			FilenameCompanyNameMaxLen: 50,
		},
		LLM: LLMConfig{
			DefaultProvider:            "claude",
			ModelName:                  "claude-sonnet-4-20250514",
			Temperature:                0.0,
			MaxTokens:                  4096,
			MaxRetriesOnNumberMismatch: 1,
			MaxIdenticalNumbersPerPage: 3,
			CandidateChunkSize:         10,
			MaxChunksPerURL:            10,
		},
		Scraper: ScraperConfig{
			UserAgent:                      "ContactScoutBot/1.0",
			PageTimeoutMs:                  30000,
			NavigationTimeoutMs:            60000,
			MaxRetries:                     2,
			RetryDelaySeconds:              5,
			NetworkIdleTimeoutMs:           5000,
			TargetLinkKeywords:             []string{"contact", "about", "impressum", "imprint", "legal"},
			CriticalPriorityKeywords:       []string{"contact", "kontakt", "contacto"},
			HighPriorityKeywords:           []string{"about", "about-us", "impressum"},
			MaxKeywordPathSegments:         2,
			ExcludeLinkPathPatterns:        []string{"/blog/", "/news/", "/wp-content/", "/careers/"},
			MaxPagesPerDomain:              20,
			MinScoreToQueue:                40,
			ScoreThresholdForLimitBypass:   90,
			MaxHighPriorityPagesAfterLimit: 3,
			SnippetChars:                   300,
			RespectRobotsTxt:               true,
			RobotsTxtUserAgent:             "ContactScoutBot",
		},
		Crawler: CrawlerConfig{
			MaxDepthInternalLinks:   2,
			URLProbingTlds:          []string{"com", "de", "net", "org"},
			EnableDNSErrorFallbacks: true,
			MaxConcurrentDomains:    8,
		},
		Consolidation: ConsolidationConfig{
			TargetCountryCodes: []string{},
			DefaultRegionCode:  "US",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleLevel: "info",
			Output:       []string{"stdout"},
			TimeFormat:   "15:04:05.000",
		},
	}
}

// LoadConfig builds the frozen config: defaults, then an optional TOML
// file (skipped silently if path is empty or the file does not exist),
// then CONTACTSCOUT_-prefixed environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides walks a fixed set of CONTACTSCOUT_-prefixed
// environment variables, overriding the matching field when present,
// following the teacher's field-by-field override pattern rather than a
// generic reflection walk.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CONTACTSCOUT_LLM_CLAUDE_API_KEY"); v != "" {
		cfg.LLM.ClaudeAPIKey = v
	}
	if v := os.Getenv("CONTACTSCOUT_LLM_GEMINI_API_KEY"); v != "" {
		cfg.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("CONTACTSCOUT_LLM_MODEL_NAME"); v != "" {
		cfg.LLM.ModelName = v
	}
	if v := os.Getenv("CONTACTSCOUT_INPUT_EXCEL_FILE_PATH"); v != "" {
		cfg.Input.ExcelFilePath = v
	}
	if v := os.Getenv("CONTACTSCOUT_OUTPUT_BASE_DIR"); v != "" {
		cfg.Output.BaseDir = v
	}
	if v := os.Getenv("CONTACTSCOUT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CONTACTSCOUT_CONSOLE_LOG_LEVEL"); v != "" {
		cfg.Logging.ConsoleLevel = v
	}
	if v := os.Getenv("CONTACTSCOUT_SCRAPER_MAX_PAGES_PER_DOMAIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scraper.MaxPagesPerDomain = n
		}
	}
	if v := os.Getenv("CONTACTSCOUT_RESPECT_ROBOTS_TXT"); v != "" {
		cfg.Scraper.RespectRobotsTxt = strings.EqualFold(v, "true")
	}
}
