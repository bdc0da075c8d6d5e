package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every heuristic the import engine uses: header synonyms,
// field fallback chains, keyword categories, and matching thresholds.
// Nothing is hard-coded so tenants can override any of it.
type Config struct {
	Synonyms  map[string]string `yaml:"synonyms"`
	Fallbacks FallbacksConfig   `yaml:"fallbacks"`
	Keywords  []KeywordCategory `yaml:"keywords,omitempty"`
	Defaults  DefaultsConfig    `yaml:"defaults"`
	Matching  MatchingConfig    `yaml:"matching"`

	// DateMonthFirst flips ambiguous numeric dates like 03/04/2024 to
	// month-before-day. Day-first is the default policy.
	DateMonthFirst bool `yaml:"date_month_first"`
}

// FallbacksConfig lists, per canonical field, the source keys tried in order
// when building a draft from a raw row.
type FallbacksConfig struct {
	Date        []string `yaml:"date"`
	Amount      []string `yaml:"amount"`
	Category    []string `yaml:"category"`
	SubCategory []string `yaml:"sub_category"`
	Description []string `yaml:"description"`
	PaymentMode []string `yaml:"payment_mode"`
	Remark      []string `yaml:"remark"`
}

// KeywordCategory assigns a best-effort category when a description contains
// one of the keywords and no category column was present.
type KeywordCategory struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// DefaultsConfig fills canonical fields that are absent from the source row.
type DefaultsConfig struct {
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	PaymentMode string `yaml:"payment_mode"`
}

// MatchingConfig controls the three reconciliation strategies.
type MatchingConfig struct {
	// AmountTolerance is the slack for the tolerant strategy.
	AmountTolerance float64 `yaml:"amount_tolerance"`
	// FuzzyAmountSlack is the wider slack for the fuzzy strategy.
	FuzzyAmountSlack float64 `yaml:"fuzzy_amount_slack"`
	// FuzzyOverlap is the minimum description token-overlap ratio
	// (exclusive) for a fuzzy match.
	FuzzyOverlap float64 `yaml:"fuzzy_overlap"`
	// MinTokenLength excludes short words from the overlap ratio.
	MinTokenLength int `yaml:"min_token_length"`
}

// Load reads an engine config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the built-in engine configuration.
func Default() *Config {
	return &Config{
		Synonyms: map[string]string{
			"date":               "date",
			"transaction date":   "date",
			"txn date":           "date",
			"expense date":       "date",
			"value date":         "date",
			"posting date":       "date",
			"amount":             "amount",
			"transaction amount": "amount",
			"txn amount":         "amount",
			"debit":              "amount",
			"credit":             "amount",
			"category":           "category",
			"expense category":   "category",
			"expense type":       "category",
			"sub category":       "subcategory",
			"sub-category":       "subcategory",
			"subcategory":        "subcategory",
			"description":        "description",
			"narration":          "description",
			"notes":              "description",
			"remark":             "description",
			"remarks":            "description",
			"details":            "description",
			"particulars":        "description",
			"payment mode":       "paymentmode",
			"payment method":     "paymentmode",
			"mode of payment":    "paymentmode",
			"mode":               "paymentmode",
		},
		Fallbacks: FallbacksConfig{
			Date:        []string{"date", "transaction date", "txn date"},
			Amount:      []string{"amount", "debit", "credit"},
			Category:    []string{"category", "expense category"},
			SubCategory: []string{"subcategory", "sub category"},
			Description: []string{"description", "narration", "remark", "notes", "details"},
			PaymentMode: []string{"paymentmode", "payment mode", "mode"},
			Remark:      []string{"remark", "remarks", "notes"},
		},
		Keywords: []KeywordCategory{
			{Category: "Food & Dining", Keywords: []string{"restaurant", "grocery", "supermarket", "cafe", "food"}},
			{Category: "Travel", Keywords: []string{"fuel", "petrol", "transport", "taxi", "uber", "train"}},
			{Category: "Utilities", Keywords: []string{"electricity", "water", "internet", "mobile", "recharge"}},
			{Category: "Shopping", Keywords: []string{"amazon", "store", "mall", "shopping"}},
		},
		Defaults: DefaultsConfig{
			Category:    "Miscellaneous",
			Description: "Imported transaction",
			PaymentMode: "Cash",
		},
		Matching: MatchingConfig{
			AmountTolerance:  0.01,
			FuzzyAmountSlack: 1.00,
			FuzzyOverlap:     0.3,
			MinTokenLength:   3,
		},
	}
}
