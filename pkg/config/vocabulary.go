package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the hand-curated, domain-specific lists used by the style
// analyzer and the optional score weight override. Every field is optional;
// empty fields keep the built-in defaults.
type Vocabulary struct {
	Weights         *WeightsOverride `yaml:"weights"`
	BusinessPhrases []string         `yaml:"business_phrases"`
	TechnicalTerms  []string         `yaml:"technical_terms"`
	ConversionPaths []string         `yaml:"conversion_paths"`
}

// WeightsOverride mirrors the composite score weights.
type WeightsOverride struct {
	Rank       float64 `yaml:"rank"`
	CTR        float64 `yaml:"ctr"`
	Transition float64 `yaml:"transition"`
	Engagement float64 `yaml:"engagement"`
}

// LoadVocabulary reads a YAML vocabulary file. An empty path yields an empty
// vocabulary and no error.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return &Vocabulary{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	return ParseVocabulary(data)
}

// ParseVocabulary decodes vocabulary YAML.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	v := &Vocabulary{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parse vocabulary yaml: %w", err)
	}
	return v, nil
}
