package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"OutputDir", flags.OutputDir, "."},
		{"LogLevel", flags.LogLevel, "info"},
		{"LogFormat", flags.LogFormat, "text"},
		{"Language", flags.Language, "en"},
		{"RequestsPerSecond", flags.RequestsPerSecond, 5.0},
		{"Tokenizer", flags.Tokenizer, "auto"},
		{"TargetWords", flags.TargetWords, 2_000_000},
		{"MaxDocuments", flags.MaxDocuments, 20_000},
		{"TopN", flags.TopN, 10_000},
		{"MinDocumentWords", flags.MinDocumentWords, 50},
		{"DelayMin", flags.DelayMin, 500 * time.Millisecond},
		{"DelayMax", flags.DelayMax, 1500 * time.Millisecond},
		{"RetryAttempts", flags.RetryAttempts, 8},
		{"TranslateProvider", flags.TranslateProvider, "openai"},
		{"TranslateParallel", flags.TranslateParallel, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Archive", flags.Archive},
		{"ListModels", flags.ListModels},
		{"ListRuns", flags.ListRuns},
		{"NoProgress", flags.NoProgress},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"DBPath", flags.DBPath},
		{"MetricsAddr", flags.MetricsAddr},
		{"Endpoint", flags.Endpoint},
		{"UserAgent", flags.UserAgent},
		{"Translate", flags.Translate},
		{"TranslateModel", flags.TranslateModel},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}

func TestSamplerConfig(t *testing.T) {
	flags := NewFlags()
	flags.TargetWords = 0
	flags.MaxDocuments = 3
	flags.TopN = 100
	flags.MinDocumentWords = 50
	flags.DelayMin = time.Second
	flags.DelayMax = 2 * time.Second
	flags.RetryAttempts = 4

	cfg := flags.SamplerConfig()

	if cfg.TargetWords != 0 || cfg.MaxDocuments != 3 || cfg.TopN != 100 || cfg.MinDocumentWords != 50 {
		t.Errorf("unexpected limits %+v", cfg)
	}
	if cfg.DelayMin != time.Second || cfg.DelayMax != 2*time.Second {
		t.Errorf("unexpected delay range [%v, %v]", cfg.DelayMin, cfg.DelayMax)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("expected 4 retry attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialDelay != 2*time.Second {
		t.Errorf("expected default initial delay, got %v", cfg.Retry.InitialDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config from flags should be valid: %v", err)
	}

	flags.RetryAttempts = 0
	if got := flags.SamplerConfig().Retry.MaxAttempts; got != 8 {
		t.Errorf("zero retries should fall back to the default, got %d", got)
	}
}

func TestFlagsStructure(t *testing.T) {
	// Test that Flags struct has all expected fields
	flagsType := reflect.TypeOf(Flags{})

	expectedFields := []string{
		"CfgFile", "OutputDir", "Archive", "DBPath", "ListModels", "ListRuns", "NoProgress",
		"LogLevel", "LogFormat", "MetricsAddr",
		"Language", "Endpoint", "UserAgent", "RequestsPerSecond", "Tokenizer",
		"TargetWords", "MaxDocuments", "TopN", "MinDocumentWords", "DelayMin", "DelayMax", "RetryAttempts",
		"Translate", "TranslateProvider", "TranslateModel", "TranslateParallel", "TranslateLimit",
	}

	for _, fieldName := range expectedFields {
		t.Run("has_field_"+fieldName, func(t *testing.T) {
			if _, ok := flagsType.FieldByName(fieldName); !ok {
				t.Errorf("Flags struct missing field: %s", fieldName)
			}
		})
	}
}
