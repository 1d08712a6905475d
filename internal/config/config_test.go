package config

import (
	"testing"
	"time"
)

func setCredentials(t *testing.T) {
	t.Setenv("JIRA_DOMAIN", "acme.atlassian.net")
	t.Setenv("JIRA_EMAIL", "user@example.com")
	t.Setenv("JIRA_API_TOKEN", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Jira.BaseURL != "https://acme.atlassian.net/rest/api/3" {
		t.Errorf("BaseURL = %q", cfg.Jira.BaseURL)
	}
	if cfg.Jira.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Jira.Timeout)
	}
	if cfg.Report.MaxWorkers != 10 {
		t.Errorf("MaxWorkers = %d, want 10", cfg.Report.MaxWorkers)
	}
	if cfg.Report.MarginDays != 3 {
		t.Errorf("MarginDays = %d, want 3", cfg.Report.MarginDays)
	}
	if cfg.Report.SearchTTL != 30*time.Minute {
		t.Errorf("SearchTTL = %v, want 30m", cfg.Report.SearchTTL)
	}
	if cfg.Report.WorklogTTL != 12*time.Hour {
		t.Errorf("WorklogTTL = %v, want 12h", cfg.Report.WorklogTTL)
	}
	if cfg.Report.DefaultJQL != "project = KAN" {
		t.Errorf("DefaultJQL = %q", cfg.Report.DefaultJQL)
	}
	if cfg.ListenAddr != ":8787" {
		t.Errorf("ListenAddr = %q, want :8787", cfg.ListenAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("DEFAULT_JQL", "project = OPS AND labels = infra")
	t.Setenv("MAX_WORKERS", "4")
	t.Setenv("SEARCH_TTL_MINUTES", "5")
	t.Setenv("WORKLOG_TTL_HOURS", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Report.DefaultJQL != "project = OPS AND labels = infra" {
		t.Errorf("DefaultJQL = %q", cfg.Report.DefaultJQL)
	}
	if cfg.Report.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.Report.MaxWorkers)
	}
	if cfg.Report.SearchTTL != 5*time.Minute {
		t.Errorf("SearchTTL = %v, want 5m", cfg.Report.SearchTTL)
	}
	if cfg.Report.WorklogTTL != time.Hour {
		t.Errorf("WorklogTTL = %v, want 1h", cfg.Report.WorklogTTL)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("JIRA_DOMAIN", "")
	t.Setenv("JIRA_EMAIL", "")
	t.Setenv("JIRA_API_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestGetEnvInt_IgnoresGarbage(t *testing.T) {
	t.Setenv("MAX_WORKERS", "not-a-number")
	if got := getEnvInt("MAX_WORKERS", 10); got != 10 {
		t.Errorf("getEnvInt = %d, want fallback 10", got)
	}
}
