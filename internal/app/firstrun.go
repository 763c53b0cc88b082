package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/intake-toolkit/willdo/internal/config"
)

// runSetup collects the minimum settings interactively and persists them.
// The form is pre-filled with whatever the config file already had, so a
// partially edited file only asks for what is missing.
func runSetup(configPath string, cfg config.Config) (config.Config, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Intake service URL").
				Description("Base URL of the team's intake service.").
				Value(&cfg.APIURL).
				Validate(required("api_url")),
			huh.NewInput().
				Title("Username").
				Description("Your identity for claims and highlighting.").
				Value(&cfg.Username).
				Validate(required("username")),
			huh.NewInput().
				Title("Auth token").
				Description("From the service's obtain-token page.").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.AuthToken).
				Validate(required("auth_token")),
			huh.NewInput().
				Title("Repository root").
				Description("Absolute path of your local checkout.").
				Value(&cfg.RepoRoot).
				Validate(required("repo_root")),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cfg, errors.New(config.FirstUseMessage)
		}
		return cfg, fmt.Errorf("setup form: %w", err)
	}

	if err := config.Save(configPath, cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}
	return cfg, nil
}

func required(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
