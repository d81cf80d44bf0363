package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/oauth2"

	"marathon-coach/internal/auth"
	"marathon-coach/internal/config"
	"marathon-coach/internal/export"
	"marathon-coach/internal/service"
	"marathon-coach/internal/store"
	"marathon-coach/internal/strava"
	"marathon-coach/internal/tui"
)

func main() {
	importPath := flag.String("import", "", "import a .gpx or .fit activity file and exit")
	exportPath := flag.String("export", "", "export all activities to a parquet file and exit")
	flag.Parse()

	if err := run(*importPath, *exportPath); err != nil {
		log.Fatal(err)
	}
}

func run(importPath, exportPath string) error {
	// File import and export work without Strava credentials
	if importPath != "" {
		return runImport(importPath)
	}
	if exportPath != "" {
		return runExport(exportPath)
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating an example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nEdit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need Strava API credentials from: https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	persist := func(t *oauth2.Token) error {
		return db.UpdateTokens(t.AccessToken, t.RefreshToken, t.Expiry)
	}
	tokenSource := auth.NewTokenSource(oauthCfg, auth.TokenFromStored(*storedAuth), persist)

	// Verify the stored token still refreshes
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return fmt.Errorf("fetching auth after login: %w", err)
		}
		tokenSource = auth.NewTokenSource(oauthCfg, auth.TokenFromStored(*storedAuth), persist)
	}

	stravaClient := strava.NewClient(tokenSource)
	syncSvc := service.NewSyncService(stravaClient, db, cfg.Athlete)
	querySvc := service.NewQueryService(db, cfg.Athlete)

	app := tui.NewApp(querySvc, syncSvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func runImport(path string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	result, err := service.NewImportService(db).ImportFile(path)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	if result.Skipped {
		fmt.Println("Already imported; skipping.")
		return nil
	}

	a := result.Activity
	fmt.Printf("Imported %q: %.1f km in %s\n", a.Name, a.Distance/1000, service.FormatDuration(int(a.Duration)))
	for _, pr := range result.NewRecords {
		fmt.Printf("  New record: %s\n", pr.Category)
	}
	return nil
}

func runExport(path string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	n, err := export.WriteActivitiesFile(db, path)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	fmt.Printf("Exported %d activities to %s\n", n, path)
	return nil
}

func authenticate(ctx context.Context, db *store.DB, cfg *config.Config) error {
	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return err
	}

	stored := result.ToStored()
	if err := db.SaveAuth(&stored); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Authenticated as athlete %d.\n", result.AthleteID)
	return nil
}
