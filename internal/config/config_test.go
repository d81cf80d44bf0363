package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Strava.ClientID = "12345"
	cfg.Strava.ClientSecret = "secret"
	return &cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing client id",
			mutate:  func(c *Config) { c.Strava.ClientID = "" },
			wantErr: true,
		},
		{
			name:    "placeholder client secret",
			mutate:  func(c *Config) { c.Strava.ClientSecret = "YOUR_CLIENT_SECRET" },
			wantErr: true,
		},
		{
			name:    "bad training level",
			mutate:  func(c *Config) { c.Athlete.TrainingLevel = "elite" },
			wantErr: true,
		},
		{
			name:   "valid goal time",
			mutate: func(c *Config) { c.Athlete.GoalTime = "3:30:00" },
		},
		{
			name:    "malformed goal time",
			mutate:  func(c *Config) { c.Athlete.GoalTime = "sub-4" },
			wantErr: true,
		},
		{
			name:   "valid race date",
			mutate: func(c *Config) { c.Athlete.RaceDate = "2026-10-11" },
		},
		{
			name:    "malformed race date",
			mutate:  func(c *Config) { c.Athlete.RaceDate = "October 11" },
			wantErr: true,
		},
		{
			name:    "threshold above max HR",
			mutate:  func(c *Config) { c.Athlete.ThresholdHR = 200 },
			wantErr: true,
		},
		{
			name:    "bad distance unit",
			mutate:  func(c *Config) { c.Display.DistanceUnit = "furlongs" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalTimeSeconds(t *testing.T) {
	a := AthleteConfig{GoalTime: "3:29:45"}
	secs, ok := a.GoalTimeSeconds()
	if !ok {
		t.Fatal("GoalTimeSeconds() ok = false, want true")
	}
	if secs != 3*3600+29*60+45 {
		t.Errorf("GoalTimeSeconds() = %d, want %d", secs, 3*3600+29*60+45)
	}

	a.GoalTime = ""
	if _, ok := a.GoalTimeSeconds(); ok {
		t.Error("empty goal time should return ok = false")
	}
}

func TestParsedRaceDate(t *testing.T) {
	a := AthleteConfig{RaceDate: "2026-10-11"}
	d, ok := a.ParsedRaceDate()
	if !ok {
		t.Fatal("ParsedRaceDate() ok = false, want true")
	}
	want := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("ParsedRaceDate() = %v, want %v", d, want)
	}
}
