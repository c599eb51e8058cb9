package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/wallbot/core/config"
	coretelegram "github.com/m3rciful/wallbot/core/telegram"
)

type stubConfig struct{ core *coreconfig.Config }

func (s stubConfig) CoreConfig() *coreconfig.Config { return s.core }

type stubApp struct{ opts coretelegram.RunOptions }

func (s stubApp) TelegramRunOptions() (coretelegram.RunOptions, error) { return s.opts, nil }

func TestRunRequiresLoaders(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Fatal("expected error without LoadConfig")
	}
}

func TestRunWiresLifecycleHooks(t *testing.T) {
	t.Setenv("WALLBOT_TEST_CONFIG", "config.yaml")

	var started, stopped, appStopped bool
	var loadedPath string
	err := Run(Options{
		ConfigEnvVar: "WALLBOT_TEST_CONFIG",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedPath = path
			return stubConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return stubApp{opts: coretelegram.RunOptions{
				OnStop: func(context.Context, coretelegram.Runtime) error { appStopped = true; return nil },
			}}, nil
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			started = true
			stopped = opts.OnStop(ctx, coretelegram.Runtime{}) == nil
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if loadedPath != "config.yaml" || !started || !stopped || !appStopped {
		t.Fatalf("path=%q started=%v stopped=%v appStopped=%v", loadedPath, started, stopped, appStopped)
	}
}

func TestRunPropagatesLoadError(t *testing.T) {
	boom := errors.New("missing token")
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        func(string) (ConfigCarrier, error) { return nil, boom },
		Bootstrap:         func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

type closingApp struct{ closed *bool }

func (a closingApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, errors.New("no routes")
}

func (a closingApp) Close(context.Context) error {
	*a.closed = true
	return nil
}

func TestRunClosesAppWhenOptionsFail(t *testing.T) {
	closed := false
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return stubConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return closingApp{closed: &closed}, nil
		},
		ShutdownLogger: func() error { return nil },
	})
	if err == nil || !closed {
		t.Fatalf("err=%v closed=%v", err, closed)
	}
}

func TestConfigPathPrefersEnv(t *testing.T) {
	t.Setenv("WALLBOT_TEST_PATH", "/etc/wallbot.yaml")
	p, err := configPath(Options{ConfigEnvVar: "WALLBOT_TEST_PATH", DefaultConfigPath: "config.yaml"})
	if err != nil || p != "/etc/wallbot.yaml" {
		t.Fatalf("path = %q, %v", p, err)
	}
	t.Setenv("WALLBOT_TEST_PATH", "")
	if _, err := configPath(Options{ConfigEnvVar: "WALLBOT_TEST_PATH"}); err == nil {
		t.Fatal("expected error without any path")
	}
}
