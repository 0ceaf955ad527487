package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/herostats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DefaultLevelScale, convey.ShouldEqual, 315)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HEROSTATS_ADDR", ":8080")
			_ = os.Setenv("HEROSTATS_QUEUE_SIZE", "500")
			_ = os.Setenv("HEROSTATS_WORKER_COUNT", "4")
			_ = os.Setenv("HEROSTATS_DEFAULT_LEVEL_SCALE", "400.5")
			_ = os.Setenv("HEROSTATS_CORS_ALLOWED_ORIGINS", "https://stats.example, https://admin.example")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.DefaultLevelScale, convey.ShouldEqual, 400.5)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://stats.example", "https://admin.example"})
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
api_base_url: "http://localhost:7000"
default_level_scale: 200
level_scales:
  aang: 250
  katara: 500
pool_ttl_seconds: 0
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("HEROSTATS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "http://localhost:7000")
				convey.So(cfg.DefaultLevelScale, convey.ShouldEqual, 200)
				convey.So(cfg.LevelScales["aang"], convey.ShouldEqual, 250)
				convey.So(cfg.LevelScales["katara"], convey.ShouldEqual, 500)
				convey.So(cfg.PoolTTLSeconds, convey.ShouldEqual, 0)
				convey.So(cfg.AvatarBaseURL, convey.ShouldEqual, "https://mc-heads.net")
			})
		})

		convey.Convey("When both file and environment set a value", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nworker_count: 24\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("HEROSTATS_CONFIG", tmpFile)
			_ = os.Setenv("HEROSTATS_WORKER_COUNT", "32")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("HEROSTATS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("HEROSTATS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("HEROSTATS_QUEUE_SIZE", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given configs that break validation rules", t, func() {
		convey.Convey("When addr is empty", func() {
			cfg := config.New()
			cfg.Addr = ""
			err := config.Validate(cfg)

			convey.Convey("Then the error should name the key", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr failed required")
			})
		})

		convey.Convey("When the api base url is not a url", func() {
			cfg := config.New()
			cfg.APIBaseURL = "not a url"
			err := config.Validate(cfg)

			convey.Convey("Then validation should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "api_base_url")
			})
		})

		convey.Convey("When the default level scale is zero", func() {
			cfg := config.New()
			cfg.DefaultLevelScale = 0

			convey.Convey("Then validation should fail", func() {
				convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a hero level scale is negative", func() {
			cfg := config.New()
			cfg.LevelScales = map[string]float64{"aang": -1}
			err := config.Validate(cfg)

			convey.Convey("Then validation should name the hero", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "level_scales.aang")
			})
		})

		convey.Convey("When the log format is unknown", func() {
			cfg := config.New()
			cfg.LogFormat = "xml"

			convey.Convey("Then validation should fail", func() {
				convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"HEROSTATS_CONFIG",
		"HEROSTATS_ADDR",
		"HEROSTATS_QUEUE_SIZE",
		"HEROSTATS_WORKER_COUNT",
		"HEROSTATS_DEFAULT_LEVEL_SCALE",
		"HEROSTATS_CORS_ALLOWED_ORIGINS",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "herostats-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
