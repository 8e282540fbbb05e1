package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/okian/dribble/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldBeEmpty)
			convey.So(cfg.Subsets, convey.ShouldResemble, []string{"interpolated-predictions"})
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.InnerRadius, convey.ShouldEqual, 2.0)
			convey.So(cfg.OuterRadius, convey.ShouldEqual, 5.0)
			convey.So(cfg.InnerThreshold, convey.ShouldEqual, 5)
			convey.So(cfg.OuterThreshold, convey.ShouldEqual, 10)
			convey.So(cfg.ExportMargin, convey.ShouldEqual, 20)
			convey.So(cfg.KeepUnfinished, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.DetectorOptions(), convey.ShouldHaveLength, 3)
			convey.So(cfg.MissingBall().X, convey.ShouldEqual, 1e9)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty data path", func(c *config.Config) { c.DataPath = " " }},
			{"empty output path", func(c *config.Config) { c.OutputPath = "" }},
			{"no subsets", func(c *config.Config) { c.Subsets = nil }},
			{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"negative dedupe", func(c *config.Config) { c.DedupeSize = -1 }},
			{"zero inner radius", func(c *config.Config) { c.InnerRadius = 0 }},
			{"inner equals outer", func(c *config.Config) { c.InnerRadius = c.OuterRadius }},
			{"zero inner threshold", func(c *config.Config) { c.InnerThreshold = 0 }},
			{"negative outer threshold", func(c *config.Config) { c.OuterThreshold = -3 }},
			{"negative frame gap", func(c *config.Config) { c.MaxFrameGap = -1 }},
			{"negative margin", func(c *config.Config) { c.ExportMargin = -1 }},
		}

		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DataPath, convey.ShouldEqual, "data/SoccerNetGS")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1_000)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DRIBBLE_ADDR", ":8080")
			_ = os.Setenv("DRIBBLE_WORKER_COUNT", "16")
			_ = os.Setenv("DRIBBLE_INNER_RADIUS", "1.5")
			_ = os.Setenv("DRIBBLE_KEEP_UNFINISHED", "true")
			_ = os.Setenv("DRIBBLE_SUBSETS", "train,valid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.InnerRadius, convey.ShouldEqual, 1.5)
				convey.So(cfg.KeepUnfinished, convey.ShouldBeTrue)
				convey.So(cfg.Subsets, convey.ShouldResemble, []string{"train", "valid"})
			})
		})

		convey.Convey("When list keys are given as comma separated env values", func() {
			_ = os.Setenv("DRIBBLE_SUBSETS", "train,valid,test")
			_ = os.Setenv("DRIBBLE_IGNORE_TEAMS", "left,right")
			_ = os.Setenv("DRIBBLE_IGNORE_PERSON_CLASSES", "referee,goalkeeper")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then every list should be split into its items", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Subsets, convey.ShouldResemble, []string{"train", "valid", "test"})
				convey.So(cfg.IgnoreTeams, convey.ShouldResemble, []string{"left", "right"})
				convey.So(cfg.IgnorePersonClasses, convey.ShouldResemble, []string{"referee", "goalkeeper"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# detection tuning
data_path: /datasets/gs
subsets: [test, challenge]
inner_radius: 1.5
outer_radius: 4   # pitch units
inner_threshold: 3
outer_threshold: 8
ignore_person_classes: [referee]
ignore_teams: [right]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DRIBBLE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataPath, convey.ShouldEqual, "/datasets/gs")
				convey.So(cfg.Subsets, convey.ShouldResemble, []string{"test", "challenge"})
				convey.So(cfg.OuterRadius, convey.ShouldEqual, 4.0)
				convey.So(cfg.InnerThreshold, convey.ShouldEqual, 3)
				convey.So(cfg.OuterThreshold, convey.ShouldEqual, 8)
				convey.So(cfg.IgnorePersonClasses, convey.ShouldResemble, []string{"referee"})
				convey.So(cfg.IgnoreTeams, convey.ShouldResemble, []string{"right"})
				convey.So(cfg.ExportMargin, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
worker_count: 24
queue_size: 300
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DRIBBLE_CONFIG", tmpFile)
			_ = os.Setenv("DRIBBLE_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32) // env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)  // file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DRIBBLE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DRIBBLE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DRIBBLE_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the zones overlap", func() {
			_ = os.Setenv("DRIBBLE_INNER_RADIUS", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "inner_radius")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DRIBBLE_CONFIG",
		"DRIBBLE_ADDR",
		"DRIBBLE_WORKER_COUNT",
		"DRIBBLE_INNER_RADIUS",
		"DRIBBLE_KEEP_UNFINISHED",
		"DRIBBLE_SUBSETS",
		"DRIBBLE_IGNORE_TEAMS",
		"DRIBBLE_IGNORE_PERSON_CLASSES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "dribble-config-*.yaml")
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
