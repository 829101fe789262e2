package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Server       Server  `koanf:"server"`
	Timezone     string  `koanf:"timezone"`
	WeekFirstDay string  `koanf:"weekfirstday"`
	Catalog      Catalog `koanf:"catalog"`
	Storage      Storage `koanf:"storage"`
}

type Server struct {
	Addr      string  `koanf:"addr"`
	RateLimit float64 `koanf:"ratelimit"`
	Burst     int     `koanf:"burst"`
}

type Catalog struct {
	// Path to a JSON or YAML catalog. Empty means the embedded default catalog.
	Path string `koanf:"path"`
}

type Storage struct {
	// Driver is one of "sqlite", "file" or "memory".
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	Slot   string `koanf:"slot"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr:      "127.0.0.1:8181",
			RateLimit: 20,
			Burst:     40,
		},
		Timezone:     "",
		WeekFirstDay: "sunday",
		Storage: Storage{
			Driver: "sqlite",
			Path:   "./data/kairoplan.db",
			Slot:   "calendarEvents",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "KAIROPLAN_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "KAIROPLAN_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured timezone, falling back to the process local zone.
func (a Application) Location() *time.Location {
	if a.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		log.Warnf("unknown timezone %q, using local time: %v", a.Timezone, err)
		return time.Local
	}
	return loc
}

// WeekStart parses WeekFirstDay. Unknown values fall back to Sunday.
func (a Application) WeekStart() time.Weekday {
	switch strings.ToLower(strings.TrimSpace(a.WeekFirstDay)) {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
