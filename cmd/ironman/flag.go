package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"
)

type logLevelFlag struct {
	value slog.Level
}

func (l *logLevelFlag) String() string {
	return l.value.String()
}

func (l *logLevelFlag) Set(value string) error {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(value)]
	if !ok {
		return fmt.Errorf("unknown log level %q", value)
	}
	l.value = v
	return nil
}

// defined flags
var (
	levelFlag       logLevelFlag
	configFlag      = flag.String("config", "", "YAML file overriding the default settings")
	logFileFlag     = flag.String("logfile", "", "Write logs to this rotating file instead of stderr")
	environmentFlag = flag.String("environment", "", "URL or path of the Radiance .hdr environment map")
	modelFlag       = flag.String("model", "", "Path of the .gltf or .glb model")
	profileFlag     = flag.Bool("profile", false, "Log frame rate and memory statistics every second")
)

func init() {
	levelFlag.value = slog.LevelInfo
	flag.Var(&levelFlag, "loglevel", "set log level")
}
