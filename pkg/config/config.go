// Package config loads hacfg settings from flags, environment, .env files and
// an optional YAML config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable (HACFG_REQUEST_TIMEOUT, ...)
const EnvPrefix = "hacfg"

// WaitTimeoutExpiredReturnCode is the crm_resource exit status for an expired
// --wait timeout
const WaitTimeoutExpiredReturnCode = 62

// Keys of the settings, shared by flags, env and config file
const (
	KeyFile            = "file"
	KeyCorosyncConf    = "corosync-conf"
	KeyClusterConf     = "cluster-conf"
	KeyKnownHosts      = "known-hosts"
	KeyLiveCorosync    = "live-corosync-conf"
	KeyPacemakerBinDir = "pacemaker-bin-dir"
	KeyPort            = "pcsd-port"
	KeyScheme          = "scheme"
	KeyTLSVerify       = "tls-verify"
	KeyRequestTimeout  = "request-timeout"
	KeyCommandTimeout  = "command-timeout"
	KeyHistory         = "history"
	KeyMetricsTextfile = "metrics-textfile"
	KeyLogLevel        = "log-level"
	KeyLogJSON         = "log-json"
	KeyDebug           = "debug"
	KeyForce           = "force"
)

// Settings of one hacfg invocation
type Settings struct {
	// CIBFile switches the CIB to file mode when set
	CIBFile string
	// CorosyncConfFile switches corosync.conf to file mode when set
	CorosyncConfFile string
	ClusterConfFile  string
	KnownHostsFile   string
	// LiveCorosyncConf is the local corosync.conf read by sync-corosync
	LiveCorosyncConf string
	PacemakerBinDir  string
	Port             int
	Scheme           string
	TLSVerify        bool
	RequestTimeout   time.Duration
	// CommandTimeout bounds every pacemaker tool run, waits included. Zero
	// means no bound.
	CommandTimeout time.Duration
	// HistoryPath is the commit journal; empty disables it
	HistoryPath     string
	MetricsTextfile string
	LogLevel        string
	LogJSON         bool
	Debug           bool
	Force           bool
}

// Defaults for settings not given anywhere
var Defaults = map[string]any{
	KeyKnownHosts:      "/var/lib/pcsd/known-hosts",
	KeyLiveCorosync:    "/etc/corosync/corosync.conf",
	KeyPort:            2224,
	KeyScheme:          "https",
	KeyTLSVerify:       false,
	KeyRequestTimeout:  60 * time.Second,
	KeyCommandTimeout:  time.Duration(0),
	KeyHistory:         "",
	KeyMetricsTextfile: "",
	KeyLogLevel:        "warn",
	KeyLogJSON:         false,
}

// LoadEnvFiles loads .env and .env.local from the working directory. Missing
// files are ignored.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// New creates a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load builds the settings. Flags take precedence over the environment which
// takes precedence over the config file.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Settings, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	s := &Settings{
		CIBFile:          v.GetString(KeyFile),
		CorosyncConfFile: v.GetString(KeyCorosyncConf),
		ClusterConfFile:  v.GetString(KeyClusterConf),
		KnownHostsFile:   v.GetString(KeyKnownHosts),
		LiveCorosyncConf: v.GetString(KeyLiveCorosync),
		PacemakerBinDir:  v.GetString(KeyPacemakerBinDir),
		Port:             v.GetInt(KeyPort),
		Scheme:           v.GetString(KeyScheme),
		TLSVerify:        v.GetBool(KeyTLSVerify),
		RequestTimeout:   v.GetDuration(KeyRequestTimeout),
		CommandTimeout:   v.GetDuration(KeyCommandTimeout),
		HistoryPath:      v.GetString(KeyHistory),
		MetricsTextfile:  v.GetString(KeyMetricsTextfile),
		LogLevel:         v.GetString(KeyLogLevel),
		LogJSON:          v.GetBool(KeyLogJSON),
		Debug:            v.GetBool(KeyDebug),
		Force:            v.GetBool(KeyForce),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings
func (s *Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid %s %d", KeyPort, s.Port)
	}
	if s.Scheme != "http" && s.Scheme != "https" {
		return fmt.Errorf("invalid %s %q, use http or https", KeyScheme, s.Scheme)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("invalid %s %s", KeyRequestTimeout, s.RequestTimeout)
	}
	if s.CommandTimeout < 0 {
		return fmt.Errorf("invalid %s %s", KeyCommandTimeout, s.CommandTimeout)
	}
	return nil
}

// CIBLive reports whether the CIB is read from the running cluster
func (s *Settings) CIBLive() bool {
	return s.CIBFile == ""
}
