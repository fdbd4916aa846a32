package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/framextract/pkg/configdef"
	"github.com/tauraamui/framextract/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "framextract"
	configFileName = "config.json"
	envPrefix      = "FRAMEX_"
	configPathEnv  = envPrefix + "CONFIG"
)

var fs afero.Fs = afero.NewOsFs()

// load layers the built in defaults, then the config file if there is one,
// then any FRAMEX_ environment variables.
func load() (configdef.Values, error) {
	values := defaultValues()

	configPath, explicit, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	file, err := readConfigFile(configPath)
	switch {
	case err == nil:
		log.Info("Resolved config file location: %s", configPath)
		if err := unmarshal(file, &values); err != nil {
			return configdef.Values{}, err
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		log.Debug("No config file at %s, using defaults", configPath)
	case errors.Is(err, os.ErrNotExist):
		return configdef.Values{}, xerror.Errorf("%w: %s", configdef.ErrConfigNotFound, configPath)
	default:
		return configdef.Values{}, xerror.Errorf("unable to read %s: %w", configPath, err)
	}

	if err := lookupEnv(&values); err != nil {
		return configdef.Values{}, err
	}

	if err := values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

// environment only carries non-empty FRAMEX_ variables so a blank
// variable leaves the lower layers alone.
var environment = func() map[string]string {
	envs := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, envPrefix) && len(v) > 0 {
			envs[k] = v
		}
	}
	return envs
}

func lookupEnv(values *configdef.Values) error {
	if err := env.ParseWithOptions(values, env.Options{Environment: environment()}); err != nil {
		return pkgerrors.Errorf("parsing environment configuration error: %v", err)
	}
	return nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return pkgerrors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, bool, error) {
	configPath := environment()[configPathEnv]
	if len(configPath) > 0 {
		return configPath, true, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", false, xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), false, nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
