package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/framextract/pkg/configdef"
)

func overloadEnvironment(envs map[string]string) func() {
	environmentRef := environment
	environment = func() map[string]string { return envs }
	return func() { environment = environmentRef }
}

func overloadUserConfigDir(dir string) func() {
	userConfigDirRef := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	return func() { userConfigDir = userConfigDirRef }
}

type LoadConfigTestSuite struct {
	suite.Suite
	configResolver configdef.Resolver
	fs             afero.Fs
	path           string
	resets         []func()
}

func (suite *LoadConfigTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
	suite.configResolver = DefaultResolver()

	// use in memory FS in implementation for tests
	fs = suite.fs
	suite.resets = []func(){
		overloadUserConfigDir("/home/test/.config"),
		overloadEnvironment(map[string]string{}),
	}
	suite.path = filepath.Join("/home/test/.config", vendorName, appName, configFileName)
}

func (suite *LoadConfigTestSuite) TearDownTest() {
	for i := len(suite.resets) - 1; i >= 0; i-- {
		suite.resets[i]()
	}
	fs = afero.NewOsFs()
}

func (suite *LoadConfigTestSuite) writeConfig(path, content string) {
	require.NoError(suite.T(), suite.fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm))
	require.NoError(suite.T(), afero.WriteFile(suite.fs, path, []byte(content), 0644))
}

func (suite *LoadConfigTestSuite) TestLoadWithoutFileGivesDefaults() {
	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), defaultValues(), config)
	assert.Equal(suite.T(), "opencv", config.Backend)
	assert.Equal(suite.T(), "warn", config.LoggingLevel)
}

func (suite *LoadConfigTestSuite) TestLoadConfigFileOverridesDefaults() {
	suite.writeConfig(suite.path, `{
		"backend": "mock",
		"mock": {"fps": 25, "frame_count": 250}
	}`)

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "mock", config.Backend)
	assert.Equal(suite.T(), "warn", config.LoggingLevel)
	assert.Equal(suite.T(), 25.0, config.Mock.FPS)
	assert.Equal(suite.T(), 250, config.Mock.FrameCount)
}

func (suite *LoadConfigTestSuite) TestEnvironmentOverridesConfigFile() {
	suite.writeConfig(suite.path, `{"backend": "mock", "logging_level": "info"}`)
	suite.resets = append(suite.resets, overloadEnvironment(map[string]string{
		"FRAMEX_LOGGING_LEVEL":    "debug",
		"FRAMEX_MOCK_FRAME_COUNT": "42",
	}))

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "mock", config.Backend)
	assert.Equal(suite.T(), "debug", config.LoggingLevel)
	assert.Equal(suite.T(), 42, config.Mock.FrameCount)
}

func (suite *LoadConfigTestSuite) TestExplicitConfigPathIsUsed() {
	suite.writeConfig("/etc/framextract.json", `{"backend": "mock"}`)
	suite.resets = append(suite.resets, overloadEnvironment(map[string]string{
		"FRAMEX_CONFIG": "/etc/framextract.json",
	}))

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "mock", config.Backend)
}

func (suite *LoadConfigTestSuite) TestMissingExplicitConfigPathFails() {
	suite.resets = append(suite.resets, overloadEnvironment(map[string]string{
		"FRAMEX_CONFIG": "/etc/missing.json",
	}))

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.Empty(suite.T(), config)
	assert.True(suite.T(), errors.Is(err, configdef.ErrConfigNotFound))
}

func (suite *LoadConfigTestSuite) TestMalformedConfigFileFails() {
	suite.writeConfig(suite.path, `{"backend": `)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.Empty(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "parsing configuration error")
}

func (suite *LoadConfigTestSuite) TestMalformedEnvironmentFails() {
	suite.resets = append(suite.resets, overloadEnvironment(map[string]string{
		"FRAMEX_MOCK_FPS": "fast",
	}))

	_, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "parsing environment configuration error")
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsValidation() {
	suite.writeConfig(suite.path, `{"backend": "ffmpeg"}`)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.EqualError(suite.T(), err, `Validation error in field "Backend" of type "string" using validator "one_of=opencv,mock"`)
}

func TestLoadConfigTestSuite(t *testing.T) {
	suite.Run(t, &LoadConfigTestSuite{})
}
