package config

import "path/filepath"

const (
	// ConfigFileName is the global settings file under the norun home.
	ConfigFileName = "config.toml"

	prefixesDirName = "prefixes"
	appsDirName     = "apps"
	logsDirName     = "logs"
	cacheDirName    = "cache"

	dxvkCacheDirName  = "dxvk"
	vkd3dCacheDirName = "vkd3d"

	appConfigFileName  = "app.json"
	installLogFileName = "install.log"
	runLogFileName     = "run.log"
)

func homeConfigPath(home string) string {
	return filepath.Join(home, ConfigFileName)
}

func defaultHomePath(home string) string {
	return filepath.Join(home, ".local", "share", "norun")
}

func (c *Config) ConfigPath() string {
	return homeConfigPath(c.HomeDir)
}

func (c *Config) PrefixesDir() string {
	return filepath.Join(c.HomeDir, prefixesDirName)
}

// PrefixDir is the wine prefix for one app.
func (c *Config) PrefixDir(app string) string {
	return filepath.Join(c.PrefixesDir(), app)
}

func (c *Config) AppsDir() string {
	return filepath.Join(c.HomeDir, appsDirName)
}

// AppDir holds an app's persisted config and any portable executables.
func (c *Config) AppDir(app string) string {
	return filepath.Join(c.AppsDir(), app)
}

func (c *Config) appConfigPath(app string) string {
	return filepath.Join(c.AppDir(app), appConfigFileName)
}

func (c *Config) LogsDir() string {
	return filepath.Join(c.HomeDir, logsDirName)
}

func (c *Config) AppLogDir(app string) string {
	return filepath.Join(c.LogsDir(), app)
}

func (c *Config) InstallLogPath(app string) string {
	return filepath.Join(c.AppLogDir(app), installLogFileName)
}

func (c *Config) RunLogPath(app string) string {
	return filepath.Join(c.AppLogDir(app), runLogFileName)
}

// CacheDir holds shader caches shared by all prefixes.
func (c *Config) CacheDir() string {
	return filepath.Join(c.HomeDir, cacheDirName)
}
