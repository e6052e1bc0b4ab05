// Package config locates the cipp configuration directory and loads the
// site configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user configuration directory.
const AppName = "cipp"

// Environment variables read by this package.
const (
	EnvConfigHome = "CIPP_CONFIG_HOME"
	EnvSite       = "CIPP_SITE"
)

// UserSiteFile is the site file name inside the configuration directory.
const UserSiteFile = "site.yaml"

// Dir returns the per-user configuration directory, checked in order:
//
//	$CIPP_CONFIG_HOME
//	$XDG_CONFIG_HOME/cipp
//	%AppData%\cipp (Windows)
//	~/.config/cipp
//
// It returns "" when no home directory can be determined.
func Dir() string {
	switch {
	case os.Getenv(EnvConfigHome) != "":
		return os.Getenv(EnvConfigHome)
	case os.Getenv("XDG_CONFIG_HOME") != "":
		return filepath.Join(os.Getenv("XDG_CONFIG_HOME"), AppName)
	case runtime.GOOS == "windows" && os.Getenv("APPDATA") != "":
		return filepath.Join(os.Getenv("APPDATA"), AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// SearchPaths lists the site files Find tries after $CIPP_SITE.
func SearchPaths() []string {
	paths := []string{SiteFile}
	if dir := Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, UserSiteFile))
	}
	return paths
}
