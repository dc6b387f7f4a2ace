// Package config handles configuration loading and validation for voiceprint.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// PlatformDataDir returns the platform-specific data directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/voiceprint/
//   - Linux:   ~/.local/share/voiceprint/
//   - Windows: %APPDATA%\voiceprint\
//
// Falls back to ~/.voiceprint if platform detection fails.
func PlatformDataDir() string {
	switch runtime.GOOS {
	case "darwin":
		return macOSDataDir()
	case "linux":
		return linuxDataDir()
	case "windows":
		return windowsDataDir()
	default:
		return fallbackDataDir()
	}
}

// PlatformConfigDir returns the platform-specific config directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/voiceprint/
//   - Linux:   ~/.config/voiceprint/
//   - Windows: %APPDATA%\voiceprint\
func PlatformConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		return macOSDataDir() // macOS uses same dir for config and data
	case "linux":
		return linuxConfigDir()
	case "windows":
		return windowsDataDir() // Windows uses same dir for config and data
	default:
		return fallbackDataDir()
	}
}

// PlatformLogDir returns the platform-specific log directory.
//
// Platform paths:
//   - macOS:   ~/Library/Logs/voiceprint/
//   - Linux:   ~/.local/share/voiceprint/logs/
//   - Windows: %LOCALAPPDATA%\voiceprint\logs\
func PlatformLogDir() string {
	switch runtime.GOOS {
	case "darwin":
		return macOSLogDir()
	case "linux":
		return filepath.Join(linuxDataDir(), "logs")
	case "windows":
		return windowsLogDir()
	default:
		return filepath.Join(fallbackDataDir(), "logs")
	}
}

// macOS-specific paths

func macOSDataDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, "Library", "Application Support", "voiceprint")
}

func macOSLogDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, "Library", "Logs", "voiceprint")
}

// Linux-specific paths following XDG Base Directory Specification

func linuxDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "voiceprint")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "voiceprint")
}

func linuxConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "voiceprint")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "voiceprint")
}

// Windows-specific paths

func windowsDataDir() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "voiceprint")
	}
	return fallbackDataDir()
}

func windowsLogDir() string {
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, "voiceprint", "logs")
	}
	return filepath.Join(fallbackDataDir(), "logs")
}

func fallbackDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".voiceprint"
	}
	return filepath.Join(home, ".voiceprint")
}
