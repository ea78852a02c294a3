package config

const (
	defaultWatchFolder        = "~/photos/inbox"
	defaultLogDir             = "~/.local/share/photosort/logs"
	defaultWindowMinutes      = 60
	defaultMaxPhotos          = 200
	defaultStartupScanMinutes = 1440
	defaultSettleDelaySeconds = 2
	defaultMarkerPrefix       = "QR_"
	defaultBackupFolder       = "_backup"
	defaultErrorFolder        = "_error"
	defaultDoneFolder         = "_done"
	defaultErrorPolicy        = PolicyHalt
	defaultEventQueueSize     = 256
	defaultNtfyTimeout        = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchFolder: defaultWatchFolder,
			LogDir:      defaultLogDir,
		},
		Session: Session{
			WindowMinutes:      defaultWindowMinutes,
			MaxPhotos:          defaultMaxPhotos,
			StartupScanMinutes: defaultStartupScanMinutes,
			SettleDelaySeconds: defaultSettleDelaySeconds,
			MarkerPrefix:       defaultMarkerPrefix,
		},
		Folders: Folders{
			Backup: defaultBackupFolder,
			Error:  defaultErrorFolder,
			Done:   defaultDoneFolder,
		},
		Processing: Processing{
			ErrorPolicy:         defaultErrorPolicy,
			SupportedExtensions: defaultExtensions(),
			EventQueueSize:      defaultEventQueueSize,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
