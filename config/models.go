package config

// Config is the complete tandem configuration.
type Config struct {
	Editor   EditorConfig   `mapstructure:"editor"`
	Portal   PortalConfig   `mapstructure:"portal"`
	Identity IdentityConfig `mapstructure:"identity"`
	Log      LogConfig      `mapstructure:"log"`
}

type EditorConfig struct {
	HistoryLimit    int    `mapstructure:"historyLimit"`
	ShowLineNumbers bool   `mapstructure:"showLineNumbers"`
	ScrollPolicy    string `mapstructure:"scrollPolicy"`
	TabWidth        int    `mapstructure:"tabWidth"`
}

type PortalConfig struct {
	// FollowHostCursor is the initial follow flag of guest editors.
	FollowHostCursor bool `mapstructure:"followHostCursor"`
	// SettingsURL is linked from the "client out of date" notification.
	SettingsURL string `mapstructure:"settingsURL"`
}

type IdentityConfig struct {
	Login string `mapstructure:"login"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
