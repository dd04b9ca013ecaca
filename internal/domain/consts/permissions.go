package consts

// Recommended permissions for different types of files and directories ytdlnis might create.
const (
	// ** World Readable **
	PermsGenericDir = 0o755
	PermsLogFile    = 0o644
	PermsExportFile = 0o644

	// ** Private **
	// Sensitive files - owner only
	PermsCookieDir  = 0o750 // Private cache directory
	PermsCookieFile = 0o600 // Private cookie files
)
