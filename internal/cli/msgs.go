package cli

// Short messages (one-liners)
const (
	// oukaro command descriptions
	MsgRootShort     = "Inject Android packages into the system partition"
	MsgRunShort      = "Run the reconciler until terminated"
	MsgOnceShort     = "Run a single reconciliation pass"
	MsgStatusShort   = "Show desired and live injection state"
	MsgSettingsShort = "Print the effective settings"
	MsgVersionShort  = "Print version information"
	MsgVersionLong   = "Print detailed version information including commit hash and build date"

	// okrmng command descriptions
	MsgManagerShort   = "Manage the oukaro package list"
	MsgInitShort      = "Create an empty package list"
	MsgSystemAppShort = "Manage packages injected into /system/app"
	MsgPrivAppShort   = "Manage packages injected into /system/priv-app"
	MsgAddShort       = "Declare packages for injection"
	MsgRmShort        = "Remove packages from the declaration"
	MsgListShort      = "List declared packages"

	// Status messages
	MsgInitialized    = "Created %s\n"
	MsgAdded          = "Added %s to %s\n"
	MsgAlreadyPresent = "%s is already declared as %s\n"
	MsgRemoved        = "Removed %s from %s\n"
	MsgNotPresent     = "%s is not declared as %s\n"
	MsgPassFailed     = "%d package(s) failed"

	// Error messages
	MsgErrNoConfig      = "%s does not exist, run `okrmng init` first"
	MsgErrNoPackages    = "at least one --package is required"
	MsgErrLoadSettings  = "failed to load settings: %w"
	MsgErrUnknownFormat = "invalid --format: %w"
)

// Long descriptions
const (
	MsgRootLong = `oukaro keeps a declared list of Android packages mounted into the read-only
system partition. Each package is bind-mounted from its install directory onto
/system/app/<package> or /system/priv-app/<package>, and unmounted again when it
is removed from the list.

The list lives in a TOML file (default /data/adb/oukaro/config.toml) that is
watched for changes; edit it with okrmng.`

	MsgRunLong = `Run performs a pass at startup and then one pass every time the package list
changes. Packages that are not installed yet, or that fail to mount, are retried
on the next change.`

	MsgManagerLong = `okrmng edits the package list read by the oukaro daemon. The daemon picks up
every change automatically.`
)
