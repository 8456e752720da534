// Package destroy handles proxy teardown and host cleanup.
//
// It unwinds what a provisioning run leaves behind: the running unit is
// stopped and disabled, the unit file removed and the unit index reloaded,
// then the config directory and installed binaries are deleted. The log
// file is kept or removed by operator choice. Teardown ends by waiting for
// the listen port to be released.
package destroy
