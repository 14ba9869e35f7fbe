package workspace

// overrideUserHomeDir temporarily overrides the userHomeDir function with the provided fn.
// It returns a cleanup function that restores the original userHomeDir implementation.
func overrideUserHomeDir(fn func() (string, error)) func() {
	old := userHomeDir
	userHomeDir = fn
	return func() { userHomeDir = old }
}

// overrideGOOS temporarily overrides the getGOOS function with the provided fn.
// It returns a restore function that, when called, restores getGOOS to its original value.
func overrideGOOS(fn func() string) func() {
	old := getGOOS
	getGOOS = fn
	return func() { getGOOS = old }
}
