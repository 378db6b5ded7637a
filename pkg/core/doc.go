// Package core provides a small, stable facade over lineguard's internal
// packages for programs that want to lint files without shelling out to the
// CLI. Types are aliases of the internal ones so values flow freely between
// the two.
//
// Example:
//
//	cfg := core.DefaultConfig()
//	res, err := core.Run(core.RunOptions{Paths: []string{"."}, Recursive: true}, cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalResults(os.Stdout, res.Results)
package core
