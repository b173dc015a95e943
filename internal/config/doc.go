// Package config loads the optional strset.hcl settings file.
//
// The file controls diagnostics only:
//
//	debug = true
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
//
// Every attribute is optional. Unset values are reported as nil so that the
// command line can tell "not configured" apart from an explicit value when it
// merges flags over the file.
package config
