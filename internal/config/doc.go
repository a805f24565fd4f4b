// Package config defines the format-agnostic model of a batch script, along
// with the Loader interface that turns a script file into that model.
//
// The `config.Script` is the single input of a batch run. Concrete loaders
// live here (plain shell lines) and in separate packages (HCL).
package config
