package app

import (
	"io"

	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/history"
	"github.com/specialistvlad/fabricshell/modules/basic"
	"github.com/specialistvlad/fabricshell/modules/bitstream"
	"github.com/specialistvlad/fabricshell/modules/setup"
	"github.com/specialistvlad/fabricshell/modules/verilog"
	"github.com/specialistvlad/fabricshell/modules/vpr"
)

// CoreModules is the definitive list of all modules compiled into the
// fabricshell binary, in registration order. Later modules reference
// commands of earlier ones as prerequisites.
func CoreModules(outW io.Writer, log *history.Log) []catalog.Module {
	return []catalog.Module{
		&basic.Module{Out: outW, History: log},
		&vpr.Module{},
		&setup.Module{},
		&bitstream.Module{},
		&verilog.Module{},
	}
}
