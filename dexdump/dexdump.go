// Package dexdump implements a dexvisit.Visitor that renders a DEX
// view to a stream, driven by the class-def/method-record/instruction
// shapes dexvisit.Walk feeds it, with structured logging for anything
// worth tracing along the way.
package dexdump

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/thanm/dexview/dexfile"
	"github.com/thanm/dexview/dexinstr"
)

// Dumper writes a textual rendering of a DEX/APK scan to Out, logging
// diagnostics through Log at increasing verbosity as Vlevel allows.
type Dumper struct {
	Out    io.Writer
	Log    *logrus.Logger
	Vlevel int

	// Instructions selects whether WantInstructions asks dexvisit.Walk
	// to decode and visit every instruction of every method, or only
	// class/method-level information.
	Instructions bool

	curView *dexfile.View
}

// NewDumper returns a Dumper writing to out, logging through a fresh
// logrus.Logger at the given level.
func NewDumper(out io.Writer, vlevel int, instructions bool) *Dumper {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(logrus.WarnLevel)
	if vlevel > 0 {
		log.SetLevel(logrus.DebugLevel)
	}
	return &Dumper{Out: out, Log: log, Vlevel: vlevel, Instructions: instructions}
}

func (d *Dumper) VisitAPK(apk string) {
	fmt.Fprintf(d.Out, "APK %s\n", apk)
}

func (d *Dumper) VisitDEX(dexname string, v *dexfile.View) {
	d.curView = v
	fmt.Fprintf(d.Out, " DEX %s sha1 %x\n", dexname, v.Header().Signature)
}

func (d *Dumper) VisitClass(cd dexfile.ClassDef, classDescriptor string, nmethods uint32) {
	fmt.Fprintf(d.Out, "  class %s methods: %d\n", dexfile.PrettyDescriptor(classDescriptor), nmethods)
}

func (d *Dumper) VisitMethod(md dexfile.MethodID, methodname string, methodIdx uint32, codeOffset uint32) {
	fmt.Fprintf(d.Out, "   method id %d name '%s' code offset %d\n", methodIdx, methodname, codeOffset)
}

func (d *Dumper) VisitInstruction(insn dexinstr.Instruction, pc uint32) {
	fmt.Fprintf(d.Out, "    %04x: %s\n", pc, dexfile.FormatInstruction(insn, d.curView))
}

func (d *Dumper) WantInstructions() bool { return d.Instructions }

func (d *Dumper) Verbose(vlevel int, format string, a ...interface{}) {
	if d.Vlevel < vlevel {
		return
	}
	d.Log.WithField("vlevel", vlevel).Debugf(format, a...)
}
