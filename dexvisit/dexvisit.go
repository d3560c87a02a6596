// Package dexvisit defines the top-down visitor interface a scan of
// an APK or a standalone DEX file drives, extending a class/method-level
// visitor with per-instruction callbacks. Visit order is logically
// top-down, e.g.:
//
//	VisitAPK("mumble.apk")
//	  VisitDEX("classes1.dex", view)
//	    VisitClass(classDef, "Lfoo;", 1)
//	      VisitMethod(methodDef, "foomethod1", 0, 400)
//	        VisitInstruction(insn, 0)
//	        VisitInstruction(insn, 2)
//	    VisitClass(classDef, "Lbar;", 2)
//	      ...
//	  VisitDEX("classes2.dex", view)
//	   ...
package dexvisit

import (
	"github.com/thanm/dexview/dexfile"
	"github.com/thanm/dexview/dexinstr"
)

// Visitor is implemented by anything that wants to observe a scan of
// one or more DEX files. Every method may be called zero or more
// times; VisitInstruction is only called when the visitor's
// WantInstructions reports true, since decoding every instruction of
// every method is the most expensive part of a scan.
type Visitor interface {
	VisitAPK(apkPath string)
	VisitDEX(dexName string, view *dexfile.View)
	VisitClass(cd dexfile.ClassDef, classDescriptor string, numMethods uint32)
	VisitMethod(md dexfile.MethodID, methodName string, methodIdx uint32, codeOff uint32)
	VisitInstruction(insn dexinstr.Instruction, pc uint32)
	WantInstructions() bool
	Verbose(vlevel int, format string, args ...interface{})
}

// Walk drives visitor over every class def in view, and every method
// of every class, decoding each method's instruction stream when the
// visitor asks for it. A malformed class_data_item or code_item for
// one class does not abort the walk of the rest of the file; Walk
// reports the last such error it saw, if any.
func Walk(view *dexfile.View, visitor Visitor) error {
	var lastErr error
	n := view.ClassDefsLen()
	for i := uint32(0); i < n; i++ {
		cd, err := view.GetClassDef(i)
		if err != nil {
			lastErr = err
			continue
		}
		if err := walkClass(view, visitor, cd); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func walkClass(view *dexfile.View, visitor Visitor, cd dexfile.ClassDef) error {
	tid, err := view.GetTypeID(cd.ClassIdx)
	if err != nil {
		return err
	}
	descriptor, err := view.GetUTF16Str(tid.DescriptorIdx)
	if err != nil {
		return err
	}

	acc, err := view.ClassDataAccessor(cd)
	if err != nil {
		return err
	}
	if acc == nil {
		visitor.VisitClass(cd, descriptor, 0)
		return nil
	}

	numMethods := acc.NumDirectMethods + acc.NumVirtualMethods
	visitor.VisitClass(cd, descriptor, numMethods)

	var lastErr error
	walkMethods := func(it *dexfile.MethodIter) {
		for {
			rec, ok, err := it.Next()
			if err != nil {
				lastErr = err
				return
			}
			if !ok {
				return
			}
			if err := visitMethod(view, visitor, rec); err != nil {
				lastErr = err
			}
		}
	}
	walkMethods(acc.DirectMethods())
	walkMethods(acc.VirtualMethods())
	return lastErr
}

func visitMethod(view *dexfile.View, visitor Visitor, rec dexfile.MethodRecord) error {
	md, err := view.GetMethodID(rec.MethodIdx)
	if err != nil {
		return err
	}
	name, err := view.GetUTF16Str(md.NameIdx)
	if err != nil {
		return err
	}
	visitor.VisitMethod(md, name, rec.MethodIdx, rec.CodeOff)

	if !visitor.WantInstructions() || rec.CodeOff == 0 {
		return nil
	}
	code, err := view.CodeItemAccessor(rec.CodeOff)
	if err != nil {
		return err
	}
	it := code.Insns()
	for {
		insn, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		visitor.VisitInstruction(insn, insn.PC())
	}
}
