package dexfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thanm/dexview/dexinstr"
)

// FormatInstruction renders insn as "name vA, vB, …,
// resolved-reference", where resolved-reference is built from the DEX
// tables reachable through v. If v is nil, only
// the raw index form is emitted for whichever reference the
// instruction carries. Call-site and method-handle references are not
// resolved: they are always emitted as call_site@NNNN and
// method_handle@NNNN.
func FormatInstruction(insn dexinstr.Instruction, v *View) string {
	var b strings.Builder
	b.WriteString(insn.Name())

	operands := operandStrings(insn)
	ref := referenceString(insn, v)
	all := operands
	if ref != "" {
		all = append(append([]string(nil), operands...), ref)
	}
	if len(all) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(all, ", "))
	}
	return b.String()
}

func reg(n uint32) string { return "v" + strconv.FormatUint(uint64(n), 10) }

func operandStrings(insn dexinstr.Instruction) []string {
	var out []string
	format := insn.Format()
	switch format {
	case dexinstr.FormatPackedSwitchPayload, dexinstr.FormatSparseSwitchPayload, dexinstr.FormatFillArrayDataPayload:
		return nil
	}

	if a, err := insn.VA(); err == nil {
		out = append(out, reg(a))
	}
	// Format22x's vB is a wide 16-bit register, read through VBBBB
	// instead of the byte-sized VB used by every other two-register
	// format; asking for both here would print the register twice.
	if format == dexinstr.Format22x {
		if bbbb, err := insn.VBBBB(); err == nil {
			out = append(out, reg(bbbb))
		}
	} else if b, err := insn.VB(); err == nil {
		out = append(out, reg(b))
	}
	if c, err := insn.VC(); err == nil {
		out = append(out, reg(c))
	}
	if args, err := insn.Args(); err == nil {
		regs := make([]string, len(args))
		for i, r := range args {
			regs[i] = reg(uint32(r))
		}
		out = append(out, "{"+strings.Join(regs, ", ")+"}")
	}
	if start, count, err := insn.RangeArgs(); err == nil {
		if count == 0 {
			out = append(out, "{}")
		} else {
			out = append(out, fmt.Sprintf("{%s .. %s}", reg(uint32(start)), reg(uint32(start)+uint32(count)-1)))
		}
	}
	if off, err := insn.Offset(); err == nil {
		out = append(out, fmt.Sprintf("%+d", off))
	}
	if lit, err := insn.Literal(); err == nil {
		out = append(out, "#"+strconv.FormatInt(lit, 10))
	}
	return out
}

func referenceString(insn dexinstr.Instruction, v *View) string {
	idx, err := insn.Index()
	if err != nil {
		return ""
	}
	kind := insn.IndexKind()
	if v == nil {
		return fmt.Sprintf("%s@%04x", indexKindTag(kind), idx)
	}

	switch kind {
	case dexinstr.IndexStringRef:
		s, err := v.GetUTF16Str(idx)
		if err != nil {
			return fmt.Sprintf("string@%04x <error>", idx)
		}
		return fmt.Sprintf("string@%04x %q", idx, s)
	case dexinstr.IndexTypeRef:
		desc, err := v.typeDescriptor(idx)
		if err != nil {
			return fmt.Sprintf("type@%04x <error>", idx)
		}
		return fmt.Sprintf("type@%04x %s", idx, desc)
	case dexinstr.IndexFieldRef:
		s, err := v.fieldRefString(idx)
		if err != nil {
			return fmt.Sprintf("field@%04x <error>", idx)
		}
		return fmt.Sprintf("field@%04x %s", idx, s)
	case dexinstr.IndexMethodRef:
		s, err := v.methodRefString(idx)
		if err != nil {
			return fmt.Sprintf("method@%04x <error>", idx)
		}
		return fmt.Sprintf("method@%04x %s", idx, s)
	case dexinstr.IndexMethodAndProtoRef:
		s, err := v.methodRefString(idx)
		if err != nil {
			return fmt.Sprintf("method@%04x <error>", idx)
		}
		idx2, err2 := insn.Index2()
		if err2 != nil {
			return fmt.Sprintf("method@%04x %s", idx, s)
		}
		proto, err := v.protoString(idx2)
		if err != nil {
			return fmt.Sprintf("method@%04x %s, proto@%04x <error>", idx, s, idx2)
		}
		return fmt.Sprintf("method@%04x %s, proto@%04x %s", idx, s, idx2, proto)
	case dexinstr.IndexCallSiteRef:
		return fmt.Sprintf("call_site@%04x", idx)
	case dexinstr.IndexMethodHandleRef:
		return fmt.Sprintf("method_handle@%04x", idx)
	case dexinstr.IndexProtoRef:
		s, err := v.protoString(idx)
		if err != nil {
			return fmt.Sprintf("proto@%04x <error>", idx)
		}
		return fmt.Sprintf("proto@%04x %s", idx, s)
	default:
		return fmt.Sprintf("%s@%04x", indexKindTag(kind), idx)
	}
}

func indexKindTag(k dexinstr.IndexKind) string {
	switch k {
	case dexinstr.IndexTypeRef:
		return "type"
	case dexinstr.IndexStringRef:
		return "string"
	case dexinstr.IndexMethodRef, dexinstr.IndexMethodAndProtoRef:
		return "method"
	case dexinstr.IndexFieldRef:
		return "field"
	case dexinstr.IndexCallSiteRef:
		return "call_site"
	case dexinstr.IndexMethodHandleRef:
		return "method_handle"
	case dexinstr.IndexProtoRef:
		return "proto"
	default:
		return "idx"
	}
}

func (v *View) typeDescriptor(typeIdx uint32) (string, error) {
	tid, err := v.GetTypeID(typeIdx)
	if err != nil {
		return "", err
	}
	return v.GetUTF16Str(tid.DescriptorIdx)
}

func (v *View) fieldRefString(fieldIdx uint32) (string, error) {
	fid, err := v.GetFieldID(fieldIdx)
	if err != nil {
		return "", err
	}
	owner, err := v.typeDescriptor(uint32(fid.ClassIdx))
	if err != nil {
		return "", err
	}
	name, err := v.GetUTF16Str(fid.NameIdx)
	if err != nil {
		return "", err
	}
	typ, err := v.typeDescriptor(uint32(fid.TypeIdx))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s->%s:%s", owner, name, typ), nil
}

func (v *View) methodRefString(methodIdx uint32) (string, error) {
	mid, err := v.GetMethodID(methodIdx)
	if err != nil {
		return "", err
	}
	owner, err := v.typeDescriptor(uint32(mid.ClassIdx))
	if err != nil {
		return "", err
	}
	name, err := v.GetUTF16Str(mid.NameIdx)
	if err != nil {
		return "", err
	}
	sig, err := v.protoString(uint32(mid.ProtoIdx))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s->%s%s", owner, name, sig), nil
}

// protoString renders a proto_id as "(paramdesc...)returndesc", the
// raw descriptor form used inside a method reference.
func (v *View) protoString(protoIdx uint32) (string, error) {
	pid, err := v.GetProtoID(protoIdx)
	if err != nil {
		return "", err
	}
	params, err := v.TypeListAt(pid.ParametersOff)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("(")
	for _, p := range params {
		desc, err := v.typeDescriptor(uint32(p))
		if err != nil {
			return "", err
		}
		b.WriteString(desc)
	}
	b.WriteString(")")
	ret, err := v.typeDescriptor(pid.ReturnTypeIdx)
	if err != nil {
		return "", err
	}
	b.WriteString(ret)
	return b.String(), nil
}
