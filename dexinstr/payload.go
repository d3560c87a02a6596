package dexinstr

// Payload identifiers: the first code unit of a payload
// pseudo-instruction, which otherwise looks like a nop (opcode 0x00).
const (
	packedSwitchIdent   = 0x0100
	sparseSwitchIdent   = 0x0200
	fillArrayDataIdent  = 0x0300
)

// PackedSwitchPayload is the packed-switch-payload pseudo-instruction:
// a dense table of branch targets for consecutive keys starting at
// FirstKey.
type PackedSwitchPayload struct {
	FirstKey int32
	Targets  []int32 // branch offsets, relative to the switch instruction's own address
}

// SparseSwitchPayload is the sparse-switch-payload pseudo-instruction:
// parallel arrays of keys and branch targets.
type SparseSwitchPayload struct {
	Keys    []int32
	Targets []int32
}

// FillArrayDataPayload is the fill-array-data-payload
// pseudo-instruction: raw element data for a fill-array-data
// instruction.
type FillArrayDataPayload struct {
	ElementWidth uint16
	Data         []byte // element_width * len(Data)/element_width bytes
}

// identOf peeks the code unit at pc without consuming it, the way the
// decoder must inspect it before deciding whether pc holds an ordinary
// nop or a payload pseudo-instruction.
func identOf(code []uint16, pc uint32) (uint16, bool) {
	if int(pc) >= len(code) {
		return 0, false
	}
	return code[pc], true
}

func parsePackedSwitchPayload(code []uint16, pc uint32) (PackedSwitchPayload, uint32, error) {
	if pc+2 > uint32(len(code)) {
		return PackedSwitchPayload{}, 0, ErrMalformedPayload
	}
	size := code[pc+1]
	sizeInUnits := uint32(4) + uint32(size)*2
	if pc+sizeInUnits > uint32(len(code)) {
		return PackedSwitchPayload{}, 0, ErrMalformedPayload
	}
	firstKey := int32(code[pc+2]) | int32(code[pc+3])<<16
	targets := make([]int32, size)
	base := pc + 4
	for i := uint16(0); i < size; i++ {
		lo := uint32(code[base+uint32(i)*2])
		hi := uint32(code[base+uint32(i)*2+1])
		targets[i] = int32(lo | hi<<16)
	}
	return PackedSwitchPayload{FirstKey: firstKey, Targets: targets}, sizeInUnits, nil
}

func parseSparseSwitchPayload(code []uint16, pc uint32) (SparseSwitchPayload, uint32, error) {
	if pc+2 > uint32(len(code)) {
		return SparseSwitchPayload{}, 0, ErrMalformedPayload
	}
	size := code[pc+1]
	sizeInUnits := uint32(2) + uint32(size)*4
	if pc+sizeInUnits > uint32(len(code)) {
		return SparseSwitchPayload{}, 0, ErrMalformedPayload
	}
	keys := make([]int32, size)
	targets := make([]int32, size)
	keysBase := pc + 2
	for i := uint16(0); i < size; i++ {
		lo := uint32(code[keysBase+uint32(i)*2])
		hi := uint32(code[keysBase+uint32(i)*2+1])
		keys[i] = int32(lo | hi<<16)
	}
	targetsBase := keysBase + uint32(size)*2
	for i := uint16(0); i < size; i++ {
		lo := uint32(code[targetsBase+uint32(i)*2])
		hi := uint32(code[targetsBase+uint32(i)*2+1])
		targets[i] = int32(lo | hi<<16)
	}
	return SparseSwitchPayload{Keys: keys, Targets: targets}, sizeInUnits, nil
}

func parseFillArrayDataPayload(code []uint16, pc uint32) (FillArrayDataPayload, uint32, error) {
	if pc+4 > uint32(len(code)) {
		return FillArrayDataPayload{}, 0, ErrMalformedPayload
	}
	elementWidth := code[pc+1]
	elementCount := uint32(code[pc+2]) | uint32(code[pc+3])<<16
	dataBytes := uint64(elementWidth) * uint64(elementCount)
	dataUnits := (dataBytes + 1) / 2
	sizeInUnits := uint64(4) + dataUnits
	if uint64(pc)+sizeInUnits > uint64(len(code)) {
		return FillArrayDataPayload{}, 0, ErrMalformedPayload
	}
	data := make([]byte, dataBytes)
	base := pc + 4
	for i := uint64(0); i < dataBytes; i++ {
		unit := code[base+uint32(i/2)]
		if i%2 == 0 {
			data[i] = byte(unit)
		} else {
			data[i] = byte(unit >> 8)
		}
	}
	return FillArrayDataPayload{ElementWidth: elementWidth, Data: data}, uint32(sizeInUnits), nil
}
