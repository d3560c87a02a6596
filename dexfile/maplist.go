package dexfile

import (
	"fmt"

	"github.com/thanm/dexview/dexcursor"
)

// MapItemType identifies the kind of item a map_item entry describes.
// The header-based tables (string/type/proto/field/method/class_def)
// duplicate what the header already says; the ones with no header
// fields of their own (method handles, call sites, hiddenapi class
// data) are only discoverable through the map list.
type MapItemType uint16

const (
	TypeHeaderItem              MapItemType = 0x0000
	TypeStringIdItem            MapItemType = 0x0001
	TypeTypeIdItem              MapItemType = 0x0002
	TypeProtoIdItem             MapItemType = 0x0003
	TypeFieldIdItem             MapItemType = 0x0004
	TypeMethodIdItem            MapItemType = 0x0005
	TypeClassDefItem            MapItemType = 0x0006
	TypeCallSiteIdItem          MapItemType = 0x0007
	TypeMethodHandleItem        MapItemType = 0x0008
	TypeMapList                 MapItemType = 0x1000
	TypeTypeList                MapItemType = 0x1001
	TypeAnnotationSetRefList    MapItemType = 0x1002
	TypeAnnotationSetItem       MapItemType = 0x1003
	TypeClassDataItem           MapItemType = 0x2000
	TypeCodeItem                MapItemType = 0x2001
	TypeStringDataItem          MapItemType = 0x2002
	TypeDebugInfoItem           MapItemType = 0x2003
	TypeAnnotationItem          MapItemType = 0x2004
	TypeEncodedArrayItem        MapItemType = 0x2005
	TypeAnnotationsDirectoryItem MapItemType = 0x2006
	TypeHiddenapiClassDataItem  MapItemType = 0xF000
)

// mandatoryMapTypes are the map entries every well-formed DEX carries,
// used by parseMapList to reject a map that's missing one of them.
var mandatoryMapTypes = []MapItemType{
	TypeHeaderItem,
	TypeStringIdItem,
	TypeTypeIdItem,
	TypeMapList,
}

// MapItem is one entry of the map_list.
type MapItem struct {
	Type   MapItemType
	Size   uint32
	Offset uint32
}

// MapList is the fully decoded map_list section.
type MapList struct {
	Items []MapItem
}

// Find returns the first entry of the given type, if present.
func (m MapList) Find(t MapItemType) (MapItem, bool) {
	for _, it := range m.Items {
		if it.Type == t {
			return it, true
		}
	}
	return MapItem{}, false
}

// parseMapList decodes the map_list at h.MapOff. It requires the
// mandatory entries to be present but does not reject entries whose
// offsets are out of the DEX-conventional non-decreasing order — the
// map is used only for presence detection and iterating tables that
// have no header fields of their own.
func parseMapList(data []byte, h Header) (MapList, error) {
	c := dexcursor.New(data, h.MapOff)
	size, err := c.U32()
	if err != nil {
		return MapList{}, fmt.Errorf("map_list size: %w", err)
	}
	items := make([]MapItem, 0, size)
	for i := uint32(0); i < size; i++ {
		typ, err := c.U16()
		if err != nil {
			return MapList{}, fmt.Errorf("map_list[%d].type: %w", i, err)
		}
		if _, err := c.U16(); err != nil { // unused
			return MapList{}, fmt.Errorf("map_list[%d].unused: %w", i, err)
		}
		itemSize, err := c.U32()
		if err != nil {
			return MapList{}, fmt.Errorf("map_list[%d].size: %w", i, err)
		}
		offset, err := c.U32()
		if err != nil {
			return MapList{}, fmt.Errorf("map_list[%d].offset: %w", i, err)
		}
		items = append(items, MapItem{Type: MapItemType(typ), Size: itemSize, Offset: offset})
	}

	ml := MapList{Items: items}
	for _, want := range mandatoryMapTypes {
		if _, ok := ml.Find(want); !ok {
			return MapList{}, fmt.Errorf("%w: map_list missing mandatory entry %#x", ErrMalformedMapList, want)
		}
	}
	return ml, nil
}
