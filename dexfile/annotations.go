package dexfile

import (
	"fmt"

	"github.com/thanm/dexview/dexcursor"
)

// AnnotationVisibility is the visibility byte leading an
// annotation_item.
type AnnotationVisibility uint8

const (
	VisibilityBuild   AnnotationVisibility = 0x00
	VisibilityRuntime AnnotationVisibility = 0x01
	VisibilitySystem  AnnotationVisibility = 0x02
)

// AnnotationItem is a decoded annotation_item: a visibility tag plus
// the encoded_annotation it applies.
type AnnotationItem struct {
	Visibility AnnotationVisibility
	Annotation EncodedAnnotation
}

// AnnotationSet is a decoded annotation_set_item: the annotations
// applied to a single class, field, method, or parameter.
type AnnotationSet struct {
	Items []AnnotationItem
}

// FieldAnnotation associates a field_id index with its annotation set.
type FieldAnnotation struct {
	FieldIdx       uint32
	AnnotationsOff uint32
}

// MethodAnnotation associates a method_id index with its annotation
// set.
type MethodAnnotation struct {
	MethodIdx      uint32
	AnnotationsOff uint32
}

// ParameterAnnotation associates a method_id index with an
// annotation_set_ref_list covering that method's parameters.
type ParameterAnnotation struct {
	MethodIdx      uint32
	AnnotationsOff uint32 // offset of an annotation_set_ref_list
}

// AnnotationsDirectoryItem is the decoded annotations_directory_item
// for one class: the class-level annotation set plus the
// field/method/parameter annotation arrays.
type AnnotationsDirectoryItem struct {
	ClassAnnotationsOff uint32
	FieldAnnotations    []FieldAnnotation
	MethodAnnotations   []MethodAnnotation
	ParamAnnotations    []ParameterAnnotation
}

// AnnotationSet reads the annotation_set_item at off, or returns
// nil, nil for off == 0 (no annotations).
func (v *View) AnnotationSet(off uint32) (*AnnotationSet, error) {
	if off == 0 {
		return nil, nil
	}
	c := dexcursor.New(v.image, off)
	size, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: annotation_set_item.size: %v", ErrMalformedAnnotation, err)
	}
	items := make([]AnnotationItem, size)
	for i := range items {
		annOff, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: annotation_set_item[%d]: %v", ErrMalformedAnnotation, i, err)
		}
		item, err := v.readAnnotationItem(annOff)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return &AnnotationSet{Items: items}, nil
}

func (v *View) readAnnotationItem(off uint32) (AnnotationItem, error) {
	if off >= uint32(len(v.image)) {
		return AnnotationItem{}, ErrOutOfBounds
	}
	c := dexcursor.New(v.image, off)
	vis, err := c.U8()
	if err != nil {
		return AnnotationItem{}, err
	}
	r := &EncodedValueReader{c: dexcursor.New(v.image, c.Pos())}
	ann, err := r.readAnnotation()
	if err != nil {
		return AnnotationItem{}, fmt.Errorf("%w: annotation_item: %v", ErrMalformedAnnotation, err)
	}
	return AnnotationItem{Visibility: AnnotationVisibility(vis), Annotation: ann}, nil
}

// AnnotationSetRefList reads the annotation_set_ref_list at off: the
// per-parameter list of annotation_set_item offsets referenced by a
// ParameterAnnotation.
func (v *View) AnnotationSetRefList(off uint32) ([]uint32, error) {
	if off == 0 {
		return nil, nil
	}
	c := dexcursor.New(v.image, off)
	size, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: annotation_set_ref_list.size: %v", ErrMalformedAnnotation, err)
	}
	out := make([]uint32, size)
	for i := range out {
		off, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: annotation_set_ref_list[%d]: %v", ErrMalformedAnnotation, i, err)
		}
		out[i] = off
	}
	return out, nil
}

// AnnotationsDirectory reads the annotations_directory_item at off,
// or returns nil, nil for off == 0 (a class with no annotations at
// all).
func (v *View) AnnotationsDirectory(off uint32) (*AnnotationsDirectoryItem, error) {
	if off == 0 {
		return nil, nil
	}
	c := dexcursor.New(v.image, off)
	classAnnOff, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: annotations_directory_item.class_annotations_off: %v", ErrMalformedAnnotation, err)
	}
	fieldsSize, err := c.U32()
	if err != nil {
		return nil, err
	}
	methodsSize, err := c.U32()
	if err != nil {
		return nil, err
	}
	paramsSize, err := c.U32()
	if err != nil {
		return nil, err
	}

	fields := make([]FieldAnnotation, fieldsSize)
	for i := range fields {
		idx, err := c.U32()
		if err != nil {
			return nil, err
		}
		off, err := c.U32()
		if err != nil {
			return nil, err
		}
		fields[i] = FieldAnnotation{FieldIdx: idx, AnnotationsOff: off}
	}
	methods := make([]MethodAnnotation, methodsSize)
	for i := range methods {
		idx, err := c.U32()
		if err != nil {
			return nil, err
		}
		off, err := c.U32()
		if err != nil {
			return nil, err
		}
		methods[i] = MethodAnnotation{MethodIdx: idx, AnnotationsOff: off}
	}
	params := make([]ParameterAnnotation, paramsSize)
	for i := range params {
		idx, err := c.U32()
		if err != nil {
			return nil, err
		}
		off, err := c.U32()
		if err != nil {
			return nil, err
		}
		params[i] = ParameterAnnotation{MethodIdx: idx, AnnotationsOff: off}
	}

	return &AnnotationsDirectoryItem{
		ClassAnnotationsOff: classAnnOff,
		FieldAnnotations:    fields,
		MethodAnnotations:   methods,
		ParamAnnotations:    params,
	}, nil
}

// ClassAnnotationsAccessor bundles a class's annotations_directory_item
// with the View needed to resolve the field/method/parameter
// annotation sets it references, matching the accessor style of
// ClassDataAccessor and CodeItemAccessor.
type ClassAnnotationsAccessor struct {
	v   *View
	dir *AnnotationsDirectoryItem
}

// ClassAnnotationsAccessor returns the accessor for cd's annotations,
// or nil, nil if the class def carries no annotations_directory_item.
func (v *View) ClassAnnotationsAccessor(cd ClassDef) (*ClassAnnotationsAccessor, error) {
	dir, err := v.AnnotationsDirectory(cd.AnnotationsOff)
	if err != nil {
		return nil, err
	}
	if dir == nil {
		return nil, nil
	}
	return &ClassAnnotationsAccessor{v: v, dir: dir}, nil
}

// ClassAnnotations returns the class-level annotation set.
func (a *ClassAnnotationsAccessor) ClassAnnotations() (*AnnotationSet, error) {
	return a.v.AnnotationSet(a.dir.ClassAnnotationsOff)
}

// FieldAnnotations returns the annotation set for the field at
// fieldIdx, if the directory names one.
func (a *ClassAnnotationsAccessor) FieldAnnotations(fieldIdx uint32) (*AnnotationSet, error) {
	for _, fa := range a.dir.FieldAnnotations {
		if fa.FieldIdx == fieldIdx {
			return a.v.AnnotationSet(fa.AnnotationsOff)
		}
	}
	return nil, nil
}

// MethodAnnotations returns the annotation set for the method at
// methodIdx, if the directory names one.
func (a *ClassAnnotationsAccessor) MethodAnnotations(methodIdx uint32) (*AnnotationSet, error) {
	for _, ma := range a.dir.MethodAnnotations {
		if ma.MethodIdx == methodIdx {
			return a.v.AnnotationSet(ma.AnnotationsOff)
		}
	}
	return nil, nil
}

// ParameterAnnotations returns the per-parameter annotation sets for
// the method at methodIdx, if the directory names one.
func (a *ClassAnnotationsAccessor) ParameterAnnotations(methodIdx uint32) ([]*AnnotationSet, error) {
	for _, pa := range a.dir.ParamAnnotations {
		if pa.MethodIdx != methodIdx {
			continue
		}
		offs, err := a.v.AnnotationSetRefList(pa.AnnotationsOff)
		if err != nil {
			return nil, err
		}
		out := make([]*AnnotationSet, len(offs))
		for i, off := range offs {
			set, err := a.v.AnnotationSet(off)
			if err != nil {
				return nil, err
			}
			out[i] = set
		}
		return out, nil
	}
	return nil, nil
}
