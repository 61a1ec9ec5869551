package presentation

import (
	"fmt"

	"github.com/zjrosen/attrsel/internal/descriptor"
)

// DescriptorDTO represents a resolved descriptor for presentation.
type DescriptorDTO struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Type        string         `json:"type,omitempty"`
	Order       int            `json:"order"`
	Hidden      bool           `json:"hidden"`
	Readable    bool           `json:"readable"`
	Writable    bool           `json:"writable"`
	Nested      bool           `json:"nested,omitempty"`
	Member      bool           `json:"member,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// SelectionDTO is the result of resolving a selector against a type.
type SelectionDTO struct {
	Type        string          `json:"type"`
	Selector    string          `json:"selector"`
	Count       int             `json:"count"`
	Descriptors []DescriptorDTO `json:"descriptors"`
}

// TypeDTO summarises a known type.
type TypeDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Properties  int    `json:"properties"`
	Source      string `json:"source,omitempty"`
}

// FromDescriptor converts a descriptor to a DTO.
func FromDescriptor(d *descriptor.Descriptor) DescriptorDTO {
	dto := DescriptorDTO{
		Name:        d.Name(),
		DisplayName: d.DisplayName(),
		Type:        d.ValueType().String(),
		Order:       d.DisplayOrder(),
		Hidden:      d.Hidden(),
		Readable:    d.Readable(),
		Writable:    d.Writable(),
		Nested:      d.IsNested(),
		Member:      d.IsMember(),
	}

	names := d.AttributeNames()
	if len(names) > 0 {
		dto.Attributes = make(map[string]any, len(names))
		for _, name := range names {
			v, _ := d.Attribute(name)
			dto.Attributes[name] = attributeValue(v)
		}
	}
	return dto
}

// FromDescriptors converts descriptors in order.
func FromDescriptors(ds []*descriptor.Descriptor) []DescriptorDTO {
	dtos := make([]DescriptorDTO, len(ds))
	for i, d := range ds {
		dtos[i] = FromDescriptor(d)
	}
	return dtos
}

// NewSelection builds the DTO for a resolved selection.
func NewSelection(t descriptor.Type, sel string, ds []*descriptor.Descriptor) SelectionDTO {
	return SelectionDTO{
		Type:        t.String(),
		Selector:    sel,
		Count:       len(ds),
		Descriptors: FromDescriptors(ds),
	}
}

// attributeValue keeps JSON friendly values and renders the rest as text.
func attributeValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64,
		map[string]any, []any:
		return v
	default:
		return fmt.Sprintf("%+v", v)
	}
}
