package script

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// Op names a registry operation callable from a script.
type Op string

const (
	OpCreate             Op = "create"
	OpSize               Op = "size"
	OpDelete             Op = "delete"
	OpInsert             Op = "insert"
	OpRemove             Op = "remove"
	OpTest               Op = "test"
	OpClear              Op = "clear"
	OpCompare            Op = "compare"
	OpImmutableSingleton Op = "immutable_singleton"
)

const (
	attrSet    = "set"
	attrLeft   = "left"
	attrRight  = "right"
	attrValue  = "value"
	attrAs     = "as"
	attrExpect = "expect"
)

// opSpec describes which attributes a call block accepts.
type opSpec struct {
	required []string
	// returns is true for operations producing a value that can be expected.
	returns bool
	// binds is true for operations producing a set id that can be named.
	binds bool
}

var opSpecs = map[Op]opSpec{
	OpCreate:             {returns: true, binds: true},
	OpSize:               {required: []string{attrSet}, returns: true},
	OpDelete:             {required: []string{attrSet}},
	OpInsert:             {required: []string{attrSet, attrValue}},
	OpRemove:             {required: []string{attrSet, attrValue}},
	OpTest:               {required: []string{attrSet, attrValue}, returns: true},
	OpClear:              {required: []string{attrSet}},
	OpCompare:            {required: []string{attrLeft, attrRight}, returns: true},
	OpImmutableSingleton: {required: []string{attrValue}, returns: true, binds: true},
}

// schema builds the body schema of a call block for this operation.
func (s opSpec) schema() *hcl.BodySchema {
	schema := &hcl.BodySchema{}
	for _, name := range s.required {
		schema.Attributes = append(schema.Attributes, hcl.AttributeSchema{Name: name, Required: true})
	}
	if s.returns {
		schema.Attributes = append(schema.Attributes, hcl.AttributeSchema{Name: attrExpect})
	}
	if s.binds {
		schema.Attributes = append(schema.Attributes, hcl.AttributeSchema{Name: attrAs})
	}
	return schema
}

// knownOps lists the operation names in sorted order, for error messages.
func knownOps() []string {
	names := make([]string, 0, len(opSpecs))
	for op := range opSpecs {
		names = append(names, string(op))
	}
	sort.Strings(names)
	return names
}
