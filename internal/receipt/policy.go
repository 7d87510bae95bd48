package receipt

import (
	"strings"

	"recepcion/pkg/types"

	"github.com/go-playground/validator/v10"
)

const requiredMessage = "Este campo es obligatorio."

// FieldRule is one row of the validation table. Rule is a validator tag
// evaluated against the trimmed value returned by Value.
type FieldRule struct {
	Path    string
	Rule    string
	Message string
	Value   func(types.FormRecord) string
}

type Policy struct {
	rules    []FieldRule
	validate *validator.Validate
}

func NewPolicy(rules ...FieldRule) *Policy {
	return &Policy{
		rules:    rules,
		validate: validator.New(),
	}
}

// DefaultPolicy requires every field of the record except the extra
// application slots, the withdrawn equipment and the signatures.
func DefaultPolicy() *Policy {
	rules := []FieldRule{
		required(FieldInstitution, func(r types.FormRecord) string { return r.Institution }),
		{
			Path:    FieldDate,
			Rule:    "required,datetime=" + types.DateLayout,
			Message: "Ingrese una fecha válida (AAAA-MM-DD).",
			Value:   func(r types.FormRecord) string { return r.Date },
		},
		required(FieldAddress, func(r types.FormRecord) string { return r.Address }),
		required(FieldDepartment, func(r types.FormRecord) string { return r.Department }),
		required(FieldResponsibleUser, func(r types.FormRecord) string { return r.ResponsibleUser }),
	}

	for _, cat := range types.Categories {
		rules = append(rules,
			required(FieldPath(types.SectionEquipment, FieldSerialNumber, cat), func(r types.FormRecord) string { return r.Equipment.Item(cat).SerialNumber }),
			required(FieldPath(types.SectionEquipment, FieldInventoryNumber, cat), func(r types.FormRecord) string { return r.Equipment.Item(cat).InventoryNumber }),
			required(FieldPath(types.SectionEquipment, FieldModel, cat), func(r types.FormRecord) string { return r.Equipment.Item(cat).Model }),
			required(FieldPath(types.SectionEquipment, FieldBrand, cat), func(r types.FormRecord) string { return r.Equipment.Item(cat).Brand }),
		)
	}

	rules = append(rules,
		required(FieldPath(types.SectionPCDetails, FieldProcessor, ""), func(r types.FormRecord) string { return r.PCDetails.Processor }),
		required(FieldPath(types.SectionPCDetails, FieldRAM, ""), func(r types.FormRecord) string { return r.PCDetails.RAM }),
		required(FieldPath(types.SectionPCDetails, FieldStorage, ""), func(r types.FormRecord) string { return r.PCDetails.Storage }),
		required(FieldPath(types.SectionPCDetails, FieldOperatingSystem, ""), func(r types.FormRecord) string { return r.PCDetails.OperatingSystem }),
		required(FieldPath(types.SectionPCDetails, FieldOffice, ""), func(r types.FormRecord) string { return r.PCDetails.Office }),
	)

	return NewPolicy(rules...)
}

func required(path string, value func(types.FormRecord) string) FieldRule {
	return FieldRule{Path: path, Rule: "required", Message: requiredMessage, Value: value}
}

// Required reports whether path appears in the table. The form marks these
// inputs as mandatory.
func (p *Policy) Required(path string) bool {
	for _, r := range p.rules {
		if r.Path == path {
			return true
		}
	}
	return false
}

// Validate returns nil when every rule passes.
func (p *Policy) Validate(record types.FormRecord) *types.ValidationError {
	verr := types.NewValidationError()
	for _, rule := range p.rules {
		value := strings.TrimSpace(rule.Value(record))
		if err := p.validate.Var(value, rule.Rule); err != nil {
			verr.Add(rule.Path, rule.Message)
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
