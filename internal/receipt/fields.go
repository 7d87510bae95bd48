package receipt

import (
	"fmt"
	"strings"
	"time"

	"recepcion/pkg/types"
)

// Field names accepted by UpdateField, grouped by section.
const (
	FieldInstitution     = "institution"
	FieldDate            = "date"
	FieldAddress         = "address"
	FieldDepartment      = "department"
	FieldResponsibleUser = "responsibleUser"

	FieldSerialNumber    = "serialNumber"
	FieldInventoryNumber = "inventoryNumber"
	FieldModel           = "model"
	FieldBrand           = "brand"

	FieldProcessor       = "processor"
	FieldRAM             = "ram"
	FieldStorage         = "storage"
	FieldOperatingSystem = "operatingSystem"
	FieldOffice          = "office"
	FieldExtraApp1       = "extraApp1"
	FieldExtraApp2       = "extraApp2"
	FieldExtraApp3       = "extraApp3"
)

// FieldPath names a field the way validation errors report it, for example
// "department", "equipment.pc.serialNumber" or "pcDetails.ram".
func FieldPath(section types.Section, field string, category types.Category) string {
	switch section {
	case types.SectionInstitution:
		return field
	case types.SectionEquipment, types.SectionWithdrawnEquipment:
		return fmt.Sprintf("%s.%s.%s", section, category, field)
	}
	return fmt.Sprintf("%s.%s", section, field)
}

// ApplyField returns a copy of record with one field replaced. Sibling
// categories and fields are carried over unchanged.
func ApplyField(record types.FormRecord, section types.Section, field, value string, category ...types.Category) (types.FormRecord, error) {
	switch section {
	case types.SectionInstitution:
		return applyGeneral(record, field, value)

	case types.SectionEquipment:
		cat, err := singleCategory(section, category)
		if err != nil {
			return record, err
		}
		item, err := setEquipmentField(record.Equipment.Item(cat), field, value)
		if err != nil {
			return record, fmt.Errorf("%w: %s", err, FieldPath(section, field, cat))
		}
		record.Equipment = record.Equipment.With(cat, item)
		return record, nil

	case types.SectionWithdrawnEquipment:
		cat, err := singleCategory(section, category)
		if err != nil {
			return record, err
		}
		item, err := setWithdrawnField(record.WithdrawnEquipment.Item(cat), field, value)
		if err != nil {
			return record, fmt.Errorf("%w: %s", err, FieldPath(section, field, cat))
		}
		record.WithdrawnEquipment = record.WithdrawnEquipment.With(cat, item)
		return record, nil

	case types.SectionPCDetails:
		details, err := setPCDetail(record.PCDetails, field, value)
		if err != nil {
			return record, fmt.Errorf("%w: %s", err, FieldPath(section, field, ""))
		}
		record.PCDetails = details
		return record, nil
	}

	return record, fmt.Errorf("%w: section %q", types.ErrUnknownField, section)
}

func singleCategory(section types.Section, category []types.Category) (types.Category, error) {
	if len(category) != 1 || !category[0].Valid() {
		return "", fmt.Errorf("%w: %s", types.ErrCategoryRequired, section)
	}
	return category[0], nil
}

func applyGeneral(record types.FormRecord, field, value string) (types.FormRecord, error) {
	switch field {
	case FieldInstitution:
		return record, fmt.Errorf("%w: %s", types.ErrReadOnlyField, field)
	case FieldDate:
		value = strings.TrimSpace(value)
		if value != "" {
			if _, err := time.Parse(types.DateLayout, value); err != nil {
				verr := types.NewValidationError()
				verr.Add(FieldDate, "Ingrese una fecha válida (AAAA-MM-DD).")
				return record, verr
			}
		}
		record.Date = value
	case FieldAddress:
		record.Address = value
	case FieldDepartment:
		record.Department = value
	case FieldResponsibleUser:
		record.ResponsibleUser = value
	default:
		return record, fmt.Errorf("%w: %s", types.ErrUnknownField, field)
	}
	return record, nil
}

func setEquipmentField(item types.EquipmentItem, field, value string) (types.EquipmentItem, error) {
	switch field {
	case FieldSerialNumber:
		item.SerialNumber = value
	case FieldInventoryNumber:
		item.InventoryNumber = value
	case FieldModel:
		item.Model = value
	case FieldBrand:
		item.Brand = value
	default:
		return item, types.ErrUnknownField
	}
	return item, nil
}

func setWithdrawnField(item types.WithdrawnItem, field, value string) (types.WithdrawnItem, error) {
	switch field {
	case FieldSerialNumber:
		item.SerialNumber = value
	case FieldInventoryNumber:
		item.InventoryNumber = value
	default:
		return item, types.ErrUnknownField
	}
	return item, nil
}

func setPCDetail(d types.PCDetails, field, value string) (types.PCDetails, error) {
	switch field {
	case FieldProcessor:
		d.Processor = value
	case FieldRAM:
		d.RAM = value
	case FieldStorage:
		d.Storage = value
	case FieldOperatingSystem:
		d.OperatingSystem = value
	case FieldOffice:
		d.Office = value
	case FieldExtraApp1:
		d.ExtraApp1 = value
	case FieldExtraApp2:
		d.ExtraApp2 = value
	case FieldExtraApp3:
		d.ExtraApp3 = value
	default:
		return d, types.ErrUnknownField
	}
	return d, nil
}
