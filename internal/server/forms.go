package server

import (
	"recepcion/internal/receipt"
	"recepcion/pkg/types"
)

type equipmentItemForm struct {
	SerialNumber    string `form:"serialNumber"`
	InventoryNumber string `form:"inventoryNumber"`
	Model           string `form:"model"`
	Brand           string `form:"brand"`
}

type withdrawnItemForm struct {
	SerialNumber    string `form:"serialNumber"`
	InventoryNumber string `form:"inventoryNumber"`
}

type pcDetailsForm struct {
	Processor       string `form:"processor"`
	RAM             string `form:"ram"`
	Storage         string `form:"storage"`
	OperatingSystem string `form:"operatingSystem"`
	Office          string `form:"office"`
	ExtraApp1       string `form:"extraApp1"`
	ExtraApp2       string `form:"extraApp2"`
	ExtraApp3       string `form:"extraApp3"`
}

// receiptForm mirrors the intake form inputs, e.g. "department",
// "equipment[pc].serialNumber" or "pcDetails.ram". Signature fields carry the
// stroke payload drawn by static/signature.js.
type receiptForm struct {
	Date            string                       `form:"date"`
	Address         string                       `form:"address"`
	Department      string                       `form:"department"`
	ResponsibleUser string                       `form:"responsibleUser"`
	Equipment       map[string]equipmentItemForm `form:"equipment"`
	Withdrawn       map[string]withdrawnItemForm `form:"withdrawnEquipment"`
	PCDetails       pcDetailsForm                `form:"pcDetails"`
	ITSignature     string                       `form:"itSignature"`
	UserSignature   string                       `form:"userSignature"`
}

type fieldUpdate struct {
	section  types.Section
	field    string
	value    string
	category types.Category
}

// updates lists one controller update per form input. Categories missing from
// the posted maps are sent as blank values.
func (f *receiptForm) updates() []fieldUpdate {
	out := []fieldUpdate{
		{section: types.SectionInstitution, field: receipt.FieldDate, value: f.Date},
		{section: types.SectionInstitution, field: receipt.FieldAddress, value: f.Address},
		{section: types.SectionInstitution, field: receipt.FieldDepartment, value: f.Department},
		{section: types.SectionInstitution, field: receipt.FieldResponsibleUser, value: f.ResponsibleUser},
	}

	for _, cat := range types.Categories {
		item := f.Equipment[string(cat)]
		out = append(out,
			fieldUpdate{types.SectionEquipment, receipt.FieldSerialNumber, item.SerialNumber, cat},
			fieldUpdate{types.SectionEquipment, receipt.FieldInventoryNumber, item.InventoryNumber, cat},
			fieldUpdate{types.SectionEquipment, receipt.FieldModel, item.Model, cat},
			fieldUpdate{types.SectionEquipment, receipt.FieldBrand, item.Brand, cat},
		)
	}

	for _, cat := range types.Categories {
		item := f.Withdrawn[string(cat)]
		out = append(out,
			fieldUpdate{types.SectionWithdrawnEquipment, receipt.FieldSerialNumber, item.SerialNumber, cat},
			fieldUpdate{types.SectionWithdrawnEquipment, receipt.FieldInventoryNumber, item.InventoryNumber, cat},
		)
	}

	d := f.PCDetails
	for field, value := range map[string]string{
		receipt.FieldProcessor:       d.Processor,
		receipt.FieldRAM:             d.RAM,
		receipt.FieldStorage:         d.Storage,
		receipt.FieldOperatingSystem: d.OperatingSystem,
		receipt.FieldOffice:          d.Office,
		receipt.FieldExtraApp1:       d.ExtraApp1,
		receipt.FieldExtraApp2:       d.ExtraApp2,
		receipt.FieldExtraApp3:       d.ExtraApp3,
	} {
		out = append(out, fieldUpdate{section: types.SectionPCDetails, field: field, value: value})
	}

	return out
}

func (f *receiptForm) strokes() map[types.Signer]string {
	return map[types.Signer]string{
		types.SignerIT:   f.ITSignature,
		types.SignerUser: f.UserSignature,
	}
}

func (u fieldUpdate) apply(c *receipt.Controller) error {
	if u.category == "" {
		return c.UpdateField(u.section, u.field, u.value)
	}
	return c.UpdateField(u.section, u.field, u.value, u.category)
}
