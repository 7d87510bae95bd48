package seed

import (
	"context"
	"fmt"

	"recepcion/internal/signature"
	"recepcion/pkg/types"

	"github.com/sirupsen/logrus"
)

const institution = "Municipalidad de Lo Prado"

type RecordImporter interface {
	ImportRecord(ctx context.Context, record types.FormRecord) error
}

// Receipts returns the reference receipts. Completed receipts carry a signature
// for both signers, 1003 is left pending.
//
// To add a receipt: add it to the list with a free order id below 1100 and run
// `recepcion seed`. Running it again overwrites the same order ids.
func Receipts() ([]types.FormRecord, error) {
	records := []types.FormRecord{
		{
			OrderID:         1001,
			Institution:     institution,
			Date:            "2025-05-15",
			Address:         "San Pablo 7777",
			Department:      "Recursos Humanos",
			ResponsibleUser: "María González",
			Equipment: types.Equipment{
				PC:       types.EquipmentItem{SerialNumber: "SN12345678", InventoryNumber: "INV-PC-001", Model: "OptiPlex 7090", Brand: "Dell"},
				Monitor:  types.EquipmentItem{SerialNumber: "MONSN87654321", InventoryNumber: "INV-MON-001", Model: "P2419H", Brand: "Dell"},
				Mouse:    types.EquipmentItem{SerialNumber: "MSESN11223344", InventoryNumber: "INV-MSE-001", Model: "MS116", Brand: "Dell"},
				Keyboard: types.EquipmentItem{SerialNumber: "KBDSN99887766", InventoryNumber: "INV-KBD-001", Model: "KB216", Brand: "Dell"},
			},
			PCDetails: types.PCDetails{
				Processor:       "Intel Core i5-10500",
				RAM:             "16GB DDR4",
				Storage:         "SSD 512GB",
				OperatingSystem: "Windows 11 Pro",
				Office:          "Microsoft Office 2021",
				ExtraApp1:       "Adobe Acrobat Reader",
				ExtraApp2:       "Google Chrome",
				ExtraApp3:       "Zoom",
			},
			WithdrawnEquipment: types.WithdrawnEquipment{
				PC:       types.WithdrawnItem{SerialNumber: "OLD-SN12345", InventoryNumber: "OLD-INV-PC-001"},
				Monitor:  types.WithdrawnItem{SerialNumber: "OLD-MONSN54321", InventoryNumber: "OLD-INV-MON-001"},
				Mouse:    types.WithdrawnItem{SerialNumber: "OLD-MSESN11111", InventoryNumber: "OLD-INV-MSE-001"},
				Keyboard: types.WithdrawnItem{SerialNumber: "OLD-KBDSN99999", InventoryNumber: "OLD-INV-KBD-001"},
			},
		},
		{
			OrderID:         1002,
			Institution:     institution,
			Date:            "2025-05-14",
			Address:         "San Pablo 5959",
			Department:      "Tesorería",
			ResponsibleUser: "Juan Pérez",
			Equipment:       officeKit("HP", "ProDesk 400 G7", "P24v G4", "1002"),
			PCDetails:       standardDetails(),
		},
		{
			OrderID:         1003,
			Institution:     institution,
			Date:            "2025-05-12",
			Address:         "San Pablo 5959",
			Department:      "Atención Ciudadana",
			ResponsibleUser: "Ana Silva",
			Equipment:       officeKit("Lenovo", "ThinkCentre M70q", "ThinkVision T24i", "1003"),
			PCDetails:       standardDetails(),
		},
		{
			OrderID:         1004,
			Institution:     institution,
			Date:            "2025-05-10",
			Address:         "Av. Teniente Cruz 4350",
			Department:      "Dirección de Obras",
			ResponsibleUser: "Roberto Fernández",
			Equipment:       officeKit("Dell", "OptiPlex 5090", "E2422H", "1004"),
			PCDetails:       standardDetails(),
			WithdrawnEquipment: types.WithdrawnEquipment{
				PC: types.WithdrawnItem{SerialNumber: "OLD-SN-1004", InventoryNumber: "OLD-INV-PC-1004"},
			},
		},
		{
			OrderID:         1005,
			Institution:     institution,
			Date:            "2025-05-05",
			Address:         "San Pablo 5959",
			Department:      "Secretaría Municipal",
			ResponsibleUser: "Patricia Rojas",
			Equipment:       officeKit("HP", "EliteDesk 800 G6", "E24 G4", "1005"),
			PCDetails:       standardDetails(),
		},
	}

	for i, record := range records {
		if record.OrderID == 1003 {
			continue
		}
		signed, err := sign(record)
		if err != nil {
			return nil, fmt.Errorf("sign receipt %d: %w", record.OrderID, err)
		}
		records[i] = signed
	}

	return records, nil
}

// SeedReceipts writes every reference receipt through importer.
func SeedReceipts(ctx context.Context, importer RecordImporter, logger *logrus.Logger) error {
	records, err := Receipts()
	if err != nil {
		return err
	}

	logger.WithField("count", len(records)).Info("seeding receipts")

	for _, record := range records {
		if err := importer.ImportRecord(ctx, record); err != nil {
			return fmt.Errorf("import receipt %d: %w", record.OrderID, err)
		}
		logger.WithFields(logrus.Fields{
			"order_id": record.OrderID,
			"status":   record.Status(),
		}).Info("receipt seeded")
	}

	return nil
}

func officeKit(brand, pcModel, monitorModel, suffix string) types.Equipment {
	return types.Equipment{
		PC:       types.EquipmentItem{SerialNumber: "SN-PC-" + suffix, InventoryNumber: "INV-PC-" + suffix, Model: pcModel, Brand: brand},
		Monitor:  types.EquipmentItem{SerialNumber: "SN-MON-" + suffix, InventoryNumber: "INV-MON-" + suffix, Model: monitorModel, Brand: brand},
		Mouse:    types.EquipmentItem{SerialNumber: "SN-MSE-" + suffix, InventoryNumber: "INV-MSE-" + suffix, Model: "Optical Mouse", Brand: brand},
		Keyboard: types.EquipmentItem{SerialNumber: "SN-KBD-" + suffix, InventoryNumber: "INV-KBD-" + suffix, Model: "Wired Keyboard", Brand: brand},
	}
}

func standardDetails() types.PCDetails {
	return types.PCDetails{
		Processor:       "Intel Core i5-10500",
		RAM:             "8GB DDR4",
		Storage:         "SSD 256GB",
		OperatingSystem: "Windows 11 Pro",
		Office:          "Microsoft Office 2021",
	}
}

// sign draws a short scribble per signer, offset by the order id so every
// receipt gets a distinct image.
func sign(record types.FormRecord) (types.FormRecord, error) {
	pad := signature.NewPad(signature.DefaultWidth, signature.DefaultHeight)

	for i, signer := range types.Signers {
		shift := float64(record.OrderID%7*12 + i*30)
		stroke := signature.Stroke{
			{X: 60 + shift, Y: 140},
			{X: 120 + shift, Y: 60},
			{X: 180 + shift, Y: 150},
			{X: 240 + shift, Y: 70},
			{X: 320 + shift, Y: 120},
		}
		underline := signature.Stroke{{X: 50 + shift, Y: 170}, {X: 360 + shift, Y: 165}}

		if err := pad.Draw(signer, []signature.Stroke{stroke, underline}); err != nil {
			return record, err
		}

		img, err := pad.ExportImage(signer)
		if err != nil {
			return record, err
		}
		record = record.WithSignature(signer, img)
	}

	return record, nil
}
