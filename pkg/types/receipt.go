package types

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for FormRecord.Date.
const DateLayout = "2006-01-02"

// DisplayDateLayout is how dates are shown to people (dd/MM/yyyy).
const DisplayDateLayout = "02/01/2006"

// DisplayDate reformats a DateLayout date for display. Values that do not
// parse are returned unchanged.
func DisplayDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayDateLayout)
}

type Category string

const (
	CategoryPC       Category = "pc"
	CategoryMonitor  Category = "monitor"
	CategoryMouse    Category = "mouse"
	CategoryKeyboard Category = "keyboard"
)

// Categories lists the fixed equipment kinds in display order.
var Categories = []Category{CategoryPC, CategoryMonitor, CategoryMouse, CategoryKeyboard}

func (c Category) Valid() bool {
	switch c {
	case CategoryPC, CategoryMonitor, CategoryMouse, CategoryKeyboard:
		return true
	}
	return false
}

func (c Category) Label() string {
	switch c {
	case CategoryPC:
		return "PC"
	case CategoryMonitor:
		return "Monitor"
	case CategoryMouse:
		return "Mouse"
	case CategoryKeyboard:
		return "Teclado"
	}
	return string(c)
}

type Signer string

const (
	SignerIT   Signer = "it"
	SignerUser Signer = "user"
)

var Signers = []Signer{SignerIT, SignerUser}

type Section string

const (
	SectionInstitution        Section = "institution"
	SectionEquipment          Section = "equipment"
	SectionPCDetails          Section = "pcDetails"
	SectionWithdrawnEquipment Section = "withdrawnEquipment"
)

type EquipmentItem struct {
	SerialNumber    string `json:"serialNumber"`
	InventoryNumber string `json:"inventoryNumber"`
	Model           string `json:"model,omitempty"`
	Brand           string `json:"brand,omitempty"`
}

// Equipment always carries the four fixed categories.
type Equipment struct {
	PC       EquipmentItem `json:"pc"`
	Monitor  EquipmentItem `json:"monitor"`
	Mouse    EquipmentItem `json:"mouse"`
	Keyboard EquipmentItem `json:"keyboard"`
}

// Item returns the item stored for c. Unknown categories return the zero item.
func (e Equipment) Item(c Category) EquipmentItem {
	switch c {
	case CategoryPC:
		return e.PC
	case CategoryMonitor:
		return e.Monitor
	case CategoryMouse:
		return e.Mouse
	case CategoryKeyboard:
		return e.Keyboard
	}
	return EquipmentItem{}
}

// With returns a copy of e where only category c has been replaced by item.
func (e Equipment) With(c Category, item EquipmentItem) Equipment {
	switch c {
	case CategoryPC:
		e.PC = item
	case CategoryMonitor:
		e.Monitor = item
	case CategoryMouse:
		e.Mouse = item
	case CategoryKeyboard:
		e.Keyboard = item
	}
	return e
}

// WithdrawnItem only tracks the identifiers of a returned unit.
type WithdrawnItem struct {
	SerialNumber    string `json:"serialNumber"`
	InventoryNumber string `json:"inventoryNumber"`
}

func (w WithdrawnItem) Recorded() bool {
	return strings.TrimSpace(w.SerialNumber) != ""
}

type WithdrawnEquipment struct {
	PC       WithdrawnItem `json:"pc"`
	Monitor  WithdrawnItem `json:"monitor"`
	Mouse    WithdrawnItem `json:"mouse"`
	Keyboard WithdrawnItem `json:"keyboard"`
}

func (w WithdrawnEquipment) Item(c Category) WithdrawnItem {
	switch c {
	case CategoryPC:
		return w.PC
	case CategoryMonitor:
		return w.Monitor
	case CategoryMouse:
		return w.Mouse
	case CategoryKeyboard:
		return w.Keyboard
	}
	return WithdrawnItem{}
}

func (w WithdrawnEquipment) With(c Category, item WithdrawnItem) WithdrawnEquipment {
	switch c {
	case CategoryPC:
		w.PC = item
	case CategoryMonitor:
		w.Monitor = item
	case CategoryMouse:
		w.Mouse = item
	case CategoryKeyboard:
		w.Keyboard = item
	}
	return w
}

type PCDetails struct {
	Processor       string `json:"processor"`
	RAM             string `json:"ram"`
	Storage         string `json:"storage"`
	OperatingSystem string `json:"operatingSystem"`
	Office          string `json:"office"`
	ExtraApp1       string `json:"extraApp1,omitempty"`
	ExtraApp2       string `json:"extraApp2,omitempty"`
	ExtraApp3       string `json:"extraApp3,omitempty"`
}

// FormRecord is the root entity of a receipt. Signatures hold PNG data URLs
// once captured and are empty otherwise.
type FormRecord struct {
	OrderID            int                `json:"orderId"`
	Institution        string             `json:"institution"`
	Date               string             `json:"date"`
	Address            string             `json:"address"`
	Department         string             `json:"department"`
	ResponsibleUser    string             `json:"responsibleUser"`
	Equipment          Equipment          `json:"equipment"`
	PCDetails          PCDetails          `json:"pcDetails"`
	WithdrawnEquipment WithdrawnEquipment `json:"withdrawnEquipment"`
	ITSignature        string             `json:"itSignature"`
	UserSignature      string             `json:"userSignature"`
}

func (r FormRecord) Signature(s Signer) string {
	switch s {
	case SignerIT:
		return r.ITSignature
	case SignerUser:
		return r.UserSignature
	}
	return ""
}

func (r FormRecord) WithSignature(s Signer, image string) FormRecord {
	switch s {
	case SignerIT:
		r.ITSignature = image
	case SignerUser:
		r.UserSignature = image
	}
	return r
}

// Status derives the list status from the captured signatures.
func (r FormRecord) Status() RecordStatus {
	if r.ITSignature != "" && r.UserSignature != "" {
		return RecordStatusCompleted
	}
	return RecordStatusPending
}

func (r FormRecord) Summary() RecordSummary {
	return RecordSummary{
		ID:              r.OrderID,
		Date:            r.Date,
		Department:      r.Department,
		ResponsibleUser: r.ResponsibleUser,
		Status:          r.Status(),
	}
}

type RecordStatus string

const (
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusPending   RecordStatus = "pending"
)

func (s RecordStatus) Label() string {
	if s == RecordStatusCompleted {
		return "Completado"
	}
	return "Pendiente"
}

type RecordSummary struct {
	ID              int          `json:"id"`
	Date            string       `json:"date"`
	Department      string       `json:"department"`
	ResponsibleUser string       `json:"responsibleUser"`
	Status          RecordStatus `json:"status"`
}

// Matches reports whether term is a case-insensitive substring of the
// responsible user, the department or the decimal id. A blank term matches.
func (s RecordSummary) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	return strings.Contains(strings.ToLower(s.ResponsibleUser), term) ||
		strings.Contains(strings.ToLower(s.Department), term) ||
		strings.Contains(strconv.Itoa(s.ID), term)
}

// StoredRecord is a persisted receipt as the archive sees it: the record
// fields plus where its signature images live.
type StoredRecord struct {
	Record           FormRecord
	ITSignatureKey   string
	UserSignatureKey string
	Status           RecordStatus
	CreatedAt        time.Time
}

func (s StoredRecord) SignatureKey(signer Signer) string {
	if signer == SignerIT {
		return s.ITSignatureKey
	}
	return s.UserSignatureKey
}

type ListQuery struct {
	Search   string
	Page     int
	PageSize int
}

type RecordPage struct {
	Items      []RecordSummary
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

func (p RecordPage) HasPrev() bool {
	return p.Page > 1
}

func (p RecordPage) HasNext() bool {
	return p.Page < p.TotalPages
}

// WithdrawalRow is one visible category of the withdrawal section.
type WithdrawalRow struct {
	Category Category
	Item     WithdrawnItem
}

type WithdrawalView struct {
	Rows     []WithdrawalRow
	Recorded bool
}
