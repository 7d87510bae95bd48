package types

// BaseData is shared by every page layout.
type BaseData struct {
	Institution string
	Environment string
}

type BaseDataSetter interface {
	SetBaseData(data BaseData)
}

type BasePageData struct {
	Title string
	Base  BaseData
}

func (d *BasePageData) SetBaseData(data BaseData) {
	d.Base = data
}

type ListPageData struct {
	BasePageData
	Notice string
	Error  string
	Search string
	Page   RecordPage
}

// ReceiptFormPageData drives the intake form. Errors is keyed by field path,
// for example "equipment.pc.serialNumber".
type ReceiptFormPageData struct {
	BasePageData
	Record      FormRecord
	Categories  []Category
	Errors      map[string]string
	ITStrokes   string
	UserStrokes string
	Notice      string
	Error       string
}

type ReceiptViewPageData struct {
	BasePageData
	Notice     string
	Record     FormRecord
	Status     RecordStatus
	Categories []Category
	Withdrawal WithdrawalView
}

type NotFoundPageData struct {
	BasePageData
	Message string
}
