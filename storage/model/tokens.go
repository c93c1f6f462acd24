package model

// TokenRecord represents a single shipment/service token entry.
// Money and date fields are stored as text to stay compatible with data
// written by earlier deployments; dates use the dd-mm-yyyy format.
type TokenRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date        string `json:"date"`
	Location    string `json:"location"`
	SubLocation string `json:"sub_location"`
	Token       string `json:"token"`
	Password    string `json:"password"`
	ClientName  string `json:"client_name"`
	Contact     string `json:"contact"`

	WhoWillShip     string `json:"who_will_ship"`
	ContactedClient string `json:"contacted_client"`
	Status          string `json:"status"`
	Forwarded       string `json:"forwarded"`

	Charges            string `json:"charges"`
	PaymentReceived    string `json:"payment_received"`
	AmountDue          string `json:"amount_due"`
	AgentName          string `json:"agent_name"`
	ExecutiveName      string `json:"executive_name"`
	ChargesToExecutive string `json:"charges_to_executive"`
	Margin             string `json:"margin"`

	ProcessBy      string `json:"process_by"`
	CompletionDate string `json:"completion_date"`

	AgentPaymentApplied     string `json:"agent_payment_applied"`
	ExecutivePaymentApplied string `json:"executive_payment_applied"`
}

// TokenRecordFilter narrows a token record listing. Zero values (and the
// literal "All" for the dropdown-backed fields) mean "no restriction".
type TokenRecordFilter struct {
	Location  string
	Status    string
	Search    string
	Agent     string
	Executive string
	FromDate  string // yyyy-mm-dd
	ToDate    string // yyyy-mm-dd
}

// TokenRecordsStore abstracts CRUD, lookups, reports and bulk operations
// for token records.
type TokenRecordsStore interface {
	// List returns records matching the filter, newest first
	List(filter TokenRecordFilter) ([]TokenRecord, error)
	// All returns every record ordered by id, for exports
	All() ([]TokenRecord, error)
	// Create stores a new record and fills in its id
	Create(rec *TokenRecord) error
	// Update replaces the record with the given id
	Update(id uint, rec *TokenRecord) error
	// Delete removes the record with the given id
	Delete(id uint) error

	// Agents returns the distinct non-empty agent names, ordered
	Agents() ([]string, error)
	// Executives returns the distinct non-empty executive names, ordered
	Executives() ([]string, error)

	// AgentReport returns the completed records of one agent
	AgentReport(agent string) ([]TokenRecord, error)
	// ExecutiveReport returns the completed records of one executive
	ExecutiveReport(executive string) ([]TokenRecord, error)

	// ApplyAgentPayment settles the agent payment on the given records
	ApplyAgentPayment(ids []uint) (int64, error)
	// ApplyExecutivePayment settles the executive payment on the given records
	ApplyExecutivePayment(ids []uint) (int64, error)
	// MarkCompleted sets status Completed and the passed completion date
	MarkCompleted(ids []uint, completionDate string) (int64, error)
}
