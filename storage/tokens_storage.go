package storage

import (
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tokendesk/tokendesk/storage/model"
)

// Dates are stored as dd-mm-yyyy text; these expressions rewrite them to
// ISO order so that BETWEEN and ORDER BY behave chronologically.
const (
	isoDateExpr           = "substr(date,7,4) || '-' || substr(date,4,2) || '-' || substr(date,1,2)"
	isoCompletionDateExpr = "substr(completion_date,7,4) || '-' || substr(completion_date,4,2) || '-' || substr(completion_date,1,2)"
)

// TokenRecordsStorage returns a TokenRecordsStorage
func (s *Storage) TokenRecordsStorage() *TokenRecordsStorage {
	return &TokenRecordsStorage{db: s.db, lookups: s.lookups}
}

// TokenRecordsStorage implements TokenRecordsStore using GORM
type TokenRecordsStorage struct {
	db      *gorm.DB
	lookups *LookupCache
}

// List returns records matching the filter, newest first
func (s *TokenRecordsStorage) List(filter model.TokenRecordFilter) ([]model.TokenRecord, error) {
	query := s.db.Model(&model.TokenRecord{})
	if filter.Location != "" && filter.Location != "All" {
		query = query.Where("LOWER(location) = LOWER(?)", filter.Location)
	}
	if filter.Status != "" && filter.Status != "All" {
		query = query.Where("LOWER(status) = LOWER(?)", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(token) LIKE LOWER(?) OR LOWER(client_name) LIKE LOWER(?)"+
				" OR LOWER(contact) LIKE LOWER(?) OR LOWER(sub_location) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Agent != "" && filter.Agent != "All" {
		query = query.Where("agent_name = ?", filter.Agent)
	}
	if filter.Executive != "" && filter.Executive != "All" {
		query = query.Where("executive_name = ?", filter.Executive)
	}
	if filter.FromDate != "" && filter.ToDate != "" {
		query = query.Where(isoDateExpr+" BETWEEN ? AND ?", filter.FromDate, filter.ToDate)
	}
	var records []model.TokenRecord
	err := errors.Wrap(query.Order(isoDateExpr+" DESC").Find(&records).Error, "failed to query token records")
	if err != nil {
		return nil, err
	}
	return records, nil
}

// All returns every record ordered by id, for exports
func (s *TokenRecordsStorage) All() ([]model.TokenRecord, error) {
	var records []model.TokenRecord
	if err := s.db.Order("id").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query token records")
	}
	return records, nil
}

// Create stores a new record and fills in its id. The money fields are
// normalized and the derived amount_due/margin columns recomputed; the
// payment-applied flags start as "no".
func (s *TokenRecordsStorage) Create(rec *model.TokenRecord) error {
	applyDerivedFields(rec)
	rec.AgentPaymentApplied = "no"
	rec.ExecutivePaymentApplied = "no"
	if err := s.db.Create(rec).Error; err != nil {
		return errors.Wrap(err, "failed to create token record")
	}
	s.invalidateLookups()
	return nil
}

// Update replaces the record with the given id
func (s *TokenRecordsStorage) Update(id uint, rec *model.TokenRecord) error {
	applyDerivedFields(rec)
	res := s.db.Model(&model.TokenRecord{}).Where("id = ?", id).Updates(
		map[string]any{
			"date":                 rec.Date,
			"location":             rec.Location,
			"sub_location":         rec.SubLocation,
			"token":                rec.Token,
			"password":             rec.Password,
			"client_name":          rec.ClientName,
			"contact":              rec.Contact,
			"who_will_ship":        rec.WhoWillShip,
			"contacted_client":     rec.ContactedClient,
			"status":               rec.Status,
			"forwarded":            rec.Forwarded,
			"charges":              rec.Charges,
			"payment_received":     rec.PaymentReceived,
			"amount_due":           rec.AmountDue,
			"agent_name":           rec.AgentName,
			"executive_name":       rec.ExecutiveName,
			"charges_to_executive": rec.ChargesToExecutive,
			"margin":               rec.Margin,
			"process_by":           rec.ProcessBy,
			"completion_date":      rec.CompletionDate,
		},
	)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update token record")
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("token record not found: %d", id)
	}
	s.invalidateLookups()
	return nil
}

// Delete removes the record with the given id
func (s *TokenRecordsStorage) Delete(id uint) error {
	res := s.db.Where("id = ?", id).Delete(&model.TokenRecord{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete token record")
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("token record not found: %d", id)
	}
	s.invalidateLookups()
	return nil
}

// Agents returns the distinct non-empty agent names, ordered
func (s *TokenRecordsStorage) Agents() ([]string, error) {
	return s.distinctNames("agent_name", lookupKeyAgents)
}

// Executives returns the distinct non-empty executive names, ordered
func (s *TokenRecordsStorage) Executives() ([]string, error) {
	return s.distinctNames("executive_name", lookupKeyExecutives)
}

func (s *TokenRecordsStorage) distinctNames(column, cacheKey string) ([]string, error) {
	if names, ok := s.lookups.Get(cacheKey); ok {
		return names, nil
	}
	var names []string
	err := s.db.Model(&model.TokenRecord{}).
		Distinct().
		Where(column+" IS NOT NULL AND "+column+" != ''").
		Order(column).
		Pluck(column, &names).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query distinct %s", column)
	}
	s.lookups.Set(cacheKey, names)
	return names, nil
}

// AgentReport returns the completed records of one agent, oldest first
func (s *TokenRecordsStorage) AgentReport(agent string) ([]model.TokenRecord, error) {
	return s.completedRecords("agent_name", agent, isoCompletionDateExpr+" ASC")
}

// ExecutiveReport returns the completed records of one executive, newest first
func (s *TokenRecordsStorage) ExecutiveReport(executive string) ([]model.TokenRecord, error) {
	return s.completedRecords("executive_name", executive, isoCompletionDateExpr+" DESC")
}

func (s *TokenRecordsStorage) completedRecords(column, name, order string) ([]model.TokenRecord, error) {
	var records []model.TokenRecord
	err := s.db.Where(column+" = ?", name).
		Where("completion_date IS NOT NULL AND completion_date != ''").
		Order(order).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query report records")
	}
	return records, nil
}

// ApplyAgentPayment settles the agent payment on the given records
func (s *TokenRecordsStorage) ApplyAgentPayment(ids []uint) (int64, error) {
	res := s.db.Model(&model.TokenRecord{}).Where("id IN ?", ids).Updates(
		map[string]any{
			"agent_payment_applied": "yes",
			"payment_received":      gorm.Expr("charges"),
			"amount_due":            "0",
		},
	)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "failed to apply agent payment")
	}
	return res.RowsAffected, nil
}

// ApplyExecutivePayment settles the executive payment on the given records
func (s *TokenRecordsStorage) ApplyExecutivePayment(ids []uint) (int64, error) {
	res := s.db.Model(&model.TokenRecord{}).Where("id IN ?", ids).Updates(
		map[string]any{
			"executive_payment_applied": "yes",
			"charges_to_executive":      gorm.Expr("charges"),
			"margin":                    "0",
		},
	)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "failed to apply executive payment")
	}
	return res.RowsAffected, nil
}

// MarkCompleted sets status Completed and the passed completion date
func (s *TokenRecordsStorage) MarkCompleted(ids []uint, completionDate string) (int64, error) {
	res := s.db.Model(&model.TokenRecord{}).Where("id IN ?", ids).Updates(
		map[string]any{
			"status":          "Completed",
			"completion_date": completionDate,
		},
	)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "failed to mark records completed")
	}
	return res.RowsAffected, nil
}

func (s *TokenRecordsStorage) invalidateLookups() {
	s.lookups.Invalidate(lookupKeyAgents, lookupKeyExecutives)
}

// applyDerivedFields normalizes the money columns and recomputes
// amount_due and margin. Non-numeric input counts as 0, matching data
// written by earlier deployments.
func applyDerivedFields(rec *model.TokenRecord) {
	charges := parseAmount(rec.Charges)
	received := parseAmount(rec.PaymentReceived)
	toExecutive := parseAmount(rec.ChargesToExecutive)

	rec.Charges = formatAmount(charges)
	rec.PaymentReceived = formatAmount(received)
	rec.ChargesToExecutive = formatAmount(toExecutive)
	rec.AmountDue = formatAmount(charges - received)
	rec.Margin = formatAmount(charges - toExecutive)
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
