package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokendesk/tokendesk/storage/model"
)

func createTokenRecord(t *testing.T, store *TokenRecordsStorage, rec model.TokenRecord) model.TokenRecord {
	t.Helper()
	require.NoError(t, store.Create(&rec))
	require.NotZero(t, rec.ID)
	return rec
}

func TestApplyDerivedFields(t *testing.T) {
	rec := model.TokenRecord{Charges: "500", PaymentReceived: "200", ChargesToExecutive: "300"}
	applyDerivedFields(&rec)
	assert.Equal(t, "300", rec.AmountDue)
	assert.Equal(t, "200", rec.Margin)

	// non-numeric money input counts as 0
	rec = model.TokenRecord{Charges: "abc", PaymentReceived: "", ChargesToExecutive: "50.5"}
	applyDerivedFields(&rec)
	assert.Equal(t, "0", rec.Charges)
	assert.Equal(t, "0", rec.AmountDue)
	assert.Equal(t, "-50.5", rec.Margin)
}

func TestTokenRecordsCreate(t *testing.T) {
	store := newTestStorage(t).TokenRecordsStorage()
	rec := createTokenRecord(
		t, store, model.TokenRecord{
			Date: "15-03-2024", Location: "Mumbai", Token: "TKN-1", ClientName: "Acme",
			Charges: "1000", PaymentReceived: "400", ChargesToExecutive: "700",
		},
	)
	assert.Equal(t, "600", rec.AmountDue)
	assert.Equal(t, "300", rec.Margin)
	assert.Equal(t, "no", rec.AgentPaymentApplied)
	assert.Equal(t, "no", rec.ExecutivePaymentApplied)
}

func TestTokenRecordsUpdateAndDelete(t *testing.T) {
	store := newTestStorage(t).TokenRecordsStorage()
	rec := createTokenRecord(
		t, store, model.TokenRecord{Date: "15-03-2024", Token: "TKN-1", Charges: "100"},
	)

	rec.ClientName = "Updated Client"
	rec.Charges = "250"
	rec.PaymentReceived = "50"
	require.NoError(t, store.Update(rec.ID, &rec))
	records, err := store.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Updated Client", records[0].ClientName)
	assert.Equal(t, "200", records[0].AmountDue)

	err = store.Update(9999, &rec)
	_, ok := err.(model.NotFoundError)
	assert.True(t, ok, "expected NotFoundError, got %T", err)

	require.NoError(t, store.Delete(rec.ID))
	err = store.Delete(rec.ID)
	_, ok = err.(model.NotFoundError)
	assert.True(t, ok, "expected NotFoundError, got %T", err)
}

func seedListFixtures(t *testing.T, store *TokenRecordsStorage) {
	t.Helper()
	createTokenRecord(
		t, store, model.TokenRecord{
			Date: "01-02-2024", Location: "Mumbai", Status: "Pending", Token: "TKN-A",
			ClientName: "Acme Corp", AgentName: "ravi", ExecutiveName: "priya",
		},
	)
	createTokenRecord(
		t, store, model.TokenRecord{
			Date: "15-03-2024", Location: "delhi", Status: "Completed", Token: "TKN-B",
			ClientName: "Globex", Contact: "9876543210", AgentName: "ravi",
			CompletionDate: "20-03-2024",
		},
	)
	createTokenRecord(
		t, store, model.TokenRecord{
			Date: "10-01-2025", Location: "Delhi", Status: "Pending", Token: "TKN-C",
			ClientName: "Initech", AgentName: "suresh", ExecutiveName: "priya",
		},
	)
}

func TestTokenRecordsListFilters(t *testing.T) {
	store := newTestStorage(t).TokenRecordsStorage()
	seedListFixtures(t, store)

	all, err := store.List(model.TokenRecordFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first by chronological date, not by text order
	assert.Equal(t, "TKN-C", all[0].Token)
	assert.Equal(t, "TKN-B", all[1].Token)
	assert.Equal(t, "TKN-A", all[2].Token)

	// location matching ignores case; "All" means no restriction
	byLocation, err := store.List(model.TokenRecordFilter{Location: "DELHI"})
	require.NoError(t, err)
	assert.Len(t, byLocation, 2)
	unrestricted, err := store.List(model.TokenRecordFilter{Location: "All", Status: "All"})
	require.NoError(t, err)
	assert.Len(t, unrestricted, 3)

	byStatus, err := store.List(model.TokenRecordFilter{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "TKN-B", byStatus[0].Token)

	bySearch, err := store.List(model.TokenRecordFilter{Search: "globex"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "TKN-B", bySearch[0].Token)

	byContact, err := store.List(model.TokenRecordFilter{Search: "98765"})
	require.NoError(t, err)
	assert.Len(t, byContact, 1)

	byAgent, err := store.List(model.TokenRecordFilter{Agent: "ravi"})
	require.NoError(t, err)
	assert.Len(t, byAgent, 2)

	byExecutive, err := store.List(model.TokenRecordFilter{Executive: "priya"})
	require.NoError(t, err)
	assert.Len(t, byExecutive, 2)

	byRange, err := store.List(model.TokenRecordFilter{FromDate: "2024-01-01", ToDate: "2024-12-31"})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)
}

func TestTokenRecordsLookups(t *testing.T) {
	store := newTestStorage(t).TokenRecordsStorage()
	seedListFixtures(t, store)
	createTokenRecord(t, store, model.TokenRecord{Date: "01-01-2024", Token: "TKN-D"})

	agents, err := store.Agents()
	require.NoError(t, err)
	assert.Equal(t, []string{"ravi", "suresh"}, agents)

	executives, err := store.Executives()
	require.NoError(t, err)
	assert.Equal(t, []string{"priya"}, executives)
}

func TestTokenRecordsReports(t *testing.T) {
	store := newTestStorage(t).TokenRecordsStorage()
	createTokenRecord(
		t, store, model.TokenRecord{
			Date: "01-01-2024", Token: "TKN-A", AgentName: "ravi", ExecutiveName: "priya",
			CompletionDate: "05-01-2024",
		},
	)
	createTokenRecord(
		t, store, model.TokenRecord{
			Date: "01-02-2024", Token: "TKN-B", AgentName: "ravi", ExecutiveName: "priya",
			CompletionDate: "10-12-2023",
		},
	)
	createTokenRecord(
		t, store, model.TokenRecord{Date: "01-03-2024", Token: "TKN-C", AgentName: "ravi"},
	)

	// only completed records, oldest completion first
	agentReport, err := store.AgentReport("ravi")
	require.NoError(t, err)
	require.Len(t, agentReport, 2)
	assert.Equal(t, "TKN-B", agentReport[0].Token)
	assert.Equal(t, "TKN-A", agentReport[1].Token)

	// executive report is newest completion first
	execReport, err := store.ExecutiveReport("priya")
	require.NoError(t, err)
	require.Len(t, execReport, 2)
	assert.Equal(t, "TKN-A", execReport[0].Token)

	empty, err := store.AgentReport("nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTokenRecordsBulkOperations(t *testing.T) {
	store := newTestStorage(t).TokenRecordsStorage()
	a := createTokenRecord(
		t, store, model.TokenRecord{
			Date: "01-01-2024", Token: "TKN-A", Charges: "1000", PaymentReceived: "200",
			ChargesToExecutive: "600",
		},
	)
	b := createTokenRecord(
		t, store, model.TokenRecord{
			Date: "02-01-2024", Token: "TKN-B", Charges: "500", PaymentReceived: "0",
			ChargesToExecutive: "100",
		},
	)

	processed, err := store.ApplyAgentPayment([]uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, processed)
	records, err := store.All()
	require.NoError(t, err)
	for _, rec := range records {
		assert.Equal(t, "yes", rec.AgentPaymentApplied)
		assert.Equal(t, rec.Charges, rec.PaymentReceived)
		assert.Equal(t, "0", rec.AmountDue)
	}

	processed, err = store.ApplyExecutivePayment([]uint{a.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, processed)
	records, err = store.All()
	require.NoError(t, err)
	assert.Equal(t, "yes", records[0].ExecutivePaymentApplied)
	assert.Equal(t, records[0].Charges, records[0].ChargesToExecutive)
	assert.Equal(t, "0", records[0].Margin)
	assert.Equal(t, "no", records[1].ExecutivePaymentApplied)

	processed, err = store.MarkCompleted([]uint{a.ID, b.ID, 9999}, "31-12-2024")
	require.NoError(t, err)
	assert.EqualValues(t, 2, processed)
	records, err = store.All()
	require.NoError(t, err)
	for _, rec := range records {
		assert.Equal(t, "Completed", rec.Status)
		assert.Equal(t, "31-12-2024", rec.CompletionDate)
	}
}
