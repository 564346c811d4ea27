package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/registry/internal/domain/entity"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
)

func record(id string, recordID int, supplier string, category entity.Category, status entity.Status) entity.Record {
	r := entity.NewRecord()
	r.ID = id
	r.RecordID = recordID
	r.SupplierName = supplier
	r.Category = category
	r.Status = status
	return r
}

func compliant(r entity.Record) entity.Record {
	for _, slot := range entity.MandatoryDocuments() {
		r.Documents[slot].Checked = true
	}
	return r
}

func ids(records []entity.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func fixture() []entity.Record {
	a := record("a", 1001, "Office Depot", entity.CategoryOfficeSupplies, entity.StatusRequested)
	a.PRNumber = "PR-2023-001"
	a.CreatedBy = "alice"

	b := compliant(record("b", 1002, "Acme IT", entity.CategoryCapitalOutlay, entity.StatusDelivery))
	b.PONumber = "PO-77"
	b.CreatedBy = "bob"

	c := compliant(record("c", 1003, "Office Depot", entity.CategoryMealsAndSnacks, entity.StatusPaymentCompleted))
	c.CreatedBy = "alice"

	d := record("d", 1004, "Jollibee", entity.CategoryMealsAndSnacks, entity.StatusDelivery)
	d.CreatedBy = "carol"

	return []entity.Record{a, b, c, d}
}

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewAll, v)

	for _, want := range Views() {
		got, err := ParseView(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = ParseView("archived")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestFilter(t *testing.T) {
	records := fixture()

	tests := []struct {
		view View
		want []string
	}{
		{ViewAll, []string{"a", "b", "c", "d"}},
		{ViewPending, []string{"a", "b", "d"}},
		{ViewCompleted, []string{"c"}},
		{ViewMissingDocs, []string{"a", "d"}},
		{ViewReadyToClose, []string{"b"}},
		{ViewBySupplier, []string{"a", "b", "c", "d"}},
		{ViewDashboard, []string{"a", "b", "c", "d"}},
		{ViewWorkflowMap, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(records, tt.view)))
		})
	}
}

func TestSearch(t *testing.T) {
	records := fixture()

	assert.Equal(t, []string{"a", "c"}, ids(Search(records, "office depot")))
	assert.Equal(t, []string{"a"}, ids(Search(records, "pr-2023")))
	assert.Equal(t, []string{"b"}, ids(Search(records, "po-77")))
	assert.Equal(t, []string{"c", "d"}, ids(Search(records, "MEALS")))
	assert.Len(t, Search(records, ""), 4)
	assert.Empty(t, Search(records, "nothing matches"))
}

func TestSelect_SearchAfterFilter(t *testing.T) {
	assert.Equal(t, []string{"a"}, ids(Select(fixture(), ViewPending, "office")))
}

func TestGroupBy(t *testing.T) {
	records := fixture()

	groups := GroupBy(records, ViewBySupplier)
	require.Len(t, groups, 3)
	assert.Equal(t, "Office Depot", groups[0].Key)
	assert.Equal(t, []string{"a", "c"}, ids(groups[0].Records))
	assert.Equal(t, "Acme IT", groups[1].Key)
	assert.Equal(t, "Jollibee", groups[2].Key)

	admins := GroupBy(records, ViewByAdmin)
	require.Len(t, admins, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{admins[0].Key, admins[1].Key, admins[2].Key})

	cats := GroupBy(records, ViewByCategory)
	require.Len(t, cats, 3)
	assert.Equal(t, string(entity.CategoryMealsAndSnacks), cats[2].Key)
	assert.Equal(t, []string{"c", "d"}, ids(cats[2].Records))

	flat := GroupBy(records, ViewAll)
	require.Len(t, flat, 1)
	assert.Len(t, flat[0].Records, 4)
}

func TestDashboard(t *testing.T) {
	records := fixture()
	records[0].Amount = 1500
	records[1].Amount = 2500.5
	records[0].Workflow[domainwf.StationBudget].Status = domainwf.StateProcessing
	records[3].Workflow[domainwf.StationBudget].Status = domainwf.StateProcessing
	records[1].Workflow[domainwf.StationDelivery].Status = domainwf.StateProcessing

	stats := Dashboard(records)
	assert.Equal(t, 4, stats.Total)
	assert.InDelta(t, 4000.5, stats.TotalAmount, 0.001)
	assert.Equal(t, 2, stats.MissingDocs)

	require.Len(t, stats.Pipeline, domainwf.StationCount)
	assert.Equal(t, "cmo", stats.Pipeline[0].ID)
	assert.Equal(t, 2, stats.Pipeline[domainwf.StationBudget].Processing)
	assert.Equal(t, 1, stats.Pipeline[domainwf.StationDelivery].Processing)
	assert.Equal(t, 0, stats.Pipeline[domainwf.StationTreasury].Processing)
}

func TestDashboard_Empty(t *testing.T) {
	stats := Dashboard(nil)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.TotalAmount)
	assert.Len(t, stats.Pipeline, domainwf.StationCount)
}

func TestWorkflowMap(t *testing.T) {
	var records []entity.Record
	for i := 0; i < 5; i++ {
		r := record(string(rune('a'+i)), 2000+i, "S", entity.CategoryOfficeSupplies, entity.StatusRequested)
		r.Workflow[domainwf.StationGSO].Status = domainwf.StateProcessing
		records = append(records, r)
	}

	columns := WorkflowMap(records, 0)
	require.Len(t, columns, domainwf.StationCount)

	gso := columns[domainwf.StationGSO]
	assert.Equal(t, 4, gso.Step)
	assert.Equal(t, 5, gso.Processing)
	require.Len(t, gso.Records, DefaultWorkflowMapLimit)
	assert.Equal(t, 2000, gso.Records[0].RecordID)
	assert.Equal(t, 2002, gso.Records[2].RecordID)

	assert.True(t, columns[domainwf.StationIT].Conditional)
	assert.Empty(t, columns[domainwf.StationCMO].Records)
}

func TestMergeImported(t *testing.T) {
	existing := fixture()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	fresh := record("x", 5001, "New Supplier", entity.CategoryOtherSupplies, entity.StatusRequested)
	dup := record("y", 1002, "Dup", entity.CategoryOtherSupplies, entity.StatusRequested)

	merged, added := MergeImported(existing, []entity.Record{fresh, dup}, "dana", now)
	assert.Equal(t, 1, added)
	require.Len(t, merged, 5)
	assert.Equal(t, "x", merged[4].ID)
	assert.Equal(t, "dana", merged[4].CreatedBy)
	assert.Equal(t, "dana", merged[4].CreatedByUsername)
	assert.Equal(t, "2024-03-01T08:00:00Z", merged[4].LastUpdated)

	// existing records are untouched
	assert.Equal(t, "alice", merged[0].CreatedBy)
	assert.Len(t, existing, 4)
}

func TestMergeImported_AllExisting(t *testing.T) {
	existing := fixture()
	merged, added := MergeImported(existing, []entity.Record{existing[0]}, "dana", time.Now())

	assert.Zero(t, added)
	assert.Equal(t, ids(existing), ids(merged))
}
