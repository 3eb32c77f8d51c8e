package reports

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recolecta/internal/models"
)

var (
	owner     = models.User{ID: "u1", FirstName: "María", LastName: "Restrepo", Role: models.RoleUser}
	collector = models.User{ID: "c1", FirstName: "Carlos", LastName: "Mejía", Role: models.RoleCollector}
)

func sampleRequests() []models.Request {
	return []models.Request{
		{ID: "r1", UserID: "u1", Date: "2025-05-12", WasteType: models.WasteOrganic, Status: models.StatusCompleted, WeightKg: 12.5, Points: 25, CollectorID: "c1"},
		{ID: "r2", UserID: "u1", Date: "2025-05-20", WasteType: models.WasteInorganic, Status: models.StatusCompleted, WeightKg: 8, Points: 16, CollectorID: "c1"},
		{ID: "r3", UserID: "u1", Date: "2025-06-02", WasteType: models.WasteHazardous, Status: models.StatusCancelled},
		{ID: "r4", UserID: "ghost", Date: "2025-06-15", WasteType: models.WasteOrganic, Status: models.StatusPending},
	}
}

func TestBuild_JoinsUsersAndLabels(t *testing.T) {
	rows := Build(sampleRequests(), []models.User{owner, collector})
	require.Len(t, rows, 4)

	assert.Equal(t, "12/05/2025", rows[0].Date)
	assert.Equal(t, "Organic", rows[0].WasteType)
	assert.Equal(t, "Completed", rows[0].Status)
	assert.Equal(t, "Carlos", rows[0].Collector)
	assert.Equal(t, "María Restrepo", rows[0].User)

	assert.Equal(t, Unassigned, rows[2].Collector)
	assert.Equal(t, "Cancelled", rows[2].Status)
	assert.Equal(t, UnknownUser, rows[3].User)
}

func TestApply_UserAndDateRange(t *testing.T) {
	rows := Build(sampleRequests(), []models.User{owner, collector})

	f, err := ParseFilter("restrepo", "2025-05-20", "2025-06-02")
	require.NoError(t, err)
	got := Apply(rows, f)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "r3", got[1].ID)

	assert.Len(t, Apply(rows, Filter{}), 4)
}

func TestParseFilter_RejectsBadDate(t *testing.T) {
	_, err := ParseFilter("", "12/05/2025", "")
	assert.Error(t, err)
}

func TestSum_CountsCompletedOnly(t *testing.T) {
	rows := Build(sampleRequests(), []models.User{owner, collector})
	totals := Sum(rows)
	assert.InDelta(t, 20.5, totals.WeightKg, 1e-9)
	assert.Equal(t, 41, totals.Points)
}

func TestWriteCSV(t *testing.T) {
	rows := Build(sampleRequests()[:1], []models.User{owner, collector})
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,date,waste_type,weight_kg,status,points,collector,user", lines[0])
	assert.Equal(t, "r1,12/05/2025,Organic,12.5,Completed,25,Carlos,María Restrepo", lines[1])
}
