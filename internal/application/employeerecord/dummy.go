package employeerecord

import (
	"fmt"
	"time"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/shared"
)

// DummyRecordCount is the size of the synthetic listing
const DummyRecordCount = 25

var (
	dummyFirstNames = []string{"CAMILLE", "DOMINIQUE", "CLAUDE", "SACHA", "ALIX"}
	dummyLastNames  = []string{"MARTIN", "BERNARD", "DUBOIS", "THOMAS", "ROBERT"}
	dummyKinds      = []string{"ACI_DC", "EI_DC", "AI_DC", "ETTI_DC", "EITI_DC"}
)

// DummyRecords builds the synthetic listing partners use to test their
// integration. The content does not depend on the caller.
func DummyRecords(page int) shared.Paginated[EmployeeRecordResponse] {
	p := shared.NewPage(page, shared.DefaultPageSize)

	start := p.Offset()
	end := start + p.Size
	if end > DummyRecordCount {
		end = DummyRecordCount
	}
	items := make([]EmployeeRecordResponse, 0, p.Size)
	for i := start; i < end; i++ {
		rec := dummyRecord(i)
		items = append(items, ToResponse(&rec))
	}
	return shared.NewPaginated(items, DummyRecordCount, p)
}

func dummyRecord(i int) employeerecord.EmployeeRecord {
	birthdate := time.Date(1970+i, time.Month(1+i%12), 1+i%28, 0, 0, 0, 0, time.UTC)
	approval := fmt.Sprintf("99999%07d", i+1)
	title := "M"
	if i%2 == 1 {
		title = "MME"
	}

	return employeerecord.EmployeeRecord{
		ApprovalNumber:       approval,
		Siret:                fmt.Sprintf("%014d", 12345678900000+int64(i)),
		AssetProperty:        dummyKinds[i%len(dummyKinds)],
		FinancialAnnexNumber: "ACI999V000001A0",
		Status:               employeerecord.StatusNew,
		Payload: employeerecord.Payload{
			Person: employeerecord.Person{
				PassIAE:   approval,
				ItouID:    employeerecord.JobSeekerHash(int64(i + 1)),
				Title:     title,
				LastName:  dummyLastNames[i%len(dummyLastNames)],
				FirstName: dummyFirstNames[(i/len(dummyLastNames))%len(dummyFirstNames)],
				Birthdate: &birthdate,
			},
			Address: employeerecord.Address{
				Phone:      "0600000000",
				Email:      fmt.Sprintf("salarie%d@example.com", i+1),
				LaneNumber: fmt.Sprintf("%d", i+1),
				LaneType:   "RUE",
				LaneName:   "DE LA PAIX",
				InseeCode:  "75056",
				PostCode:   "75001",
			},
			Situation: employeerecord.Situation{
				OrientedBy:     "PRESCRIPTEUR",
				EducationLevel: "00",
			},
		},
	}
}
