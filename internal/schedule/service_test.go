package schedule_test

import (
	"sort"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/events"
	"github.com/bpohub/workforce/internal/employee"
	"github.com/bpohub/workforce/internal/schedule"
	"github.com/bpohub/workforce/pkg/logger"
)

func TestScheduleService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Schedule Service Suite")
}

// MockRepository provides an in-memory implementation of schedule.Repository
type MockRepository struct {
	employees  map[int64]*employee.Employee
	schedules  map[int64]*schedule.ShiftSchedule
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		employees: make(map[int64]*employee.Employee),
		schedules: make(map[int64]*schedule.ShiftSchedule),
		nextID:    1,
	}
}

func (m *MockRepository) AddEmployee(emp *employee.Employee) {
	m.employees[emp.ID] = emp
}

func (m *MockRepository) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRepository) ActiveEmployees(search string) ([]*employee.Employee, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	term := strings.ToLower(search)
	var out []*employee.Employee
	for _, emp := range m.employees {
		if !emp.IsActive {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(emp.FullName), term) &&
			!strings.Contains(strings.ToLower(emp.EmployeeNo), term) {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *MockRepository) FindEmployeeByNo(employeeNo string) (*employee.Employee, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, emp := range m.employees {
		if emp.EmployeeNo == employeeNo {
			return emp, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) SchedulesForRange(from, to time.Time) ([]*schedule.ShiftSchedule, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*schedule.ShiftSchedule
	for id := int64(1); id < m.nextID; id++ {
		sched, ok := m.schedules[id]
		if !ok {
			continue
		}
		if sched.ScheduleDate.Before(from) || sched.ScheduleDate.After(to) {
			continue
		}
		out = append(out, sched)
	}
	return out, nil
}

func (m *MockRepository) GetByEmployeeAndDate(userID int64, date time.Time) (*schedule.ShiftSchedule, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, sched := range m.schedules {
		if sched.UserID == userID && sched.ScheduleDate.Equal(date) {
			return sched, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(s *schedule.ShiftSchedule) error {
	if m.shouldFail {
		return m.failError
	}
	s.ID = m.nextID
	m.nextID++
	m.schedules[s.ID] = s
	return nil
}

func (m *MockRepository) Update(s *schedule.ShiftSchedule) error {
	if m.shouldFail {
		return m.failError
	}
	m.schedules[s.ID] = s
	return nil
}

func (m *MockRepository) PublishWeek(from, to time.Time) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	var count int64
	for _, sched := range m.schedules {
		if sched.ScheduleDate.Before(from) || sched.ScheduleDate.After(to) {
			continue
		}
		if !sched.IsPublished {
			sched.IsPublished = true
			count++
		}
	}
	return count, nil
}

var _ = Describe("Schedule Service", func() {
	var (
		service  *schedule.Service
		mockRepo *MockRepository
		// Monday
		weekStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	)

	cfg := internal.AttendanceConfig{}
	cfg.ApplyDefaults()

	addSchedule := func(userID int64, dayOffset int, shiftTime, campaign string) *schedule.ShiftSchedule {
		sched := &schedule.ShiftSchedule{
			UserID:       userID,
			ScheduleDate: weekStart.AddDate(0, 0, dayOffset),
			ShiftTime:    shiftTime,
			Campaign:     campaign,
		}
		Expect(mockRepo.Create(sched)).To(Succeed())
		return sched
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockRepo.AddEmployee(&employee.Employee{
			ID: 1, EmployeeNo: "EMP-001", FullName: "Alice Reyes", Campaign: "Acme", IsActive: true,
		})
		mockRepo.AddEmployee(&employee.Employee{
			ID: 2, EmployeeNo: "EMP-002", FullName: "Ben Cruz", Campaign: "Globex", IsActive: true,
		})
		mockRepo.AddEmployee(&employee.Employee{
			ID: 3, EmployeeNo: "EMP-003", FullName: "Carla Santos", Campaign: "Acme", IsActive: false,
		})
		service = schedule.NewService(mockRepo, cfg, events.NewEventBus(logger.L()), logger.L())
	})

	Describe("WeeklySchedule", func() {
		BeforeEach(func() {
			addSchedule(1, 0, "9am to 5pm", "Acme")
			addSchedule(1, 1, "9am to 5pm", "Acme")
			addSchedule(2, 0, "11pm to 7am", "Globex")
		})

		It("should return a row per active employee ordered by name", func() {
			rows, err := service.WeeklySchedule(weekStart, "", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].EmployeeName).To(Equal("Alice Reyes"))
			Expect(rows[1].EmployeeName).To(Equal("Ben Cruz"))
		})

		It("should map shifts onto day names and leave days off nil", func() {
			rows, err := service.WeeklySchedule(weekStart, "", "", "")
			Expect(err).NotTo(HaveOccurred())

			alice := rows[0]
			Expect(alice.Shifts["Monday"]).To(HaveValue(Equal("9am to 5pm")))
			Expect(alice.Shifts["Tuesday"]).To(HaveValue(Equal("9am to 5pm")))
			Expect(alice.Shifts["Wednesday"]).To(BeNil())
			Expect(alice.Shifts["Sunday"]).To(BeNil())
		})

		It("should blank out days that fail the campaign filter instead of dropping rows", func() {
			rows, err := service.WeeklySchedule(weekStart, "", "Globex", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))

			Expect(rows[0].Shifts["Monday"]).To(BeNil())
			Expect(rows[1].Shifts["Monday"]).To(HaveValue(Equal("11pm to 7am")))
		})

		It("should blank out days that fail the shift filter", func() {
			rows, err := service.WeeklySchedule(weekStart, "", "", "9am to 5pm")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[1].Shifts["Monday"]).To(BeNil())
		})

		It("should narrow rows by search", func() {
			rows, err := service.WeeklySchedule(weekStart, "ben", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].EmployeeNo).To(Equal("EMP-002"))
		})

		It("should propagate repository errors", func() {
			mockRepo.SetShouldFail(true, internal.NewInternalError("db down", nil))
			_, err := service.WeeklySchedule(weekStart, "", "", "")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveShift", func() {
		It("should create an unpublished row with the parsed window", func() {
			sched, err := service.SaveShift(schedule.SaveShiftDTO{
				EmployeeID: 1,
				Date:       "2026-03-02",
				ShiftTime:  "9am to 5pm",
				Campaign:   "Acme",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sched.ID).NotTo(BeZero())
			Expect(sched.DayOfWeek).To(Equal("Monday"))
			Expect(sched.ShiftStart).To(Equal(9 * 60))
			Expect(sched.ShiftEnd).To(Equal(17 * 60))
			Expect(sched.IsPublished).To(BeFalse())
		})

		It("should keep night shift windows raw for the classifier to adjust", func() {
			sched, err := service.SaveShift(schedule.SaveShiftDTO{
				EmployeeID: 1, Date: "2026-03-02", ShiftTime: "11pm to 7am",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sched.ShiftStart).To(Equal(23 * 60))
			Expect(sched.ShiftEnd).To(Equal(7 * 60))
		})

		It("should update the existing row for the same employee and date", func() {
			existing := addSchedule(1, 0, "9am to 5pm", "Acme")
			existing.IsPublished = true

			sched, err := service.SaveShift(schedule.SaveShiftDTO{
				EmployeeID: 1, Date: "2026-03-02", ShiftTime: "10am to 6pm", Campaign: "Globex",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sched.ID).To(Equal(existing.ID))
			Expect(sched.ShiftTime).To(Equal("10am to 6pm"))
			Expect(sched.ShiftStart).To(Equal(10 * 60))
			Expect(sched.Campaign).To(Equal("Globex"))
			Expect(sched.IsPublished).To(BeTrue(), "editing must not unpublish")
		})

		It("should reject an unparseable shift label", func() {
			_, err := service.SaveShift(schedule.SaveShiftDTO{
				EmployeeID: 1, Date: "2026-03-02", ShiftTime: "whenever",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidShift))
		})

		It("should reject a malformed date", func() {
			_, err := service.SaveShift(schedule.SaveShiftDTO{
				EmployeeID: 1, Date: "03/02/2026", ShiftTime: "9am to 5pm",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should require an employee id", func() {
			_, err := service.SaveShift(schedule.SaveShiftDTO{
				Date: "2026-03-02", ShiftTime: "9am to 5pm",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("PublishWeek", func() {
		It("should flip every unpublished row in the window and report the count", func() {
			addSchedule(1, 0, "9am to 5pm", "Acme")
			addSchedule(1, 6, "9am to 5pm", "Acme")
			addSchedule(2, 7, "9am to 5pm", "Globex") // next week

			count, err := service.PublishWeek(schedule.PublishWeekDTO{WeekStart: "2026-03-02"})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})

		It("should count nothing on a second publish", func() {
			addSchedule(1, 0, "9am to 5pm", "Acme")

			_, err := service.PublishWeek(schedule.PublishWeekDTO{WeekStart: "2026-03-02"})
			Expect(err).NotTo(HaveOccurred())

			count, err := service.PublishWeek(schedule.PublishWeekDTO{WeekStart: "2026-03-02"})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should reject a malformed week start", func() {
			_, err := service.PublishWeek(schedule.PublishWeekDTO{WeekStart: "next monday"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("BulkUpload", func() {
		It("should apply good rows and collect the bad ones", func() {
			file := "employee_no,date,shift_time,campaign,notes\n" +
				"EMP-001,2026-03-02,9am to 5pm,Acme,\n" +
				"EMP-404,2026-03-03,9am to 5pm,Acme,\n" +
				"EMP-002,2026-03-04,whenever,Acme,\n" +
				"EMP-001,bad-date,9am to 5pm,Acme,\n"

			summary, err := service.BulkUpload("week.csv", []byte(file))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Accepted).To(Equal(1))
			Expect(summary.Rejected).To(Equal(3))
			Expect(summary.Errors).To(HaveLen(3))
			Expect(summary.Errors[0].Row).To(Equal(3))
			Expect(summary.Errors[0].Reason).To(ContainSubstring("EMP-404"))

			sched, err := mockRepo.GetByEmployeeAndDate(1, weekStart)
			Expect(err).NotTo(HaveOccurred())
			Expect(sched).NotTo(BeNil())
			Expect(sched.ShiftTime).To(Equal("9am to 5pm"))
		})

		It("should upsert when the upload repeats an assigned date", func() {
			addSchedule(1, 0, "9am to 5pm", "Acme")

			file := "employee_no,date,shift_time\nEMP-001,2026-03-02,10am to 6pm\n"
			summary, err := service.BulkUpload("week.csv", []byte(file))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Accepted).To(Equal(1))

			sched, _ := mockRepo.GetByEmployeeAndDate(1, weekStart)
			Expect(sched.ShiftTime).To(Equal("10am to 6pm"))
		})

		It("should reject the whole file when a required column is missing", func() {
			file := "employee_no,shift_time\nEMP-001,9am to 5pm\n"
			_, err := service.BulkUpload("week.csv", []byte(file))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("date"))
		})
	})

	Describe("ExportCSV", func() {
		It("should render the grid with one column per day", func() {
			addSchedule(1, 0, "9am to 5pm", "Acme")

			data, err := service.ExportCSV(weekStart, "", "", "")
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(Equal("Employee No,Employee Name,Campaign,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday"))
			Expect(lines[1]).To(Equal("EMP-001,Alice Reyes,Acme,9am to 5pm,,,,,,"))
		})
	})
})
