package dtr_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/dtr"
)

func punch(s string) *string {
	return &s
}

var _ = Describe("Classify", func() {
	grace := 10 * time.Minute

	It("should mark days without a shift as Rest Day even when punches exist", func() {
		result, err := dtr.Classify("", dtr.Punches{TimeIn: punch("09:00")}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusRestDay))
		Expect(result.TotalHours).To(BeZero())
		Expect(result.OvertimeHours).To(BeZero())
	})

	It("should mark a missing clock-in as Absent", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusAbsent))
	})

	It("should mark a missing clock-in as On Leave when the leave marker is set", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{}, true, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusOnLeave))
	})

	It("should leave a day without a clock-out pending as Incomplete", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{TimeIn: punch("09:00")}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusIncomplete))
		Expect(result.Pending).To(BeTrue())
		Expect(result.TotalHours).To(BeZero())
	})

	It("should classify an on-time full day as Present", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:00"), TimeOut: punch("17:00"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusPresent))
		Expect(result.TotalHours).To(Equal(8.0))
		Expect(result.OvertimeHours).To(BeZero())
	})

	It("should allow clocking in at the grace boundary", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:10"), TimeOut: punch("17:00"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusPresent))
	})

	It("should mark a clock-in past the grace as Late with the worked hours", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:20"), TimeOut: punch("17:10"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusLate))
		Expect(result.TotalHours).To(Equal(7.83))
		Expect(result.OvertimeHours).To(BeZero())
	})

	It("should subtract the break when both break punches exist", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:00"), TimeOut: punch("18:00"),
			BreakIn: punch("12:00"), BreakOut: punch("13:00"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.TotalHours).To(Equal(8.0))
	})

	It("should ignore a lone break punch", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:00"), TimeOut: punch("17:00"),
			BreakIn: punch("12:00"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.TotalHours).To(Equal(8.0))
	})

	It("should credit overtime past the scheduled duration", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:00"), TimeOut: punch("19:30"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.TotalHours).To(Equal(10.5))
		Expect(result.OvertimeHours).To(Equal(2.5))
	})

	It("should never report negative overtime on a short day", func() {
		result, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:00"), TimeOut: punch("13:00"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.TotalHours).To(Equal(4.0))
		Expect(result.OvertimeHours).To(BeZero())
	})

	It("should treat a clock-out before the clock-in as next-day", func() {
		result, err := dtr.Classify("11pm to 7am", dtr.Punches{
			TimeIn: punch("23:00"), TimeOut: punch("07:00"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(dtr.StatusPresent))
		Expect(result.TotalHours).To(Equal(8.0))
	})

	It("should treat a break spanning midnight as next-day", func() {
		result, err := dtr.Classify("11pm to 7am", dtr.Punches{
			TimeIn: punch("23:00"), TimeOut: punch("07:00"),
			BreakIn: punch("23:50"), BreakOut: punch("00:20"),
		}, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.TotalHours).To(Equal(7.5))
	})

	It("should reject a break longer than the worked span", func() {
		_, err := dtr.Classify("9am to 5pm", dtr.Punches{
			TimeIn: punch("09:00"), TimeOut: punch("10:00"),
			BreakIn: punch("09:00"), BreakOut: punch("11:30"),
		}, false, grace)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTimeRange))
	})

	It("should reject an unparseable shift label", func() {
		_, err := dtr.Classify("flex", dtr.Punches{TimeIn: punch("09:00")}, false, grace)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidShift))
	})

	It("should be idempotent for the same inputs", func() {
		punches := dtr.Punches{TimeIn: punch("09:20"), TimeOut: punch("17:10")}

		first, err := dtr.Classify("9am to 5pm", punches, false, grace)
		Expect(err).NotTo(HaveOccurred())
		second, err := dtr.Classify("9am to 5pm", punches, false, grace)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})
})
