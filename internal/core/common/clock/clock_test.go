package clock_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bpohub/workforce/internal/core/common/clock"
)

func TestClock(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Clock Suite")
}

var _ = Describe("ParseLabel", func() {
	It("should parse 12-hour labels", func() {
		Expect(clock.ParseLabel("9am")).To(Equal(9 * 60))
		Expect(clock.ParseLabel("9:30am")).To(Equal(9*60 + 30))
		Expect(clock.ParseLabel("5pm")).To(Equal(17 * 60))
		Expect(clock.ParseLabel("11pm")).To(Equal(23 * 60))
	})

	It("should handle noon and midnight", func() {
		Expect(clock.ParseLabel("12am")).To(Equal(0))
		Expect(clock.ParseLabel("12pm")).To(Equal(12 * 60))
	})

	It("should parse 24-hour punches", func() {
		Expect(clock.ParseLabel("09:20")).To(Equal(9*60 + 20))
		Expect(clock.ParseLabel("00:00")).To(Equal(0))
		Expect(clock.ParseLabel("23:59")).To(Equal(23*60 + 59))
	})

	It("should reject garbage", func() {
		for _, bad := range []string{"", "25:00", "9:75", "13pm", "0am", "soon"} {
			_, err := clock.ParseLabel(bad)
			Expect(err).To(HaveOccurred(), "expected error for %q", bad)
		}
	})
})

var _ = Describe("ParseShiftLabel", func() {
	It("should split a day shift", func() {
		start, end, err := clock.ParseShiftLabel("9am to 5pm")
		Expect(err).NotTo(HaveOccurred())
		Expect(start).To(Equal(9 * 60))
		Expect(end).To(Equal(17 * 60))
	})

	It("should keep a night shift's raw minutes for the caller to adjust", func() {
		start, end, err := clock.ParseShiftLabel("11pm to 7am")
		Expect(err).NotTo(HaveOccurred())
		Expect(start).To(Equal(23 * 60))
		Expect(end).To(Equal(7 * 60))
	})

	It("should reject labels without a separator", func() {
		_, _, err := clock.ParseShiftLabel("9am-5pm")
		Expect(err).To(HaveOccurred())
	})

	It("should reject unparseable ends", func() {
		_, _, err := clock.ParseShiftLabel("9am to never")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("FormatMinutes", func() {
	It("should render 24-hour values", func() {
		Expect(clock.FormatMinutes(0)).To(Equal("00:00"))
		Expect(clock.FormatMinutes(9*60 + 5)).To(Equal("09:05"))
		Expect(clock.FormatMinutes(23*60 + 59)).To(Equal("23:59"))
	})

	It("should wrap values past midnight", func() {
		Expect(clock.FormatMinutes(25 * 60)).To(Equal("01:00"))
	})
})
