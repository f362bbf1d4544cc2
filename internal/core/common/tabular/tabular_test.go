package tabular_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/tabular"
)

func TestTabular(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tabular Suite")
}

var _ = Describe("Parse", func() {
	required := []string{"employee_no", "date"}

	Context("with CSV input", func() {
		It("should map cells by lower-cased header", func() {
			data := []byte("Employee_No,Date,Shift_Time\nEMP-001,2026-03-02,9am to 5pm\n")

			rows, appErr := tabular.Parse("upload.csv", data, required)

			Expect(appErr).To(BeNil())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Get("employee_no")).To(Equal("EMP-001"))
			Expect(rows[0].Get("shift_time")).To(Equal("9am to 5pm"))
		})

		It("should number rows by their line in the file, header included", func() {
			data := []byte("employee_no,date\nEMP-001,2026-03-02\nEMP-002,2026-03-03\n")

			rows, appErr := tabular.Parse("upload.csv", data, required)

			Expect(appErr).To(BeNil())
			Expect(rows[0].Line).To(Equal(2))
			Expect(rows[1].Line).To(Equal(3))
		})

		It("should skip blank rows but keep source line numbers", func() {
			data := []byte("employee_no,date\nEMP-001,2026-03-02\n,\nEMP-002,2026-03-03\n")

			rows, appErr := tabular.Parse("upload.csv", data, required)

			Expect(appErr).To(BeNil())
			Expect(rows).To(HaveLen(2))
			Expect(rows[1].Line).To(Equal(4))
		})

		It("should pad short rows with empty cells", func() {
			data := []byte("employee_no,date,remarks\nEMP-001,2026-03-02\n")

			rows, appErr := tabular.Parse("upload.csv", data, required)

			Expect(appErr).To(BeNil())
			Expect(rows[0].Get("remarks")).To(Equal(""))
		})

		It("should reject a file missing a required column", func() {
			data := []byte("employee_no,shift_time\nEMP-001,9am to 5pm\n")

			_, appErr := tabular.Parse("upload.csv", data, required)

			Expect(appErr).NotTo(BeNil())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUnreadableFile))
			Expect(appErr.Message).To(ContainSubstring("date"))
		})

		It("should reject an empty file", func() {
			_, appErr := tabular.Parse("upload.csv", nil, required)

			Expect(appErr).NotTo(BeNil())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUnreadableFile))
		})
	})

	Context("with XLSX input", func() {
		It("should read the first sheet", func() {
			f := excelize.NewFile()
			Expect(f.SetSheetRow("Sheet1", "A1", &[]string{"employee_no", "date"})).To(Succeed())
			Expect(f.SetSheetRow("Sheet1", "A2", &[]string{"EMP-001", "2026-03-02"})).To(Succeed())
			buf, err := f.WriteToBuffer()
			Expect(err).NotTo(HaveOccurred())

			rows, appErr := tabular.Parse("upload.xlsx", buf.Bytes(), required)

			Expect(appErr).To(BeNil())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Get("employee_no")).To(Equal("EMP-001"))
		})

		It("should reject bytes that are not a workbook", func() {
			_, appErr := tabular.Parse("upload.xlsx", []byte("not a zip"), required)

			Expect(appErr).NotTo(BeNil())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUnreadableFile))
		})
	})
})
