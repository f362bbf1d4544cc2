package query_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bpohub/workforce/internal/core/common/query"
)

func TestQuery(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Query Params Suite")
}

var _ = Describe("Params", func() {
	var allowed []string

	BeforeEach(func() {
		allowed = []string{"date", "status", "total_hours"}
	})

	Describe("Normalize", func() {
		It("should clamp page and limit into positive ranges", func() {
			p := query.Params{Page: -3, Limit: 0}
			p.Normalize(allowed, "date", 50, 200)

			Expect(p.Page).To(Equal(1))
			Expect(p.Limit).To(Equal(50))
		})

		It("should cap the limit at the maximum", func() {
			p := query.Params{Page: 1, Limit: 9999}
			p.Normalize(allowed, "date", 50, 200)

			Expect(p.Limit).To(Equal(200))
		})

		It("should keep an allow-listed sort column", func() {
			p := query.Params{SortBy: "status"}
			p.Normalize(allowed, "date", 50, 200)

			Expect(p.SortBy).To(Equal("status"))
		})

		It("should fall back to the default for unknown sort columns", func() {
			p := query.Params{SortBy: "password_hash; DROP TABLE users"}
			p.Normalize(allowed, "date", 50, 200)

			Expect(p.SortBy).To(Equal("date"))
		})

		It("should accept desc in any casing and default everything else to asc", func() {
			p := query.Params{SortOrder: "DESC"}
			p.Normalize(allowed, "date", 50, 200)
			Expect(p.SortOrder).To(Equal(query.OrderDesc))

			p = query.Params{SortOrder: "sideways"}
			p.Normalize(allowed, "date", 50, 200)
			Expect(p.SortOrder).To(Equal(query.OrderAsc))
		})
	})

	Describe("Offset", func() {
		It("should compute the row offset from page and limit", func() {
			p := query.Params{Page: 3, Limit: 25}
			Expect(p.Offset()).To(Equal(50))
		})
	})

	Describe("OrderClause", func() {
		It("should render the normalized sort as an ORDER BY fragment", func() {
			p := query.Params{SortBy: "status", SortOrder: "desc"}
			p.Normalize(allowed, "date", 50, 200)

			Expect(p.OrderClause()).To(Equal("status desc"))
		})
	})

	Describe("TotalPages", func() {
		It("should round partial pages up", func() {
			Expect(query.TotalPages(101, 50)).To(Equal(3))
			Expect(query.TotalPages(100, 50)).To(Equal(2))
		})

		It("should yield zero pages for zero rows", func() {
			Expect(query.TotalPages(0, 50)).To(Equal(0))
		})
	})

	Describe("NewListResponse", func() {
		It("should carry pagination metadata from the params and count", func() {
			p := query.Params{Page: 2, Limit: 10}
			p.Normalize(allowed, "date", 50, 200)

			resp := query.NewListResponse([]string{"a"}, p, 35)

			Expect(resp.Page).To(Equal(2))
			Expect(resp.Limit).To(Equal(10))
			Expect(resp.TotalCount).To(Equal(int64(35)))
			Expect(resp.TotalPages).To(Equal(4))
		})
	})
})
