package rbac_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/rbac"
)

var _ = Describe("RBAC Service", func() {
	var (
		mockRepo *MockRepository
		service  *rbac.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = rbac.NewService(mockRepo, testLogger())
	})

	Describe("CreateRole", func() {
		It("should create a role with valid input", func() {
			role, err := service.CreateRole(rbac.CreateRoleDTO{
				Name:        "qa_lead",
				DisplayName: "QA Lead",
				Description: "Quality assurance lead",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(role.ID).NotTo(BeZero())
			Expect(role.IsSystemRole).To(BeFalse())
		})

		It("should reject a duplicate role name", func() {
			mockRepo.AddRole("qa_lead", false)
			_, err := service.CreateRole(rbac.CreateRoleDTO{Name: "qa_lead", DisplayName: "QA Lead"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should reject an empty name", func() {
			_, err := service.CreateRole(rbac.CreateRoleDTO{DisplayName: "No Name"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateRole", func() {
		It("should refuse to rename a system role", func() {
			role := mockRepo.AddRole("admin", true)
			_, err := service.UpdateRole(role.ID, rbac.UpdateRoleDTO{Name: "superadmin"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("should allow updating a system role's description", func() {
			role := mockRepo.AddRole("admin", true)
			updated, err := service.UpdateRole(role.ID, rbac.UpdateRoleDTO{Description: "Full access"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Description).To(Equal("Full access"))
			Expect(updated.Name).To(Equal("admin"))
		})

		It("should return not found for a missing role", func() {
			_, err := service.UpdateRole(999, rbac.UpdateRoleDTO{Description: "x"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("DeleteRole", func() {
		It("should refuse to delete a system role", func() {
			role := mockRepo.AddRole("agent", true)
			err := service.DeleteRole(role.ID)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("should delete a custom role", func() {
			role := mockRepo.AddRole("qa_lead", false)
			Expect(service.DeleteRole(role.ID)).To(Succeed())

			got, err := mockRepo.GetRoleByID(role.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("SetRoleDefault", func() {
		It("should write the grant for a known role and module", func() {
			role := mockRepo.AddRole("qa_lead", false)
			module := mockRepo.AddModule("dtr", 2, true)

			err := service.SetRoleDefault(role.ID, "dtr", rbac.PermissionSet{CanView: true, CanEdit: true})
			Expect(err).NotTo(HaveOccurred())

			set, err := mockRepo.GetRolePermission(role.ID, module.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(set).NotTo(BeNil())
			Expect(set.CanEdit).To(BeTrue())
			Expect(set.CanDelete).To(BeFalse())
		})

		It("should reject an unknown module", func() {
			role := mockRepo.AddRole("qa_lead", false)
			err := service.SetRoleDefault(role.ID, "payroll", rbac.PermissionSet{CanView: true})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GrantOverride and RevokeOverride", func() {
		It("should store the override with the granting admin recorded", func() {
			module := mockRepo.AddModule("schedule", 1, true)

			err := service.GrantOverride(7, "schedule", rbac.PermissionSet{CanView: true}, 1)
			Expect(err).NotTo(HaveOccurred())

			set, err := mockRepo.GetUserOverride(7, module.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(set).NotTo(BeNil())
			Expect(set.CanView).To(BeTrue())
		})

		It("should remove the override on revoke so the role default applies again", func() {
			module := mockRepo.AddModule("schedule", 1, true)
			mockRepo.SetUserPerm(7, module.ID, rbac.PermissionSet{CanView: true})

			Expect(service.RevokeOverride(7, "schedule")).To(Succeed())

			set, err := mockRepo.GetUserOverride(7, module.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(set).To(BeNil())
		})
	})

	Describe("Seed", func() {
		It("should install the module catalog and system roles", func() {
			Expect(rbac.Seed(mockRepo, testLogger())).To(Succeed())

			modules, err := mockRepo.ListModules()
			Expect(err).NotTo(HaveOccurred())
			Expect(len(modules)).To(Equal(11))

			admin, err := mockRepo.GetRoleByName("admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(admin).NotTo(BeNil())
			Expect(admin.IsSystemRole).To(BeTrue())

			agent, err := mockRepo.GetRoleByName("agent")
			Expect(err).NotTo(HaveOccurred())
			Expect(agent).NotTo(BeNil())
		})

		It("should be idempotent", func() {
			Expect(rbac.Seed(mockRepo, testLogger())).To(Succeed())
			Expect(rbac.Seed(mockRepo, testLogger())).To(Succeed())

			modules, err := mockRepo.ListModules()
			Expect(err).NotTo(HaveOccurred())
			Expect(len(modules)).To(Equal(11))
		})

		It("should leave the agent role without admin module grants", func() {
			Expect(rbac.Seed(mockRepo, testLogger())).To(Succeed())

			agent, err := mockRepo.GetRoleByName("agent")
			Expect(err).NotTo(HaveOccurred())

			roleMgmt, err := mockRepo.GetModuleByName("role_management")
			Expect(err).NotTo(HaveOccurred())

			resolver := rbac.NewResolver(mockRepo, testLogger())
			allowed, err := resolver.Resolve(rbac.Subject{UserID: 5, RoleID: agent.ID, IsActive: true}, roleMgmt.Name, rbac.ActionView)
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})
	})
})
