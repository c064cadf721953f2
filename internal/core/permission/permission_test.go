package permission_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal/core/permission"
)

var _ = Describe("ParseToken", func() {
	It("splits module and action on the first colon", func() {
		tok := permission.ParseToken("user:view")
		Expect(tok.Module).To(Equal("user"))
		Expect(tok.Action).To(Equal("view"))
	})

	It("treats a bare token as a whole-module grant", func() {
		tok := permission.ParseToken("system")
		Expect(tok.Module).To(Equal("system"))
		Expect(tok.Action).To(BeEmpty())
	})

	It("round-trips through String", func() {
		Expect(permission.ParseToken("role:delete").String()).To(Equal("role:delete"))
		Expect(permission.ParseToken("menu").String()).To(Equal("menu"))
	})
})

var _ = Describe("Set", func() {
	Describe("wildcard expression", func() {
		set := permission.Parse("*")

		It("reports as wildcard", func() {
			Expect(set.IsWildcard()).To(BeTrue())
		})

		It("allows any token", func() {
			Expect(set.AllowsExpr("user:delete")).To(BeTrue())
			Expect(set.AllowsExpr("system:config")).To(BeTrue())
			Expect(set.AllowsExpr("anything")).To(BeTrue())
		})
	})

	Describe("token list expression", func() {
		set := permission.Parse("user,role:view,system:config")

		It("allows an exact token", func() {
			Expect(set.AllowsExpr("role:view")).To(BeTrue())
			Expect(set.AllowsExpr("system:config")).To(BeTrue())
		})

		It("covers every action under a whole-module grant", func() {
			Expect(set.AllowsExpr("user:view")).To(BeTrue())
			Expect(set.AllowsExpr("user:delete")).To(BeTrue())
			Expect(set.AllowsExpr("user")).To(BeTrue())
		})

		It("denies tokens outside the grants", func() {
			Expect(set.AllowsExpr("role:delete")).To(BeFalse())
			Expect(set.AllowsExpr("system:log")).To(BeFalse())
			Expect(set.AllowsExpr("menu:view")).To(BeFalse())
		})

		It("denies a whole-module requirement when only an action is granted", func() {
			Expect(set.AllowsExpr("role")).To(BeFalse())
		})
	})

	Describe("malformed expressions", func() {
		It("grants nothing for an empty expression", func() {
			set := permission.Parse("")
			Expect(set.IsWildcard()).To(BeFalse())
			Expect(set.AllowsExpr("user:view")).To(BeFalse())
		})

		It("drops stray commas and whitespace", func() {
			set := permission.Parse(" user:view ,, role:view ")
			Expect(set.AllowsExpr("user:view")).To(BeTrue())
			Expect(set.AllowsExpr("role:view")).To(BeTrue())
			Expect(set.AllowsExpr("")).To(BeFalse())
		})
	})
})
